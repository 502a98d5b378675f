package config

import "github.com/vanago/channel/internal/net/packet"

// Rate type flags, used by the world server when only some rates change.
const (
	RateMobExp   int32 = 0x01
	RateQuestExp int32 = 0x02
	RateMobMeso  int32 = 0x04
	RateDrop     int32 = 0x08
)

type Rates struct {
	MobExp   int32 `toml:"mob_exp"`
	QuestExp int32 `toml:"quest_exp"`
	MobMeso  int32 `toml:"mob_meso"`
	Drop     int32 `toml:"drop"`
}

func (r *Rates) WritePacket(w *packet.Writer) {
	w.WriteInt32(r.MobExp)
	w.WriteInt32(r.QuestExp)
	w.WriteInt32(r.MobMeso)
	w.WriteInt32(r.Drop)
}

func (r *Rates) ReadPacket(rd *packet.Reader) {
	r.MobExp = rd.ReadInt32()
	r.QuestExp = rd.ReadInt32()
	r.MobMeso = rd.ReadInt32()
	r.Drop = rd.ReadInt32()
}

// MajorBoss limits daily attempts on a boss and the channels it may be
// fought on.
type MajorBoss struct {
	Attempts int16  `toml:"attempts"`
	Channels []int8 `toml:"channels"`
}

func (b *MajorBoss) WritePacket(w *packet.Writer) {
	w.WriteInt16(b.Attempts)
	packet.WriteSlice(w, b.Channels, (*packet.Writer).WriteInt8)
}

func (b *MajorBoss) ReadPacket(r *packet.Reader) {
	b.Attempts = r.ReadInt16()
	b.Channels = packet.ReadSlice(r, (*packet.Reader).ReadInt8)
}

// AllowsChannel reports whether the boss may be fought on channel ch.
func (b *MajorBoss) AllowsChannel(ch int8) bool {
	for _, c := range b.Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// WorldConfig is the world-wide configuration the world server pushes to
// every channel in IMSG_WORLD_CONFIG. Field order on the wire is fixed.
type WorldConfig struct {
	Ribbon              int8   `toml:"ribbon"`
	MaxMultiLevel       uint8  `toml:"max_multi_level"`
	DefaultStorageSlots uint8  `toml:"default_storage_slots"`
	MaxStats            int16  `toml:"max_stats"`
	DefaultChars        int32  `toml:"default_chars"`
	MaxChars            int32  `toml:"max_chars"`
	MaxPlayerLoad       int32  `toml:"max_player_load"`
	MaxChannels         int32  `toml:"max_channels"`
	FameTime            int32  `toml:"fame_time"`
	FameResetTime       int32  `toml:"fame_reset_time"`
	EventMessage        string `toml:"event_message"`
	ScrollingHeader     string `toml:"scrolling_header" env:"CHANNEL_SCROLLING_HEADER"`
	Name                string `toml:"name"`
	Rates               Rates  `toml:"rates"`

	Pianus    MajorBoss `toml:"pianus"`
	Papulatus MajorBoss `toml:"papulatus"`
	Zakum     MajorBoss `toml:"zakum"`
	Horntail  MajorBoss `toml:"horntail"`
	Pinkbean  MajorBoss `toml:"pinkbean"`
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		MaxMultiLevel:       1,
		DefaultStorageSlots: 4,
		MaxStats:            999,
		DefaultChars:        3,
		MaxChars:            6,
		MaxPlayerLoad:       100,
		MaxChannels:         20,
		FameTime:            30 * 60 * 60,
		FameResetTime:       30 * 60 * 60,
		Rates:               Rates{MobExp: 1, QuestExp: 1, MobMeso: 1, Drop: 1},
	}
}

func (c *WorldConfig) WritePacket(w *packet.Writer) {
	w.WriteInt8(c.Ribbon)
	w.WriteUint8(c.MaxMultiLevel)
	w.WriteUint8(c.DefaultStorageSlots)
	w.WriteInt16(c.MaxStats)
	w.WriteInt32(c.DefaultChars)
	w.WriteInt32(c.MaxChars)
	w.WriteInt32(c.MaxPlayerLoad)
	w.WriteInt32(c.MaxChannels)
	w.WriteInt32(c.FameTime)
	w.WriteInt32(c.FameResetTime)
	w.WriteString(c.EventMessage)
	w.WriteString(c.ScrollingHeader)
	w.WriteString(c.Name)
	w.WriteObject(&c.Rates)
	for _, b := range c.bosses() {
		w.WriteObject(b)
	}
}

func (c *WorldConfig) ReadPacket(r *packet.Reader) {
	c.Ribbon = r.ReadInt8()
	c.MaxMultiLevel = r.ReadUint8()
	c.DefaultStorageSlots = r.ReadUint8()
	c.MaxStats = r.ReadInt16()
	c.DefaultChars = r.ReadInt32()
	c.MaxChars = r.ReadInt32()
	c.MaxPlayerLoad = r.ReadInt32()
	c.MaxChannels = r.ReadInt32()
	c.FameTime = r.ReadInt32()
	c.FameResetTime = r.ReadInt32()
	c.EventMessage = r.ReadString()
	c.ScrollingHeader = r.ReadString()
	c.Name = r.ReadString()
	r.ReadObject(&c.Rates)
	for _, b := range c.bosses() {
		r.ReadObject(b)
	}
}

func (c *WorldConfig) bosses() []*MajorBoss {
	return []*MajorBoss{&c.Pianus, &c.Papulatus, &c.Zakum, &c.Horntail, &c.Pinkbean}
}
