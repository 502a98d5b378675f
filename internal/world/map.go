package world

import (
	"sort"

	"github.com/vanago/channel/internal/data"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/net/serverpacket"
)

// Map is one map instance and everything on it. It owns its reactors, mobs
// and drops; all broadcasts to its players go through it.
type Map struct {
	ID   int32
	Info *data.MapInfo

	players  map[int32]*Player
	reactors map[int32]*Reactor
	mobs     map[int32]*Mob
	drops    map[int32]*Drop
}

// NewMap creates a map and places the reactors listed in info.
func NewMap(info *data.MapInfo) *Map {
	m := &Map{
		ID:       info.MapID,
		Info:     info,
		players:  make(map[int32]*Player),
		reactors: make(map[int32]*Reactor),
		mobs:     make(map[int32]*Mob),
		drops:    make(map[int32]*Drop),
	}
	for _, rs := range info.Reactors {
		m.AddReactor(rs.ReactorID, Pos{X: rs.X, Y: rs.Y}, rs.FacesLeft, rs.RespawnTicks)
	}
	return m
}

// --- players ---

func (m *Map) AddPlayer(p *Player) {
	m.players[p.ID] = p
	p.MapID = m.ID
}

func (m *Map) RemovePlayer(playerID int32) {
	delete(m.players, playerID)
}

func (m *Map) Player(playerID int32) *Player {
	return m.players[playerID]
}

func (m *Map) PlayerCount() int {
	return len(m.players)
}

// Send broadcasts data to every player on the map.
func (m *Map) Send(data []byte) {
	for _, p := range m.players {
		p.Send(data)
	}
}

// SendExcept broadcasts data to every player on the map but one.
func (m *Map) SendExcept(data []byte, exceptID int32) {
	for id, p := range m.players {
		if id != exceptID {
			p.Send(data)
		}
	}
}

// SendSplit delivers sp.Self to p and sp.Others to the rest of the map.
func (m *Map) SendSplit(p *Player, sp packet.SplitPacket) {
	p.Send(sp.Self)
	m.SendExcept(sp.Others, p.ID)
}

// SendMapState shows a player entering the map everything already on it.
func (m *Map) SendMapState(p *Player) {
	for _, r := range m.Reactors() {
		if r.alive {
			p.Send(serverpacket.ReactorSpawn(r.info()))
		}
	}
	for _, id := range sortedKeys(m.mobs) {
		p.Send(serverpacket.MobShow(m.mobs[id].info()))
	}
	for _, id := range sortedKeys(m.drops) {
		p.Send(serverpacket.DropItem(serverpacket.DropExisting, m.drops[id].info()))
	}
	if m.Info.Music != "" {
		p.Send(serverpacket.PlayMusic(m.Info.Music))
	}
}

// --- reactors ---

// AddReactor places a live reactor at state 0.
func (m *Map) AddReactor(templateID int32, pos Pos, facesLeft bool, respawnTicks int) *Reactor {
	r := &Reactor{
		ID:           NextObjectID(),
		TemplateID:   templateID,
		Pos:          pos,
		FacesLeft:    facesLeft,
		RespawnTicks: respawnTicks,
		mapID:        m.ID,
		m:            m,
		alive:        true,
	}
	m.reactors[r.ID] = r
	return r
}

func (m *Map) Reactor(id int32) *Reactor {
	return m.reactors[id]
}

// Reactors returns the map's reactors ordered by object id.
func (m *Map) Reactors() []*Reactor {
	out := make([]*Reactor, 0, len(m.reactors))
	for _, id := range sortedKeys(m.reactors) {
		out = append(out, m.reactors[id])
	}
	return out
}

// --- mobs ---

// SpawnMob places a mob and shows it to the map.
func (m *Map) SpawnMob(mobID int32, pos Pos, foothold int16, linkedTo int32) *Mob {
	mob := &Mob{
		ObjectID: NextObjectID(),
		MobID:    mobID,
		Pos:      pos,
		Foothold: foothold,
		LinkedTo: linkedTo,
	}
	m.mobs[mob.ObjectID] = mob
	m.Send(serverpacket.MobShow(mob.info()))
	return mob
}

// SpawnZakum spawns Zakum's body followed by its arms, all at pos.
func (m *Map) SpawnZakum(pos Pos, foothold int16) *Mob {
	body := m.SpawnMob(ZakumBody, pos, foothold, 0)
	for id := ZakumFirstArm; id <= ZakumLastArm; id++ {
		m.SpawnMob(id, pos, foothold, body.ObjectID)
	}
	return body
}

func (m *Map) Mob(objectID int32) *Mob {
	return m.mobs[objectID]
}

// Mobs returns the map's mobs ordered by object id.
func (m *Map) Mobs() []*Mob {
	out := make([]*Mob, 0, len(m.mobs))
	for _, id := range sortedKeys(m.mobs) {
		out = append(out, m.mobs[id])
	}
	return out
}

func (m *Map) MobCount() int {
	return len(m.mobs)
}

// RemoveMob takes a mob off the map, fading it out if animate is set.
func (m *Map) RemoveMob(objectID int32, animate bool) {
	if _, ok := m.mobs[objectID]; !ok {
		return
	}
	delete(m.mobs, objectID)
	m.Send(serverpacket.MobDestroy(objectID, animate))
}

// --- drops ---

// AddDrop assigns the drop an object id and shows it falling.
func (m *Map) AddDrop(d *Drop) {
	d.ObjectID = NextObjectID()
	m.drops[d.ObjectID] = d
	m.Send(serverpacket.DropItem(serverpacket.DropAnimated, d.info()))
}

func (m *Map) Drop(objectID int32) *Drop {
	return m.drops[objectID]
}

func (m *Map) Drops() []*Drop {
	out := make([]*Drop, 0, len(m.drops))
	for _, id := range sortedKeys(m.drops) {
		out = append(out, m.drops[id])
	}
	return out
}

func (m *Map) DropCount() int {
	return len(m.drops)
}

// PickupDrop removes a drop looted by playerID.
func (m *Map) PickupDrop(objectID, playerID int32) {
	if _, ok := m.drops[objectID]; !ok {
		return
	}
	delete(m.drops, objectID)
	m.Send(serverpacket.DropPickedUp(objectID, playerID))
}

// Tick ages drops and counts down reactor respawns.
func (m *Map) Tick() {
	for _, id := range sortedKeys(m.drops) {
		if m.drops[id].tick() {
			delete(m.drops, id)
			m.Send(serverpacket.DropExpired(id))
		}
	}
	for _, r := range m.reactors {
		r.tick()
	}
}

func sortedKeys[V any](m map[int32]V) []int32 {
	keys := make([]int32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
