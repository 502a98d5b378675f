package serverpacket

import "github.com/vanago/channel/internal/net/packet"

// Map effect kinds.
const (
	mapEffectQuest      int8 = 0x02
	mapEffectEvent      int8 = 0x03
	mapEffectFieldSound int8 = 0x04
	mapEffectMusic      int8 = 0x06
)

func mapEffect(kind int8, name string) []byte {
	w := packet.NewWriter(packet.SMSG_MAP_EFFECT)
	w.WriteInt8(kind)
	w.WriteString(name)
	return w.Bytes()
}

// PlayMusic switches the map's background music (Sound.wz path).
func PlayMusic(music string) []byte {
	return mapEffect(mapEffectMusic, music)
}

// SendEvent plays a Map.wz/Effect.img event.
func SendEvent(id string) []byte {
	return mapEffect(mapEffectEvent, id)
}

// SendEffect plays a Map.wz/Obj/Effect.img/quest effect.
func SendEffect(effect string) []byte {
	return mapEffect(mapEffectQuest, effect)
}

// SendFieldSound plays a Sound.wz/Field.img sound.
func SendFieldSound(sound string) []byte {
	return mapEffect(mapEffectFieldSound, sound)
}

// SendMinigameSound plays a Sound.wz/MiniGame.img sound.
func SendMinigameSound(sound string) []byte {
	w := packet.NewWriter(packet.SMSG_SOUND)
	w.WriteString(sound)
	return w.Bytes()
}

func PlayPortalSound() []byte {
	w := packet.NewWriter(packet.SMSG_THEATRICS)
	w.WriteInt8(effectPortalSound)
	return w.Bytes()
}

// MobItemBuffEffect shows a mob-dropped buff item being used by playerID.
func MobItemBuffEffect(playerID, itemID int32) packet.SplitPacket {
	return packet.Split(func(w *packet.Writer) {
		w.WriteInt8(effectMobItemBuff)
		w.WriteInt32(itemID)
	},
		packet.Target{Header: packet.SMSG_THEATRICS},
		packet.Target{Header: packet.SMSG_SKILL_SHOW, Prefix: playerPrefix(playerID)},
	)
}
