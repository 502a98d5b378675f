package serverpacket

import "github.com/vanago/channel/internal/net/packet"

type MobInfo struct {
	ObjectID int32
	MobID    int32
	X, Y     int16
	Foothold int16
	LinkedTo int32 // object id of the parent mob, 0 if none
}

func MobShow(m MobInfo) []byte {
	w := packet.NewWriter(packet.SMSG_MOB_SHOW)
	w.WriteInt32(m.ObjectID)
	w.WriteInt8(1)
	w.WriteInt32(m.MobID)
	w.WriteInt16(m.X)
	w.WriteInt16(m.Y)
	w.WriteInt8(2) // stance
	w.WriteInt16(m.Foothold)
	w.WriteInt16(m.Foothold)
	if m.LinkedTo != 0 {
		w.WriteInt8(-3)
		w.WriteInt32(m.LinkedTo)
	} else {
		w.WriteInt8(-2)
	}
	w.WriteInt8(-1)
	w.WriteInt32(0)
	return w.Bytes()
}

func MobDestroy(objectID int32, animate bool) []byte {
	w := packet.NewWriter(packet.SMSG_MOB_DESTROY)
	w.WriteInt32(objectID)
	w.WriteBool(animate)
	return w.Bytes()
}
