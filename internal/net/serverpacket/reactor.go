package serverpacket

import "github.com/vanago/channel/internal/net/packet"

// ReactorInfo is what the client needs to draw a reactor.
type ReactorInfo struct {
	ObjectID   int32
	TemplateID int32
	State      int8
	X, Y       int16
	FacesLeft  bool
}

// ReactorSpawn shows a reactor to players entering its map or on revive.
func ReactorSpawn(r ReactorInfo) []byte {
	w := packet.NewWriter(packet.SMSG_REACTOR_SPAWN)
	w.WriteInt32(r.ObjectID)
	w.WriteInt32(r.TemplateID)
	w.WriteInt8(r.State)
	w.WriteInt16(r.X)
	w.WriteInt16(r.Y)
	w.WriteBool(r.FacesLeft)
	return w.Bytes()
}

// ReactorTrigger animates a reactor into its current state.
func ReactorTrigger(r ReactorInfo) []byte {
	w := packet.NewWriter(packet.SMSG_REACTOR_TRIGGER)
	w.WriteInt32(r.ObjectID)
	w.WriteInt8(r.State)
	w.WriteInt16(r.X)
	w.WriteInt16(r.Y)
	w.WriteInt16(0) // stance
	w.WriteInt8(0)
	w.WriteInt8(4) // frame delay
	return w.Bytes()
}

// ReactorDestroy removes a dead reactor from the map.
func ReactorDestroy(r ReactorInfo) []byte {
	w := packet.NewWriter(packet.SMSG_REACTOR_DESTROY)
	w.WriteInt32(r.ObjectID)
	w.WriteInt8(r.State)
	w.WriteInt16(r.X)
	w.WriteInt16(r.Y)
	return w.Bytes()
}
