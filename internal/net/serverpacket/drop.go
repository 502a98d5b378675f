package serverpacket

import "github.com/vanago/channel/internal/net/packet"

// Drop spawn modes.
const (
	DropAnimated int8 = 1 // falls from its source
	DropExisting int8 = 2 // already on the ground when the player arrived
)

// Drop ownership types.
const (
	DropOwnerPlayer int8 = 0
	DropFreeForAll  int8 = 2
)

// Drop pickup/removal modes.
const (
	DropRemoveExpire int8 = 0
	DropRemovePickup int8 = 2
)

// DropInfo is what the client needs to draw a drop.
type DropInfo struct {
	ObjectID   int32
	Mesos      bool
	ItemID     int32 // mesos amount when Mesos is set
	OwnerID    int32
	FreeForAll bool
	X, Y       int16
	SourceID   int32
	SourceX    int16
	SourceY    int16
}

func DropItem(mode int8, d DropInfo) []byte {
	w := packet.NewWriter(packet.SMSG_DROP_ITEM)
	w.WriteInt8(mode)
	w.WriteInt32(d.ObjectID)
	w.WriteBool(d.Mesos)
	w.WriteInt32(d.ItemID)
	w.WriteInt32(d.OwnerID)
	if d.FreeForAll {
		w.WriteInt8(DropFreeForAll)
	} else {
		w.WriteInt8(DropOwnerPlayer)
	}
	w.WriteInt16(d.X)
	w.WriteInt16(d.Y)
	w.WriteInt32(d.SourceID)
	if mode != DropExisting {
		w.WriteInt16(d.SourceX)
		w.WriteInt16(d.SourceY)
		w.WriteInt16(0)
	}
	if !d.Mesos {
		w.WriteHex("008005BB46E61702") // no expiration
	}
	w.WriteBool(false)
	return w.Bytes()
}

// DropPickedUp removes a drop from the map, animating it into playerID.
func DropPickedUp(dropID, playerID int32) []byte {
	w := packet.NewWriter(packet.SMSG_DROP_PICKUP)
	w.WriteInt8(DropRemovePickup)
	w.WriteInt32(dropID)
	w.WriteInt32(playerID)
	return w.Bytes()
}

// DropExpired fades a drop out.
func DropExpired(dropID int32) []byte {
	w := packet.NewWriter(packet.SMSG_DROP_PICKUP)
	w.WriteInt8(DropRemoveExpire)
	w.WriteInt32(dropID)
	return w.Bytes()
}
