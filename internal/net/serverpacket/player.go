package serverpacket

import "github.com/vanago/channel/internal/net/packet"

// Stat masks for SMSG_PLAYER_UPDATE.
const (
	StatFame  uint32 = 0x20000
	StatMesos uint32 = 0x40000
)

// Inventory operation modes.
const (
	InventoryAdd    int8 = 0
	InventoryUpdate int8 = 1
	InventoryRemove int8 = 3
)

// MesosUpdate sets the client's mesos total.
func MesosUpdate(total int32) []byte {
	w := packet.NewWriter(packet.SMSG_PLAYER_UPDATE)
	w.WriteBool(true)
	w.WriteUint32(StatMesos)
	w.WriteInt32(total)
	return w.Bytes()
}

// FameUpdate sets the client's fame total.
func FameUpdate(total int16) []byte {
	w := packet.NewWriter(packet.SMSG_PLAYER_UPDATE)
	w.WriteBool(true)
	w.WriteUint32(StatFame)
	w.WriteInt16(total)
	return w.Bytes()
}

// InventoryChange updates the client's count of itemID.
func InventoryChange(mode int8, itemID int32, count int16) []byte {
	w := packet.NewWriter(packet.SMSG_INVENTORY_OPERATION)
	w.WriteBool(true)
	w.WriteInt8(1)
	w.WriteInt8(mode)
	w.WriteInt32(itemID)
	if mode != InventoryRemove {
		w.WriteInt16(count)
	}
	return w.Bytes()
}
