package world

import (
	"github.com/vanago/channel/internal/data"
	"github.com/vanago/channel/internal/net/serverpacket"
)

const (
	// DropOwnershipTicks is how long only the owner may loot a drop.
	DropOwnershipTicks = 100
	// DropExpireTicks is how long a drop stays on the ground.
	DropExpireTicks = 1800
)

// Drop is an item stack or a mesos pile lying on a map.
// Not persisted; exists only in memory.
type Drop struct {
	ObjectID  int32
	ItemID    int32 // 0 for mesos
	Amount    int16
	Mesos     int32
	OwnerID   int32 // 0 = anyone
	Pos       Pos
	SourceID  int32 // object id of whatever dropped it
	SourcePos Pos

	ownerTicks  int
	expireTicks int
}

// NewItemDrop creates an item drop. Equipment always drops as a single
// unit. ownerTicks of 0 makes the drop free for all immediately.
func NewItemDrop(itemID int32, amount int16, pos Pos, ownerID int32, ownerTicks int) *Drop {
	if data.IsEquip(itemID) || amount < 1 {
		amount = 1
	}
	return newDrop(&Drop{ItemID: itemID, Amount: amount, Pos: pos}, ownerID, ownerTicks)
}

func NewMesosDrop(amount int32, pos Pos, ownerID int32, ownerTicks int) *Drop {
	return newDrop(&Drop{Mesos: amount, Pos: pos}, ownerID, ownerTicks)
}

func newDrop(d *Drop, ownerID int32, ownerTicks int) *Drop {
	if ownerID == 0 || ownerTicks < 0 {
		ownerTicks = 0
	}
	d.OwnerID = ownerID
	d.ownerTicks = ownerTicks
	d.expireTicks = DropExpireTicks
	d.SourcePos = d.Pos
	return d
}

func (d *Drop) IsMesos() bool {
	return d.ItemID == 0
}

// FreeForAll reports whether anyone may loot the drop now.
func (d *Drop) FreeForAll() bool {
	return d.OwnerID == 0 || d.ownerTicks <= 0
}

// OwnershipTicks returns the ticks left before the drop becomes free for all.
func (d *Drop) OwnershipTicks() int {
	return d.ownerTicks
}

func (d *Drop) CanLoot(playerID int32) bool {
	return d.FreeForAll() || d.OwnerID == playerID
}

// tick ages the drop and reports whether it has expired.
func (d *Drop) tick() bool {
	if d.ownerTicks > 0 {
		d.ownerTicks--
	}
	d.expireTicks--
	return d.expireTicks <= 0
}

func (d *Drop) info() serverpacket.DropInfo {
	id := d.ItemID
	if d.IsMesos() {
		id = d.Mesos
	}
	return serverpacket.DropInfo{
		ObjectID:   d.ObjectID,
		Mesos:      d.IsMesos(),
		ItemID:     id,
		OwnerID:    d.OwnerID,
		FreeForAll: d.FreeForAll(),
		X:          d.Pos.X,
		Y:          d.Pos.Y,
		SourceID:   d.SourceID,
		SourceX:    d.SourcePos.X,
		SourceY:    d.SourcePos.Y,
	}
}
