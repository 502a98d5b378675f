package world

import "math"

// InvItem is one stack in a player's inventory.
type InvItem struct {
	ItemID int32
	Count  int16
}

// Inventory holds a player's in-memory items and mesos.
// Accessed only from the game loop goroutine.
type Inventory struct {
	Items []*InvItem
	mesos int32
}

func NewInventory() *Inventory {
	return &Inventory{
		Items: make([]*InvItem, 0, 16),
	}
}

// Count returns the total amount of itemID held across all stacks.
func (inv *Inventory) Count(itemID int32) int {
	n := 0
	for _, it := range inv.Items {
		if it.ItemID == itemID {
			n += int(it.Count)
		}
	}
	return n
}

// Add stores amount units of itemID, topping up existing stacks before
// opening new ones. maxStack below 1 is treated as 1.
func (inv *Inventory) Add(itemID int32, amount int, maxStack int16) {
	if maxStack < 1 {
		maxStack = 1
	}
	for _, it := range inv.Items {
		if amount <= 0 {
			return
		}
		if it.ItemID != itemID || it.Count >= maxStack {
			continue
		}
		room := int(maxStack - it.Count)
		if room > amount {
			room = amount
		}
		it.Count += int16(room)
		amount -= room
	}
	for amount > 0 {
		n := int(maxStack)
		if n > amount {
			n = amount
		}
		inv.Items = append(inv.Items, &InvItem{ItemID: itemID, Count: int16(n)})
		amount -= n
	}
}

// Remove takes amount units of itemID, emptying the newest stacks first.
// It changes nothing and returns false if fewer than amount are held.
func (inv *Inventory) Remove(itemID int32, amount int) bool {
	if amount < 0 || inv.Count(itemID) < amount {
		return false
	}
	for i := len(inv.Items) - 1; i >= 0 && amount > 0; i-- {
		it := inv.Items[i]
		if it.ItemID != itemID {
			continue
		}
		if int(it.Count) > amount {
			it.Count -= int16(amount)
			return true
		}
		amount -= int(it.Count)
		inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
	}
	return true
}

func (inv *Inventory) Mesos() int32 {
	return inv.mesos
}

// SetMesos overwrites the balance; used when loading a character.
func (inv *Inventory) SetMesos(v int32) {
	inv.mesos = v
}

// ModifyMesos applies delta unless the balance would drop below zero or
// overflow int32, in which case nothing changes.
func (inv *Inventory) ModifyMesos(delta int32) bool {
	next := int64(inv.mesos) + int64(delta)
	if next < 0 || next > math.MaxInt32 {
		return false
	}
	inv.mesos = int32(next)
	return true
}
