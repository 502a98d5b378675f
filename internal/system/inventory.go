package system

import (
	"math"

	"github.com/vanago/channel/internal/data"
	"github.com/vanago/channel/internal/net/serverpacket"
	"github.com/vanago/channel/internal/world"
)

// changeItem adds or removes amount units of an item and sends the
// resulting slot change. Removing more than the player holds fails without
// change.
func changeItem(p *world.Player, info *data.ItemInfo, amount int16) bool {
	switch {
	case amount > 0:
		p.Inv.Add(info.ItemID, int(amount), info.MaxStack)
	case amount < 0:
		if !p.Inv.Remove(info.ItemID, -int(amount)) {
			return false
		}
	default:
		return true
	}
	p.Send(inventoryChange(p, info.ItemID))
	p.Dirty = true
	return true
}

func inventoryChange(p *world.Player, itemID int32) []byte {
	held := p.Inv.Count(itemID)
	if held == 0 {
		return serverpacket.InventoryChange(serverpacket.InventoryRemove, itemID, 0)
	}
	if held > math.MaxInt16 {
		held = math.MaxInt16
	}
	return serverpacket.InventoryChange(serverpacket.InventoryUpdate, itemID, int16(held))
}
