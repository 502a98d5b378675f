package system

import (
	"github.com/vanago/channel/internal/anomaly"
	"github.com/vanago/channel/internal/net/serverpacket"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
)

// LootSystem moves drops from the ground into inventories.
// Implements handler.LootManager.
type LootSystem struct {
	world     *world.State
	items     ItemProvider
	quests    *QuestSystem
	anomalies *anomaly.Recorder
	log       *zap.Logger
}

func NewLootSystem(ws *world.State, items ItemProvider, quests *QuestSystem, anomalies *anomaly.Recorder, log *zap.Logger) *LootSystem {
	return &LootSystem{
		world:     ws,
		items:     items,
		quests:    quests,
		anomalies: anomalies,
		log:       log,
	}
}

// Pickup loots dropID for p. Drops already gone are ignored; clients race
// each other for them.
func (s *LootSystem) Pickup(p *world.Player, dropID int32) {
	m, err := s.world.Map(p.MapID)
	if err != nil {
		return
	}
	d := m.Drop(dropID)
	if d == nil {
		return
	}
	if !d.CanLoot(p.ID) {
		s.anomalies.Record(anomaly.Entry{
			Kind:       anomaly.DropNotOwned,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			ItemID:     d.ItemID,
			Message:    "tried to loot a drop owned by another player",
		})
		return
	}

	if d.IsMesos() {
		if !s.quests.GiveMesos(p, d.Mesos) {
			return
		}
	} else {
		info := s.items.Get(d.ItemID)
		if info == nil {
			s.log.Warn("drop of unknown item", zap.Int32("item_id", d.ItemID))
			return
		}
		if info.ConsumeOnPickup {
			m.SendSplit(p, serverpacket.MobItemBuffEffect(p.ID, d.ItemID))
		} else {
			if !changeItem(p, info, d.Amount) {
				return
			}
			p.Send(serverpacket.ItemPickedUp(d.ItemID, d.Amount))
		}
	}
	m.PickupDrop(dropID, p.ID)
}
