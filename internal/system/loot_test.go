package system

import (
	"bytes"
	"testing"

	"github.com/vanago/channel/internal/anomaly"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/net/serverpacket"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
)

func newLootSystem(f *fixture) *LootSystem {
	return NewLootSystem(f.world, f.items, f.quests, f.anomalies, zap.NewNop())
}

func TestPickupOwnDrop(t *testing.T) {
	f := newFixture(t)
	loot := newLootSystem(f)
	d := world.NewItemDrop(potionID, 3, world.Pos{}, f.player.ID, world.DropOwnershipTicks)
	f.m.AddDrop(d)
	f.conn.reset()

	loot.Pickup(f.player, d.ObjectID)
	if got := f.player.Inv.Count(potionID); got != 3 {
		t.Errorf("expected 3 potions, got %d", got)
	}
	if f.m.DropCount() != 0 {
		t.Error("expected drop removed")
	}
	if f.conn.count(packet.SMSG_DROP_PICKUP) != 1 {
		t.Error("expected pickup broadcast")
	}
	found := false
	for _, b := range f.conn.sent {
		if bytes.Equal(b, serverpacket.ItemPickedUp(potionID, 3)) {
			found = true
		}
	}
	if !found {
		t.Error("expected pickup notice")
	}
}

func TestPickupMesos(t *testing.T) {
	f := newFixture(t)
	loot := newLootSystem(f)
	d := world.NewMesosDrop(250, world.Pos{}, 0, 0)
	f.m.AddDrop(d)

	loot.Pickup(f.player, d.ObjectID)
	if f.player.Inv.Mesos() != 250 || f.m.DropCount() != 0 {
		t.Errorf("expected 250 mesos picked up, got %d with %d drops left", f.player.Inv.Mesos(), f.m.DropCount())
	}
}

func TestPickupOwnershipWindow(t *testing.T) {
	f := newFixture(t)
	loot := newLootSystem(f)
	other, _ := f.addPlayer(t, 8)
	d := world.NewItemDrop(potionID, 1, world.Pos{}, f.player.ID, world.DropOwnershipTicks)
	f.m.AddDrop(d)

	loot.Pickup(other, d.ObjectID)
	if f.m.DropCount() != 1 || other.Inv.Count(potionID) != 0 {
		t.Fatal("drop looted during the ownership window")
	}
	if kinds := f.drainKinds(); len(kinds) != 1 || kinds[0] != anomaly.DropNotOwned {
		t.Errorf("expected drop not owned anomaly, got %v", kinds)
	}

	ticks := NewMapTickSystem(f.world)
	for i := 0; i < world.DropOwnershipTicks; i++ {
		ticks.Update(0)
	}
	loot.Pickup(other, d.ObjectID)
	if other.Inv.Count(potionID) != 1 {
		t.Error("expected drop free for all after the ownership window")
	}
}

func TestPickupMissingDrop(t *testing.T) {
	f := newFixture(t)
	loot := newLootSystem(f)
	loot.Pickup(f.player, 123)
	if len(f.conn.sent) != 0 || f.anomalies.Pending() != 0 {
		t.Error("expected missing drop to be ignored")
	}
}

func TestDropExpires(t *testing.T) {
	f := newFixture(t)
	f.m.AddDrop(world.NewMesosDrop(10, world.Pos{}, 0, 0))
	ticks := NewMapTickSystem(f.world)
	for i := 0; i < world.DropExpireTicks; i++ {
		ticks.Update(0)
	}
	if f.m.DropCount() != 0 {
		t.Error("expected drop expired")
	}
}

func TestPickupConsumedItem(t *testing.T) {
	f := newFixture(t)
	loot := newLootSystem(f)
	_, otherConn := f.addPlayer(t, 8)
	d := world.NewItemDrop(waterID, 1, world.Pos{}, 0, 0)
	f.m.AddDrop(d)
	f.conn.reset()
	otherConn.reset()

	loot.Pickup(f.player, d.ObjectID)
	if f.player.Inv.Count(waterID) != 0 {
		t.Error("consumed item landed in the inventory")
	}
	if f.m.DropCount() != 0 {
		t.Error("expected drop removed")
	}
	buff := serverpacket.MobItemBuffEffect(f.player.ID, waterID)
	if f.conn.count(packet.SMSG_THEATRICS) != 1 || otherConn.count(packet.SMSG_SKILL_SHOW) != 1 {
		t.Fatal("expected buff effect for self and map")
	}
	for _, b := range otherConn.sent {
		if packet.Header(uint16(b[0])|uint16(b[1])<<8) == packet.SMSG_SKILL_SHOW && !bytes.Equal(b, buff.Others) {
			t.Errorf("expected %x, got %x", buff.Others, b)
		}
	}
}
