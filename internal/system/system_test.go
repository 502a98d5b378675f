package system

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/vanago/channel/internal/anomaly"
	"github.com/vanago/channel/internal/data"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testMapID   = 100000000
	testBoxID   = 1002000
	marbleID    = 4031013
	potionID    = 2000000
	shellID     = 4000000
	waterID     = 2022000
	helperNpcID = 2020005
)

var fixedTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type fakeConn struct {
	sent [][]byte
}

func (c *fakeConn) Send(data []byte) {
	c.sent = append(c.sent, data)
}

func (c *fakeConn) count(h packet.Header) int {
	n := 0
	for _, b := range c.sent {
		if packet.Header(binary.LittleEndian.Uint16(b)) == h {
			n++
		}
	}
	return n
}

func (c *fakeConn) reset() {
	c.sent = nil
}

type fixture struct {
	world     *world.State
	m         *world.Map
	items     *data.ItemTable
	anomalies *anomaly.Recorder
	logs      *observer.ObservedLogs
	quests    *QuestSystem
	player    *world.Player
	conn      *fakeConn
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ws := world.NewState()
	ws.LoadMaps(data.NewMapTable([]data.MapInfo{{
		MapID: testMapID,
		Reactors: []data.ReactorSpawn{
			{ReactorID: testBoxID, X: 120, Y: 274, RespawnTicks: 3},
		},
	}}))
	m, err := ws.Map(testMapID)
	if err != nil {
		t.Fatal(err)
	}

	items := data.NewItemTable([]data.ItemInfo{
		{ItemID: potionID, Name: "Red Potion", MaxStack: 100},
		{ItemID: marbleID, Name: "Dark Marble", Quest: true, MaxStack: 100},
		{ItemID: shellID, Name: "Snail Shell", MaxStack: 100},
		{ItemID: waterID, Name: "Pure Water", ConsumeOnPickup: true, MaxStack: 100},
	})
	npcs := data.NewNpcTable([]data.NpcInfo{{NpcID: helperNpcID, Name: "Grendel the Really Old"}, {NpcID: 2100}})
	quests := data.NewQuestTable([]data.QuestInfo{
		{QuestID: 1000, Mesos: 100},
		{QuestID: 2013, Items: []data.ItemReward{{ItemID: marbleID, Count: -30}, {ItemID: potionID, Count: 20}}, Mesos: 1500, Fame: 1},
		{QuestID: 2014, Items: []data.ItemReward{{ItemID: shellID, Count: -3}, {ItemID: shellID, Count: -3}}, Mesos: 500},
	})

	core, logs := observer.New(zapcore.WarnLevel)
	anomalies := anomaly.NewRecorder(zap.New(core), 64)
	qs := NewQuestSystem(ws, items, npcs, quests, anomalies, zap.NewNop())
	qs.now = func() time.Time { return fixedTime }

	conn := &fakeConn{}
	p := world.NewPlayer(7, "Tester", conn)
	p.SessionID = 1
	p.MapID = testMapID
	if err := ws.AddPlayer(p); err != nil {
		t.Fatal(err)
	}

	return &fixture{
		world:     ws,
		m:         m,
		items:     items,
		anomalies: anomalies,
		logs:      logs,
		quests:    qs,
		player:    p,
		conn:      conn,
	}
}

// addPlayer puts a second player on the test map.
func (f *fixture) addPlayer(t *testing.T, id int32) (*world.Player, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	p := world.NewPlayer(id, "Other", conn)
	p.SessionID = uint64(id)
	p.MapID = testMapID
	if err := f.world.AddPlayer(p); err != nil {
		t.Fatal(err)
	}
	return p, conn
}

func (f *fixture) drainKinds() []anomaly.Kind {
	var kinds []anomaly.Kind
	for _, rec := range f.anomalies.Drain(100) {
		kinds = append(kinds, rec.Kind)
	}
	return kinds
}
