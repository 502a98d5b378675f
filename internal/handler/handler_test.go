package handler

import (
	"context"
	"errors"
	gonet "net"
	"testing"

	"github.com/vanago/channel/internal/anomaly"
	"github.com/vanago/channel/internal/config"
	"github.com/vanago/channel/internal/data"
	"github.com/vanago/channel/internal/net"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
)

const testMapID = 100000000

type fakeQuests struct {
	known map[uint16]bool
	reqs  []QuestRequest
}

func (q *fakeQuests) IsQuest(questID uint16) bool { return q.known[questID] }

func (q *fakeQuests) Apply(_ *world.Player, req QuestRequest) {
	q.reqs = append(q.reqs, req)
}

type hit struct {
	objectID int32
	stance   int16
}

type fakeReactors struct {
	hits []hit
}

func (r *fakeReactors) Hit(_ *world.Player, objectID int32, stance int16) {
	r.hits = append(r.hits, hit{objectID, stance})
}

type fakeLoot struct {
	drops []int32
}

func (l *fakeLoot) Pickup(_ *world.Player, dropID int32) {
	l.drops = append(l.drops, dropID)
}

type fakeLoader struct {
	players map[int32]*world.Player
}

var errNoCharacter = errors.New("no such character")

func (l *fakeLoader) Load(_ context.Context, charID int32) (*world.Player, error) {
	p, ok := l.players[charID]
	if !ok {
		return nil, errNoCharacter
	}
	return p, nil
}

type fixture struct {
	deps    *Deps
	reg     *packet.Registry
	quests  *fakeQuests
	reactor *fakeReactors
	loot    *fakeLoot
	loader  *fakeLoader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ws := world.NewState()
	ws.AddMap(world.NewMap(&data.MapInfo{MapID: testMapID, Music: "Bgm00/FloralLife"}))

	cfg := &config.Config{}
	cfg.World.ScrollingHeader = "Welcome to Vana"

	f := &fixture{
		quests:  &fakeQuests{known: map[uint16]bool{1000: true, 2013: true}},
		reactor: &fakeReactors{},
		loot:    &fakeLoot{},
		loader:  &fakeLoader{players: map[int32]*world.Player{}},
	}
	f.deps = &Deps{
		Config:     cfg,
		Log:        zap.NewNop(),
		World:      ws,
		Anomalies:  anomaly.NewRecorder(zap.NewNop(), 16),
		Characters: f.loader,
		Quests:     f.quests,
		Reactors:   f.reactor,
		Loot:       f.loot,
	}
	f.reg = packet.NewRegistry(zap.NewNop())
	RegisterAll(f.reg, f.deps)
	return f
}

func newSession(t *testing.T, id uint64) *net.Session {
	t.Helper()
	client, server := gonet.Pipe()
	t.Cleanup(func() { client.Close() })
	return net.NewSession(server, id, net.SessionOptions{InQueueSize: 4, OutQueueSize: 4}, zap.NewNop())
}

// inWorld returns a session bound to a player already on the test map.
func (f *fixture) inWorld(t *testing.T) (*net.Session, *world.Player) {
	t.Helper()
	sess := newSession(t, 1)
	p := world.NewPlayer(7, "Tester", sess)
	p.SessionID = sess.ID
	p.MapID = testMapID
	if err := f.deps.World.AddPlayer(p); err != nil {
		t.Fatal(err)
	}
	sess.SetState(packet.StateInWorld)
	return sess, p
}

func (f *fixture) dispatch(sess *net.Session, w *packet.Writer) error {
	return f.reg.Dispatch(sess, sess.State(), w.Bytes())
}

func TestQuestActionParsing(t *testing.T) {
	testCases := []struct {
		desc   string
		write  func(w *packet.Writer)
		expect *QuestRequest
	}{
		{
			desc: "Start quest",
			write: func(w *packet.Writer) {
				w.WriteInt8(int8(StartQuest))
				w.WriteUint16(2013)
				w.WriteInt32(2020005)
			},
			expect: &QuestRequest{Action: StartQuest, QuestID: 2013, NpcID: 2020005},
		},
		{
			desc: "Forfeit has no npc field",
			write: func(w *packet.Writer) {
				w.WriteInt8(int8(ForfeitQuest))
				w.WriteUint16(2013)
			},
			expect: &QuestRequest{Action: ForfeitQuest, QuestID: 2013},
		},
		{
			desc: "Restore carries an item",
			write: func(w *packet.Writer) {
				w.WriteInt8(int8(RestoreLostQuestItem))
				w.WriteUint16(2013)
				w.WriteInt32(-1)
				w.WriteInt32(4031013)
			},
			expect: &QuestRequest{Action: RestoreLostQuestItem, QuestID: 2013, NpcID: -1, ItemID: 4031013},
		},
		{
			desc: "Unknown quest is dropped",
			write: func(w *packet.Writer) {
				w.WriteInt8(int8(StartQuest))
				w.WriteUint16(4242)
				w.WriteInt32(2020005)
			},
		},
		{
			desc: "Missing npc field",
			write: func(w *packet.Writer) {
				w.WriteInt8(int8(FinishQuest))
				w.WriteUint16(2013)
			},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			f := newFixture(t)
			sess, _ := f.inWorld(t)
			w := packet.NewWriter(packet.CMSG_QUEST_ACTION)
			tC.write(w)
			f.dispatch(sess, w)

			if tC.expect == nil {
				if len(f.quests.reqs) != 0 {
					t.Errorf("expected no request, got %+v", f.quests.reqs)
				}
				return
			}
			if len(f.quests.reqs) != 1 || f.quests.reqs[0] != *tC.expect {
				t.Errorf("expected %+v, got %+v", *tC.expect, f.quests.reqs)
			}
		})
	}
}

func TestQuestActionTruncatedIsReported(t *testing.T) {
	f := newFixture(t)
	sess, _ := f.inWorld(t)
	w := packet.NewWriter(packet.CMSG_QUEST_ACTION)
	w.WriteInt8(int8(FinishQuest))
	w.WriteUint16(2013)
	w.WriteInt16(1) // half an npc id

	err := f.dispatch(sess, w)
	if !errors.Is(err, packet.ErrTruncatedPacket) {
		t.Fatalf("expected ErrTruncatedPacket, got %v", err)
	}
	if len(f.quests.reqs) != 0 {
		t.Error("truncated request reached the quest manager")
	}
}

func TestUnknownQuestActionRecordsAnomaly(t *testing.T) {
	f := newFixture(t)
	sess, _ := f.inWorld(t)
	w := packet.NewWriter(packet.CMSG_QUEST_ACTION)
	w.WriteInt8(9)
	w.WriteUint16(2013)
	w.WriteInt32(2020005)

	if err := f.dispatch(sess, w); err != nil {
		t.Fatal(err)
	}
	recs := f.deps.Anomalies.Drain(10)
	if len(recs) != 1 || recs[0].Kind != anomaly.UnknownQuestAction || recs[0].QuestID != 2013 {
		t.Errorf("unexpected records %+v", recs)
	}
	if len(f.quests.reqs) != 0 {
		t.Error("unknown action reached the quest manager")
	}
}

func TestQuestActionRequiresWorld(t *testing.T) {
	f := newFixture(t)
	sess := newSession(t, 3)
	w := packet.NewWriter(packet.CMSG_QUEST_ACTION)
	w.WriteInt8(int8(StartQuest))
	w.WriteUint16(2013)
	w.WriteInt32(2020005)

	if err := f.dispatch(sess, w); err == nil {
		t.Fatal("expected state rejection before player load")
	}
}

func TestReactorHit(t *testing.T) {
	f := newFixture(t)
	sess, _ := f.inWorld(t)
	w := packet.NewWriter(packet.CMSG_REACTOR_HIT)
	w.WriteInt32(1000123)
	w.WriteInt32(0x00F0_0010)
	w.WriteInt16(3)

	if err := f.dispatch(sess, w); err != nil {
		t.Fatal(err)
	}
	if len(f.reactor.hits) != 1 || f.reactor.hits[0] != (hit{1000123, 3}) {
		t.Errorf("unexpected hits %v", f.reactor.hits)
	}
}

func TestDropPickup(t *testing.T) {
	f := newFixture(t)
	sess, p := f.inWorld(t)
	w := packet.NewWriter(packet.CMSG_DROP_PICKUP)
	w.WriteInt8(0)
	w.WriteInt32(123456)
	w.WriteInt16(-40)
	w.WriteInt16(274)
	w.WriteInt32(1000200)

	if err := f.dispatch(sess, w); err != nil {
		t.Fatal(err)
	}
	if len(f.loot.drops) != 1 || f.loot.drops[0] != 1000200 {
		t.Errorf("unexpected pickups %v", f.loot.drops)
	}
	if p.Pos != (world.Pos{X: -40, Y: 274}) {
		t.Errorf("expected position updated, got %v", p.Pos)
	}
}

func TestPlayerLoad(t *testing.T) {
	f := newFixture(t)
	stored := world.NewPlayer(42, "Rin", nil)
	stored.MapID = testMapID
	f.loader.players[42] = stored

	sess := newSession(t, 5)
	w := packet.NewWriter(packet.CMSG_PLAYER_LOAD)
	w.WriteInt32(42)
	if err := f.dispatch(sess, w); err != nil {
		t.Fatal(err)
	}

	if sess.State() != packet.StateInWorld {
		t.Errorf("expected InWorld, got %s", sess.State())
	}
	p := f.deps.World.PlayerBySession(5)
	if p == nil || p.ID != 42 || p.Name != "Rin" {
		t.Fatalf("expected Rin bound to the session, got %+v", p)
	}
	// map music and the scrolling header
	if sess.Pending() != 2 {
		t.Errorf("expected 2 packets queued, got %d", sess.Pending())
	}
}

func TestPlayerLoadFailures(t *testing.T) {
	testCases := []struct {
		desc   string
		charID int32
		setup  func(f *fixture)
	}{
		{desc: "Unknown character", charID: 99},
		{
			desc:   "Missing map",
			charID: 42,
			setup: func(f *fixture) {
				p := world.NewPlayer(42, "Rin", nil)
				p.MapID = 999999999
				f.loader.players[42] = p
			},
		},
		{
			desc:   "Already in world",
			charID: 7,
			setup: func(f *fixture) {
				p := world.NewPlayer(7, "Tester", nil)
				p.SessionID = 77
				p.MapID = testMapID
				f.deps.World.AddPlayer(p)
			},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			f := newFixture(t)
			if tC.setup != nil {
				tC.setup(f)
			}
			sess := newSession(t, 5)
			w := packet.NewWriter(packet.CMSG_PLAYER_LOAD)
			w.WriteInt32(tC.charID)
			if err := f.dispatch(sess, w); err == nil {
				t.Fatal("expected load failure")
			}
			if !sess.IsClosed() {
				t.Error("expected session closed")
			}
			if f.deps.World.PlayerBySession(5) != nil {
				t.Error("player bound to a failed session")
			}
		})
	}
}

func TestWorldConfigSync(t *testing.T) {
	f := newFixture(t)
	sess, p := f.inWorld(t)
	reg := packet.NewRegistry(zap.NewNop())
	RegisterWorldLink(reg, f.deps)

	wc := config.DefaultWorldConfig()
	wc.Name = "Scania"
	wc.ScrollingHeader = "Double EXP this weekend"
	wc.Rates.MobExp = 2
	w := packet.NewWriter(packet.IMSG_WORLD_CONFIG)
	w.WriteObject(&wc)

	link := newSession(t, 0)
	if err := reg.Dispatch(link, link.State(), w.Bytes()); err != nil {
		t.Fatal(err)
	}
	if f.deps.Config.World.Rates.MobExp != 2 || f.deps.Config.World.Name != "Scania" {
		t.Errorf("world config not applied: %+v", f.deps.Config.World)
	}
	if sess.Pending() != 1 {
		t.Fatalf("expected header change pushed to %s, got %d packets", p.Name, sess.Pending())
	}

	// Same header again: nothing to push.
	if err := reg.Dispatch(link, link.State(), w.Bytes()); err != nil {
		t.Fatal(err)
	}
	if sess.Pending() != 1 {
		t.Errorf("expected no second push, got %d packets", sess.Pending())
	}
}

func TestWorldLinkHeadersUnreachableFromClients(t *testing.T) {
	f := newFixture(t)
	sess := newSession(t, 5)
	w := packet.NewWriter(packet.IMSG_WORLD_CONFIG)
	w.WriteObject(&f.deps.Config.World)
	if err := f.dispatch(sess, w); err != nil {
		t.Fatalf("expected unknown header to be dropped, got %v", err)
	}
}
