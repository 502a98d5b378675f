package anomaly

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecordLogsAndQueues(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewRecorder(zap.New(core), 4)
	at := time.Unix(1700000000, 0)
	r.now = func() time.Time { return at }

	rec := r.Record(Entry{
		Kind:       QuestNotActive,
		PlayerID:   7,
		PlayerName: "Kitty",
		QuestID:    1000,
		NpcID:      9010000,
		Message:    "quest action on a quest that is not active",
	})
	if rec.ID == uuid.Nil || !rec.At.Equal(at) {
		t.Errorf("expected id and timestamp, got %+v", rec)
	}

	entries := logs.FilterMessage("quest action on a quest that is not active").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["player_id"] != int32(7) || fields["quest_id"] != uint16(1000) || fields["player"] != "Kitty" {
		t.Errorf("missing identifiers in %v", fields)
	}
	if _, ok := fields["item_id"]; ok {
		t.Error("zero item id should be omitted")
	}

	got := r.Drain(10)
	if len(got) != 1 || got[0].ID != rec.ID {
		t.Errorf("expected queued record, got %+v", got)
	}
	if r.Pending() != 0 {
		t.Errorf("expected empty queue, %d pending", r.Pending())
	}
}

func TestRecordQueueFull(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := NewRecorder(zap.New(core), 2)
	for i := 0; i < 3; i++ {
		r.Record(Entry{Kind: InvalidNpc, PlayerID: int32(i)})
	}
	if r.Pending() != 2 || r.Dropped() != 1 {
		t.Errorf("expected 2 pending and 1 dropped, got %d / %d", r.Pending(), r.Dropped())
	}
	if logs.Len() != 1 {
		t.Errorf("expected one overflow error, got %d", logs.Len())
	}
}

func TestDrainAndRequeue(t *testing.T) {
	r := NewRecorder(zap.NewNop(), 8)
	for i := 0; i < 5; i++ {
		r.Record(Entry{Kind: InvalidNpc, PlayerID: int32(i)})
	}
	batch := r.Drain(3)
	if len(batch) != 3 || batch[0].PlayerID != 0 {
		t.Fatalf("expected first 3 records in order, got %+v", batch)
	}
	r.Requeue(batch)
	if r.Pending() != 5 {
		t.Errorf("expected 5 pending after requeue, got %d", r.Pending())
	}
}
