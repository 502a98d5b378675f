// Package anomaly records client actions that break a state precondition.
// Records are for operator review: they are logged, queued for storage and
// never reported to the client.
package anomaly

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind classifies an anomaly.
type Kind string

const (
	UnknownQuestAction  Kind = "unknown_quest_action"
	QuestNotActive      Kind = "quest_not_active"
	QuestAlreadyStarted Kind = "quest_already_started"
	InvalidNpc          Kind = "invalid_npc"
	NotQuestItem        Kind = "not_quest_item"
	DropNotOwned        Kind = "drop_not_owned"
	UnknownReactor      Kind = "unknown_reactor"
	ReactorScript       Kind = "reactor_script"
)

// Entry is what the caller knows about the offending action.
// Zero ids are omitted from the log.
type Entry struct {
	Kind       Kind
	PlayerID   int32
	PlayerName string
	QuestID    uint16
	NpcID      int32
	ItemID     int32
	Message    string
}

// Record is a stored anomaly.
type Record struct {
	ID uuid.UUID
	At time.Time
	Entry
}

// Recorder logs anomalies and queues them for the persistence system.
type Recorder struct {
	log     *zap.Logger
	queue   chan Record
	dropped int
	now     func() time.Time
}

// NewRecorder creates a recorder holding at most queueSize unsaved records.
func NewRecorder(log *zap.Logger, queueSize int) *Recorder {
	return &Recorder{
		log:   log,
		queue: make(chan Record, queueSize),
		now:   time.Now,
	}
}

// Record logs e at warn level and queues it. When the queue is full the
// record is only logged and counted as dropped.
func (r *Recorder) Record(e Entry) Record {
	rec := Record{ID: uuid.New(), At: r.now(), Entry: e}

	fields := []zap.Field{
		zap.String("id", rec.ID.String()),
		zap.String("kind", string(e.Kind)),
		zap.Int32("player_id", e.PlayerID),
		zap.String("player", e.PlayerName),
	}
	if e.QuestID != 0 {
		fields = append(fields, zap.Uint16("quest_id", e.QuestID))
	}
	if e.NpcID != 0 {
		fields = append(fields, zap.Int32("npc_id", e.NpcID))
	}
	if e.ItemID != 0 {
		fields = append(fields, zap.Int32("item_id", e.ItemID))
	}
	r.log.Warn(e.Message, fields...)

	select {
	case r.queue <- rec:
	default:
		r.dropped++
		r.log.Error("anomaly queue full, record not persisted",
			zap.String("id", rec.ID.String()),
			zap.Int("dropped", r.dropped),
		)
	}
	return rec
}

// Drain removes and returns up to max queued records.
func (r *Recorder) Drain(max int) []Record {
	var out []Record
	for len(out) < max {
		select {
		case rec := <-r.queue:
			out = append(out, rec)
		default:
			return out
		}
	}
	return out
}

// Requeue puts back records that failed to save. Records that no longer
// fit are counted as dropped.
func (r *Recorder) Requeue(recs []Record) {
	for _, rec := range recs {
		select {
		case r.queue <- rec:
		default:
			r.dropped++
		}
	}
}

// Pending returns the number of queued records.
func (r *Recorder) Pending() int {
	return len(r.queue)
}

// Dropped returns how many records were never queued.
func (r *Recorder) Dropped() int {
	return r.dropped
}
