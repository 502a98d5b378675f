package system

import (
	"context"
	"time"

	"github.com/vanago/channel/internal/anomaly"
	coresys "github.com/vanago/channel/internal/core/system"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
)

// CharacterSaver writes a player and everything it carries to storage.
type CharacterSaver interface {
	Save(ctx context.Context, p *world.Player) error
}

// AnomalyStore stores anomaly records in one batch.
type AnomalyStore interface {
	InsertBatch(ctx context.Context, records []anomaly.Record) error
}

// anomalyBatch bounds how many records one flush writes.
const anomalyBatch = 256

// PersistenceSystem periodically saves dirty players and flushes queued
// anomaly records. Persist phase.
type PersistenceSystem struct {
	world     *world.State
	saver     CharacterSaver
	anomalies *anomaly.Recorder
	store     AnomalyStore
	log       *zap.Logger
	timeout   time.Duration
	tickCount int
	interval  int // auto-save every N ticks
}

func NewPersistenceSystem(ws *world.State, saver CharacterSaver, anomalies *anomaly.Recorder, store AnomalyStore, log *zap.Logger, intervalTicks int, timeout time.Duration) *PersistenceSystem {
	return &PersistenceSystem{
		world:     ws,
		saver:     saver,
		anomalies: anomalies,
		store:     store,
		log:       log,
		interval:  intervalTicks,
		timeout:   timeout,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.flushAnomalies()

	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.savePlayers(true)
}

// SaveAllPlayers persists all online players immediately, ignoring dirty
// flags, and flushes pending anomalies. Called on graceful shutdown.
func (s *PersistenceSystem) SaveAllPlayers() {
	s.savePlayers(false)
	for s.anomalies.Pending() > 0 {
		if !s.flushAnomalies() {
			return
		}
	}
}

// savePlayers persists player data. If dirtyOnly is true, only players whose
// Dirty flag is set are saved, and the flag is cleared on success.
func (s *PersistenceSystem) savePlayers(dirtyOnly bool) {
	count := 0
	for _, p := range s.world.Players() {
		if dirtyOnly && !p.Dirty {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.saver.Save(ctx, p)
		cancel()
		if err != nil {
			s.log.Error("auto-save failed",
				zap.Int32("player_id", p.ID),
				zap.String("name", p.Name),
				zap.Error(err),
			)
			continue
		}
		p.Dirty = false
		count++
	}
	if count > 0 {
		s.log.Info("auto-save complete", zap.Int("players", count))
	}
}

// flushAnomalies writes one batch of queued records. A failed batch goes
// back to the queue for the next tick.
func (s *PersistenceSystem) flushAnomalies() bool {
	batch := s.anomalies.Drain(anomalyBatch)
	if len(batch) == 0 {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.store.InsertBatch(ctx, batch); err != nil {
		s.log.Error("store anomalies failed", zap.Int("count", len(batch)), zap.Error(err))
		s.anomalies.Requeue(batch)
		return false
	}
	return true
}
