package system

import (
	"context"
	"time"

	coresys "github.com/vanago/channel/internal/core/system"
	"github.com/vanago/channel/internal/net"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
)

// SessionSource delivers sessions accepted and lost by the network layer.
// net.Server implements it.
type SessionSource interface {
	NewSessions() <-chan *net.Session
	DeadSessions() <-chan uint64
	NotifyDead(sessionID uint64)
}

// InputSystem drains packet queues from all sessions and dispatches them
// through the packet registry. Input phase.
type InputSystem struct {
	source     SessionSource
	registry   *packet.Registry
	store      *net.SessionStore
	maxPerTick int
	world      *world.State
	saver      CharacterSaver
	timeout    time.Duration
	log        *zap.Logger
}

func NewInputSystem(
	source SessionSource,
	registry *packet.Registry,
	store *net.SessionStore,
	maxPerTick int,
	ws *world.State,
	saver CharacterSaver,
	saveTimeout time.Duration,
	log *zap.Logger,
) *InputSystem {
	return &InputSystem{
		source:     source,
		registry:   registry,
		store:      store,
		maxPerTick: maxPerTick,
		world:      ws,
		saver:      saver,
		timeout:    saveTimeout,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	s.acceptSessions()

	for id, sess := range s.store.Raw() {
		if sess.IsClosed() {
			// Packets sent right before the disconnect still count.
			s.drain(sess)
			s.handleDisconnect(sess)
			s.source.NotifyDead(id)
			s.store.Remove(id)
			continue
		}
		s.drain(sess)
	}

	// Early flush so packets produced by input reach the writers while the
	// remaining phases run. OutputSystem flushes the rest.
	s.store.ForEach(func(sess *net.Session) {
		sess.FlushOutput()
	})
}

func (s *InputSystem) acceptSessions() {
	for {
		select {
		case sess := <-s.source.NewSessions():
			s.store.Add(sess)
		case id := <-s.source.DeadSessions():
			if sess := s.store.Get(id); sess != nil {
				s.handleDisconnect(sess)
			}
			s.store.Remove(id)
		default:
			return
		}
	}
}

// drain dispatches up to maxPerTick queued packets of one session.
func (s *InputSystem) drain(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case data := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
				s.log.Debug("packet dispatch failed",
					zap.Uint64("session", sess.ID),
					zap.Error(err),
				)
			}
		default:
			return
		}
	}
}

// handleDisconnect takes the session's player out of the world and saves it.
func (s *InputSystem) handleDisconnect(sess *net.Session) {
	sess.Close()
	p := s.world.PlayerBySession(sess.ID)
	if p == nil {
		return
	}
	s.world.RemovePlayer(p.ID)
	p.Conn = nil

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.saver.Save(ctx, p); err != nil {
		s.log.Error("save on disconnect failed",
			zap.Int32("player_id", p.ID),
			zap.String("name", p.Name),
			zap.Error(err),
		)
		return
	}
	p.Dirty = false
	s.log.Info("player left world",
		zap.Int32("player_id", p.ID),
		zap.String("name", p.Name),
		zap.NamedError("reason", sess.Reason()),
	)
}

// SessionCount returns the current number of active sessions.
func (s *InputSystem) SessionCount() int {
	return s.store.Count()
}
