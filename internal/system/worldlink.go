package system

import (
	"time"

	coresys "github.com/vanago/channel/internal/core/system"
	"github.com/vanago/channel/internal/net"
	"github.com/vanago/channel/internal/net/packet"
	"go.uber.org/zap"
)

// WorldLinkSystem dispatches messages from the world server connection.
// Input phase, registered after client input.
type WorldLinkSystem struct {
	sess       *net.Session
	registry   *packet.Registry
	maxPerTick int
	log        *zap.Logger
}

func NewWorldLinkSystem(sess *net.Session, registry *packet.Registry, maxPerTick int, log *zap.Logger) *WorldLinkSystem {
	return &WorldLinkSystem{
		sess:       sess,
		registry:   registry,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *WorldLinkSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Connected reports whether the world server link is still up.
func (s *WorldLinkSystem) Connected() bool {
	return s.sess != nil
}

func (s *WorldLinkSystem) Update(_ time.Duration) {
	if s.sess == nil {
		return
	}
	s.drain()
	if s.sess.IsClosed() && len(s.sess.InQueue) == 0 {
		s.log.Error("world link lost, keeping last world config", zap.String("addr", s.sess.IP))
		s.sess = nil
	}
}

func (s *WorldLinkSystem) drain() {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case data := <-s.sess.InQueue:
			if err := s.registry.Dispatch(s.sess, s.sess.State(), data); err != nil {
				s.log.Warn("world link message failed", zap.Error(err))
			}
		default:
			return
		}
	}
}
