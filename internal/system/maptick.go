package system

import (
	"time"

	coresys "github.com/vanago/channel/internal/core/system"
	"github.com/vanago/channel/internal/world"
)

// MapTickSystem runs every map's timers: drop ownership and expiry, reactor
// respawn. World phase.
type MapTickSystem struct {
	world *world.State
}

func NewMapTickSystem(ws *world.State) *MapTickSystem {
	return &MapTickSystem{world: ws}
}

func (s *MapTickSystem) Phase() coresys.Phase { return coresys.PhaseWorld }

func (s *MapTickSystem) Update(_ time.Duration) {
	for _, m := range s.world.Maps() {
		m.Tick()
	}
}
