package system

import (
	"fmt"
	"time"
)

// Phase orders systems within one tick of the channel loop.
type Phase int

const (
	PhaseInput   Phase = iota // client and world link packets
	PhaseWorld                // map timers: drop expiry, reactor respawn
	PhaseOutput               // flush session buffers
	PhasePersist              // auto-save, anomaly batches
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseWorld:
		return "world"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// System is one unit of per-tick work. Update runs on the loop goroutine.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
