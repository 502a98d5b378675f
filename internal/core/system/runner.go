package system

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool

	budget  time.Duration // 0 disables overrun reporting
	overrun int
	log     *zap.Logger
	now     func() time.Time
}

// NewRunner creates a runner that warns when a tick takes longer than budget.
func NewRunner(budget time.Duration, log *zap.Logger) *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
		budget:  budget,
		log:     log,
		now:     time.Now,
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every system once.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	start := r.now()
	var (
		slowest     System
		slowestTook time.Duration
	)
	for _, s := range r.systems {
		began := r.now()
		s.Update(dt)
		if took := r.now().Sub(began); took > slowestTook {
			slowest, slowestTook = s, took
		}
	}

	total := r.now().Sub(start)
	if r.budget <= 0 || total <= r.budget {
		return
	}
	r.overrun++
	r.log.Warn("tick over budget",
		zap.Duration("took", total),
		zap.Duration("budget", r.budget),
		zap.String("slowest", fmt.Sprintf("%T", slowest)),
		zap.Stringer("slowest_phase", slowest.Phase()),
		zap.Duration("slowest_took", slowestTook),
		zap.Int("overruns", r.overrun),
	)
}

// Overruns returns how many ticks exceeded the budget.
func (r *Runner) Overruns() int {
	return r.overrun
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
