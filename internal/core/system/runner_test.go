package system

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordSystem struct {
	phase Phase
	name  string
	log   *[]string
}

func (s recordSystem) Phase() Phase { return s.phase }

func (s recordSystem) Update(time.Duration) {
	*s.log = append(*s.log, s.name)
}

// slowSystem advances the runner's fake clock instead of sleeping.
type slowSystem struct {
	clock *time.Time
	took  time.Duration
}

func (s slowSystem) Phase() Phase { return PhaseWorld }

func (s slowSystem) Update(time.Duration) {
	*s.clock = s.clock.Add(s.took)
}

func TestRunnerPhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner(0, zap.NewNop())
	r.Register(recordSystem{PhasePersist, "persist", &log})
	r.Register(recordSystem{PhaseOutput, "output", &log})
	r.Register(recordSystem{PhaseInput, "input", &log})
	r.Register(recordSystem{PhaseWorld, "maps", &log})
	r.Register(recordSystem{PhaseInput, "world_link", &log})

	r.Tick(time.Millisecond)
	want := []string{"input", "world_link", "maps", "output", "persist"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], log[i])
		}
	}
}

func TestRunnerOverBudget(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewRunner(100*time.Millisecond, zap.New(core))
	clock := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	var order []string
	r.Register(recordSystem{PhaseInput, "input", &order})
	r.Register(slowSystem{clock: &clock, took: 150 * time.Millisecond})

	r.Tick(100 * time.Millisecond)
	if r.Overruns() != 1 {
		t.Fatalf("expected 1 overrun, got %d", r.Overruns())
	}
	entries := logs.FilterMessage("tick over budget").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["slowest"] != "system.slowSystem" || fields["slowest_phase"] != "world" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestRunnerWithinBudget(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewRunner(100*time.Millisecond, zap.New(core))
	clock := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }
	r.Register(slowSystem{clock: &clock, took: 40 * time.Millisecond})

	r.Tick(100 * time.Millisecond)
	if r.Overruns() != 0 || logs.Len() != 0 {
		t.Errorf("expected no overrun, got %d", r.Overruns())
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseOutput.String() != "output" || Phase(9).String() != "phase(9)" {
		t.Errorf("unexpected names %s %s", PhaseOutput, Phase(9))
	}
}
