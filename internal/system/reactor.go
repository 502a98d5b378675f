package system

import (
	"errors"

	"github.com/vanago/channel/internal/anomaly"
	"github.com/vanago/channel/internal/data"
	"github.com/vanago/channel/internal/scripting"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
)

type ReactorTemplates interface {
	Get(reactorID int32) *data.ReactorTemplate
}

// ReactorScripts runs a reactor's script once it reaches its last state.
type ReactorScripts interface {
	RunReactor(name string, ctx scripting.ReactorContext) error
}

// ReactorSystem drives reactors through their template states.
// Implements handler.ReactorManager.
type ReactorSystem struct {
	world     *world.State
	templates ReactorTemplates
	scripts   ReactorScripts
	anomalies *anomaly.Recorder
	log       *zap.Logger
}

func NewReactorSystem(ws *world.State, templates ReactorTemplates, anomalies *anomaly.Recorder, log *zap.Logger) *ReactorSystem {
	return &ReactorSystem{
		world:     ws,
		templates: templates,
		anomalies: anomalies,
		log:       log,
	}
}

func (s *ReactorSystem) SetScripts(sc ReactorScripts) {
	s.scripts = sc
}

// Hit handles a player hitting a reactor on its current map.
func (s *ReactorSystem) Hit(p *world.Player, objectID int32, stance int16) {
	s.log.Debug("reactor hit",
		zap.Int32("player_id", p.ID),
		zap.Int32("reactor", objectID),
		zap.Int16("stance", stance),
	)
	s.Trigger(p, world.ReactorHandle{MapID: p.MapID, ReactorID: objectID}, data.ReactorEventHit)
}

// Trigger advances the reactor named by h on event. On reaching a terminal
// state its script runs; afterwards the reactor dies unless the script moved
// it elsewhere. p may be nil.
func (s *ReactorSystem) Trigger(p *world.Player, h world.ReactorHandle, event string) {
	r, err := s.world.ResolveReactor(h)
	if err != nil {
		if p != nil {
			s.anomalies.Record(anomaly.Entry{
				Kind:       anomaly.UnknownReactor,
				PlayerID:   p.ID,
				PlayerName: p.Name,
				Message:    "tried to trigger a reactor that isn't on the player's map",
			})
		}
		return
	}
	if !r.IsAlive() {
		return
	}
	tmpl := s.templates.Get(r.TemplateID)
	if tmpl == nil {
		s.log.Warn("reactor has no template",
			zap.Int32("map_id", h.MapID),
			zap.Int32("template", r.TemplateID),
		)
		return
	}

	next, ok := tmpl.Transition(r.State(), event)
	if !ok {
		return
	}
	r.SetState(next, true)
	if !tmpl.IsTerminal(next) {
		return
	}

	if tmpl.Script != "" && s.scripts != nil {
		err := s.scripts.RunReactor(tmpl.Script, scripting.ReactorContext{Player: p, Handle: h})
		if errors.Is(err, scripting.ErrScriptContract) && p != nil {
			s.anomalies.Record(anomaly.Entry{
				Kind:       anomaly.ReactorScript,
				PlayerID:   p.ID,
				PlayerName: p.Name,
				Message:    err.Error(),
			})
		}
	}

	r, err = s.world.ResolveReactor(h)
	if err != nil || !r.IsAlive() || r.State() != next {
		return
	}
	r.Kill()
}
