package handler

import (
	"context"

	"github.com/vanago/channel/internal/anomaly"
	"github.com/vanago/channel/internal/config"
	"github.com/vanago/channel/internal/net"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
)

// CharacterLoader reads a character and everything it carries from storage.
type CharacterLoader interface {
	Load(ctx context.Context, charID int32) (*world.Player, error)
}

// QuestManager applies validated quest actions.
type QuestManager interface {
	IsQuest(questID uint16) bool
	Apply(p *world.Player, req QuestRequest)
}

// ReactorManager runs the hit logic of reactors.
type ReactorManager interface {
	Hit(p *world.Player, objectID int32, stance int16)
}

// LootManager handles drop pickup.
type LootManager interface {
	Pickup(p *world.Player, dropID int32)
}

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	Config     *config.Config
	Log        *zap.Logger
	World      *world.State
	Anomalies  *anomaly.Recorder
	Characters CharacterLoader
	Quests     QuestManager
	Reactors   ReactorManager
	Loot       LootManager
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.Register(packet.CMSG_PLAYER_LOAD,
		[]packet.SessionState{packet.StateConnected},
		func(sess any, r *packet.Reader) error {
			return HandlePlayerLoad(sess.(*net.Session), r, deps)
		},
	)

	inWorldStates := []packet.SessionState{packet.StateInWorld}

	reg.Register(packet.CMSG_QUEST_ACTION, inWorldStates,
		func(sess any, r *packet.Reader) error {
			return HandleQuestAction(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.CMSG_REACTOR_HIT, inWorldStates,
		func(sess any, r *packet.Reader) error {
			return HandleReactorHit(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.CMSG_DROP_PICKUP, inWorldStates,
		func(sess any, r *packet.Reader) error {
			return HandleDropPickup(sess.(*net.Session), r, deps)
		},
	)

	reg.Register(packet.CMSG_PONG,
		[]packet.SessionState{packet.StateConnected, packet.StateInWorld},
		func(sess any, r *packet.Reader) error {
			// Keep-alive: no-op, just prevents idle timeout
			return nil
		},
	)
}

// playerFor returns the in-world player bound to sess, or nil.
func playerFor(sess *net.Session, deps *Deps) *world.Player {
	return deps.World.PlayerBySession(sess.ID)
}
