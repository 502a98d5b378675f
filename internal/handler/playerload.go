package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/vanago/channel/internal/net"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/net/serverpacket"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
)

const loadTimeout = 5 * time.Second

// HandlePlayerLoad processes CMSG_PLAYER_LOAD (int32 character id): the
// client arriving on this channel after the login or world server
// transferred it.
func HandlePlayerLoad(sess *net.Session, r *packet.Reader, deps *Deps) error {
	charID := r.ReadInt32()
	if r.Err() != nil {
		return nil
	}
	if _, err := deps.World.Player(charID); err == nil {
		sess.Close()
		return fmt.Errorf("character %d is already in world", charID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	p, err := deps.Characters.Load(ctx, charID)
	if err != nil {
		sess.Close()
		return fmt.Errorf("load character %d: %w", charID, err)
	}
	p.SessionID = sess.ID
	p.Conn = sess

	if err := enterWorld(p, deps); err != nil {
		sess.Close()
		return err
	}
	sess.SetState(packet.StateInWorld)
	return nil
}

// enterWorld places a loaded player on its map and shows it the map's
// contents.
func enterWorld(p *world.Player, deps *Deps) error {
	m, err := deps.World.Map(p.MapID)
	if err != nil {
		return fmt.Errorf("place character %d: %w", p.ID, err)
	}
	if err := deps.World.AddPlayer(p); err != nil {
		return err
	}
	m.SendMapState(p)
	if msg := deps.Config.World.ScrollingHeader; msg != "" {
		p.Send(serverpacket.ShowScrollingHeader(msg))
	}
	deps.Log.Info("player entered world",
		zap.Int32("player_id", p.ID),
		zap.String("name", p.Name),
		zap.Int32("map_id", p.MapID),
	)
	return nil
}
