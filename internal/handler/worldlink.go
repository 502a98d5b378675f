package handler

import (
	"github.com/vanago/channel/internal/config"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/net/serverpacket"
	"go.uber.org/zap"
)

// RegisterWorldLink registers the handlers for messages the world server
// sends this channel. They live in their own registry so a game client can
// never reach them.
func RegisterWorldLink(reg *packet.Registry, deps *Deps) {
	reg.Register(packet.IMSG_WORLD_CONFIG,
		[]packet.SessionState{packet.StateConnected},
		func(_ any, r *packet.Reader) error {
			HandleWorldConfig(r, deps)
			return nil
		},
	)
}

// HandleWorldConfig processes IMSG_WORLD_CONFIG: the world server's full
// WorldConfig. A changed scrolling header is pushed to every player.
func HandleWorldConfig(r *packet.Reader, deps *Deps) {
	var wc config.WorldConfig
	r.ReadObject(&wc)
	if r.Err() != nil {
		return
	}

	prev := deps.Config.World.ScrollingHeader
	deps.Config.World = wc
	if wc.ScrollingHeader != prev {
		pkt := serverpacket.ChangeScrollingHeader(wc.ScrollingHeader)
		for _, p := range deps.World.Players() {
			p.Send(pkt)
		}
	}
	deps.Log.Info("world config updated",
		zap.String("world", wc.Name),
		zap.Int32("max_channels", wc.MaxChannels),
		zap.Bool("header_changed", wc.ScrollingHeader != prev),
	)
}
