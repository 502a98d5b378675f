package handler

import (
	"github.com/vanago/channel/internal/net"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/world"
)

// HandleDropPickup processes CMSG_DROP_PICKUP.
//
//	int8  mode
//	int32 client tick
//	int16 x, int16 y
//	int32 drop object id
func HandleDropPickup(sess *net.Session, r *packet.Reader, deps *Deps) error {
	r.Skip(1 + 4)
	x := r.ReadInt16()
	y := r.ReadInt16()
	dropID := r.ReadInt32()
	if r.Err() != nil {
		return nil
	}
	p := playerFor(sess, deps)
	if p == nil {
		return nil
	}
	p.Pos = world.Pos{X: x, Y: y}
	deps.Loot.Pickup(p, dropID)
	return nil
}
