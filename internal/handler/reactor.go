package handler

import (
	"github.com/vanago/channel/internal/net"
	"github.com/vanago/channel/internal/net/packet"
)

// HandleReactorHit processes CMSG_REACTOR_HIT.
//
//	int32 reactor object id
//	int32 player position (ignored; the server tracks it)
//	int16 stance
func HandleReactorHit(sess *net.Session, r *packet.Reader, deps *Deps) error {
	objectID := r.ReadInt32()
	r.Skip(4)
	stance := r.ReadInt16()
	if r.Err() != nil {
		return nil
	}
	p := playerFor(sess, deps)
	if p == nil {
		return nil
	}
	deps.Reactors.Hit(p, objectID, stance)
	return nil
}
