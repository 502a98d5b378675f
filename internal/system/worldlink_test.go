package system

import (
	"testing"

	"github.com/vanago/channel/internal/net/packet"
	"go.uber.org/zap"
)

func TestWorldLinkDispatches(t *testing.T) {
	reg := packet.NewRegistry(zap.NewNop())
	calls := 0
	reg.Register(packet.IMSG_WORLD_CONFIG, []packet.SessionState{packet.StateConnected}, func(any, *packet.Reader) error {
		calls++
		return nil
	})
	sess := newTestSession(t, 0)
	sys := NewWorldLinkSystem(sess, reg, 1, zap.NewNop())

	sess.InQueue <- frame(packet.IMSG_WORLD_CONFIG)
	sess.InQueue <- frame(packet.IMSG_WORLD_CONFIG)
	sys.Update(0)
	if calls != 1 {
		t.Errorf("expected 1 message per tick, got %d", calls)
	}

	sys.Update(0)
	if calls != 2 {
		t.Errorf("expected remaining message next tick, got %d", calls)
	}
	if !sys.Connected() {
		t.Fatal("expected link up")
	}

	sess.Close()
	sys.Update(0)
	if sys.Connected() {
		t.Error("expected link dropped after close")
	}
	sys.Update(0)
}
