package packet

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func frame(h Header, body ...byte) []byte {
	w := NewWriter(h)
	w.WriteBytes(body)
	return w.Bytes()
}

func TestDispatchCallsHandler(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	var got int32
	reg.Register(CMSG_PLAYER_LOAD, []SessionState{StateConnected}, func(_ any, r *Reader) error {
		got = r.ReadInt32()
		return nil
	})
	if err := reg.Dispatch(nil, StateConnected, frame(CMSG_PLAYER_LOAD, 0x2a, 0, 0, 0)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestDispatchUnknownHeaderIsDropped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := NewRegistry(zap.New(core))
	if err := reg.Dispatch(nil, StateInWorld, frame(0x7777, 1, 2, 3)); err != nil {
		t.Fatalf("unknown header must not fail the connection, got %v", err)
	}
	if logs.FilterMessage("protocol anomaly").Len() != 1 {
		t.Errorf("expected one protocol anomaly log, got %d", logs.Len())
	}
}

func TestDispatchRejectsState(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	called := false
	reg.Register(CMSG_QUEST_ACTION, []SessionState{StateInWorld}, func(any, *Reader) error {
		called = true
		return nil
	})
	if err := reg.Dispatch(nil, StateConnected, frame(CMSG_QUEST_ACTION)); err == nil {
		t.Error("expected state error")
	}
	if called {
		t.Error("handler must not run in a disallowed state")
	}
}

func TestDispatchTruncated(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Register(CMSG_QUEST_ACTION, []SessionState{StateInWorld}, func(_ any, r *Reader) error {
		r.ReadInt8()
		r.ReadUint16()
		r.ReadInt32()
		return nil
	})
	err := reg.Dispatch(nil, StateInWorld, frame(CMSG_QUEST_ACTION, 0x01, 0x10))
	if !errors.Is(err, ErrTruncatedPacket) {
		t.Errorf("expected ErrTruncatedPacket, got %v", err)
	}
	if err := reg.Dispatch(nil, StateInWorld, []byte{0x62}); !errors.Is(err, ErrTruncatedPacket) {
		t.Errorf("expected ErrTruncatedPacket for headerless frame, got %v", err)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Register(CMSG_REACTOR_HIT, []SessionState{StateInWorld}, func(any, *Reader) error {
		var m map[int]int
		m[1] = 1
		return nil
	})
	if err := reg.Dispatch(nil, StateInWorld, frame(CMSG_REACTOR_HIT)); err == nil {
		t.Error("expected error from recovered panic")
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	noop := func(any, *Reader) error { return nil }
	reg.Register(CMSG_PONG, nil, noop)
	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	reg.Register(CMSG_PONG, nil, noop)
}
