package packet

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrUnknownHeader marks a frame whose header has no registered handler.
// Dispatch logs it and drops the frame; it is never returned.
var ErrUnknownHeader = errors.New("unknown header")

// SessionState represents the session's current protocol phase.
type SessionState int

const (
	StateConnected SessionState = iota // socket up, waiting for player load
	StateInWorld                       // player placed on a map
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateInWorld:
		return "InWorld"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// HandlerFunc is the callback signature for packet handlers.
// The session pointer is passed as an opaque interface to avoid import cycles.
type HandlerFunc func(sess any, r *Reader) error

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[SessionState]bool
}

// Registry maps headers to handlers with state-based access control.
type Registry struct {
	handlers map[Header]*handlerEntry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[Header]*handlerEntry),
		log:      log,
	}
}

// Register maps a header to a handler, restricted to the given session states.
// Registering the same header twice is a programming error.
func (reg *Registry) Register(h Header, states []SessionState, fn HandlerFunc) {
	if _, dup := reg.handlers[h]; dup {
		panic(fmt.Sprintf("packet: header %s registered twice", h))
	}
	allowed := make(map[SessionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[h] = &handlerEntry{
		fn:            fn,
		allowedStates: allowed,
	}
}

// Has reports whether a handler is registered for h.
func (reg *Registry) Has(h Header) bool {
	_, ok := reg.handlers[h]
	return ok
}

// Dispatch reads the header from frame, validates the session state and calls
// the handler with a reader over the rest of the frame.
//
// Unknown headers are logged and dropped without error: clients send headers
// for optional features the server does not implement. A truncated body
// aborts that packet only and is returned wrapped in ErrTruncatedPacket.
func (reg *Registry) Dispatch(sess any, state SessionState, frame []byte) error {
	if len(frame) < 2 {
		return fmt.Errorf("%w: frame of %d bytes has no header", ErrTruncatedPacket, len(frame))
	}
	h := Header(binary.LittleEndian.Uint16(frame))

	entry, ok := reg.handlers[h]
	if !ok {
		reg.log.Warn("protocol anomaly",
			zap.Error(ErrUnknownHeader),
			zap.Stringer("header", h),
			zap.Int("size", len(frame)),
			zap.Stringer("state", state),
		)
		return nil
	}

	if !entry.allowedStates[state] {
		reg.log.Warn("header not allowed in this state",
			zap.Stringer("header", h),
			zap.Stringer("state", state),
		)
		return fmt.Errorf("header %s not allowed in state %s", h, state)
	}

	reg.log.Debug("RX",
		zap.Stringer("header", h),
		zap.Int("size", len(frame)),
	)

	r := NewReader(h, frame[2:])
	if err := reg.safeCall(entry.fn, sess, r); err != nil {
		return err
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("header %s: %w", h, err)
	}
	return nil
}

// safeCall executes a handler with panic recovery to prevent a single
// bad packet from crashing the entire game loop.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, r *Reader) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.Stringer("header", r.Header()),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for header %s: %v", r.Header(), rec)
		}
	}()
	return fn(sess, r)
}
