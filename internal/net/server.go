package net

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const maxAcceptDelay = time.Second

// Server accepts TCP connections and creates Sessions.
// New/dead sessions are communicated to the game loop via channels.
type Server struct {
	listener    net.Listener
	nextID      atomic.Uint64
	live        atomic.Int32
	maxSessions int32 // 0 = unlimited
	newConns    chan *Session
	deadCh      chan uint64 // session IDs of dead sessions
	opts        SessionOptions
	log         *zap.Logger
	closeCh     chan struct{}
	closeOnce   sync.Once
}

// NewServer listens on bindAddr. Connections beyond maxSessions live
// sessions are closed right after accept.
func NewServer(bindAddr string, maxSessions int, opts SessionOptions, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener:    ln,
		maxSessions: int32(maxSessions),
		newConns:    make(chan *Session, 64),
		deadCh:      make(chan uint64, 64),
		opts:        opts,
		log:         log,
		closeCh:     make(chan struct{}),
	}
	return s, nil
}

// AcceptLoop runs in its own goroutine. It accepts connections, starts
// sessions, and pushes them onto the newConns channel.
func (s *Server) AcceptLoop() {
	var delay time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return // server shutting down
			default:
			}
			// Back off on persistent errors such as running out of fds.
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.log.Error("accept failed", zap.Error(err), zap.Duration("retry_in", delay))
			time.Sleep(delay)
			continue
		}
		delay = 0

		if s.maxSessions > 0 && s.live.Load() >= s.maxSessions {
			s.log.Warn("channel full, rejecting client",
				zap.String("ip", conn.RemoteAddr().String()),
				zap.Int32("max_sessions", s.maxSessions),
			)
			conn.Close()
			continue
		}

		id := s.nextID.Add(1)
		sess := NewSession(conn, id, s.opts, s.log)

		select {
		case s.newConns <- sess:
			s.live.Add(1)
			sess.Start()
			s.log.Info("client connected", zap.Uint64("session", id), zap.String("ip", sess.IP))
		default:
			s.log.Warn("connection queue full, rejecting client")
			sess.Close()
		}
	}
}

// NewSessions returns the channel of newly connected sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// NotifyDead reports a dead session ID to the game loop and frees its slot.
func (s *Server) NotifyDead(sessionID uint64) {
	s.live.Add(-1)
	select {
	case s.deadCh <- sessionID:
	default:
	}
}

// DeadSessions returns the channel of dead session IDs.
func (s *Server) DeadSessions() <-chan uint64 {
	return s.deadCh
}

// Live returns the number of accepted sessions not yet reported dead.
func (s *Server) Live() int {
	return int(s.live.Load())
}

// Shutdown stops accepting new connections. Safe to call more than once.
func (s *Server) Shutdown() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
		s.listener.Close()
	})
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
