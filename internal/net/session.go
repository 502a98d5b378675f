package net

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vanago/channel/internal/net/packet"
	"go.uber.org/zap"
)

// Reasons a session closes itself. Frame errors from ReadFrame are reported
// as they are.
var (
	ErrIdleTimeout  = errors.New("idle timeout")
	ErrRateExceeded = errors.New("packet rate exceeded")
	ErrOutputFull   = errors.New("output queue full")
)

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   uint64
	conn net.Conn

	state atomic.Int32 // packet.SessionState stored as int32

	InQueue  chan []byte // game loop reads packets from here
	OutQueue chan []byte // writer goroutine reads from here

	IP string

	outBuf [][]byte // buffered packets, flushed by OutputSystem (game loop only)

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    error // set once inside closeOnce

	rate         rateLimiter // readLoop only
	maxFrame     int
	readTimeout  time.Duration
	writeTimeout time.Duration

	log *zap.Logger
}

// SessionOptions sizes a session's queues and limits.
type SessionOptions struct {
	InQueueSize      int
	OutQueueSize     int
	PacketsPerSecond int
	MaxFrameSize     int           // inbound payload limit; 0 = MaxFrameSize
	ReadTimeout      time.Duration // idle limit between frames; 0 = none
	WriteTimeout     time.Duration
}

func NewSession(conn net.Conn, id uint64, opts SessionOptions, log *zap.Logger) *Session {
	s := &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan []byte, opts.InQueueSize),
		OutQueue:     make(chan []byte, opts.OutQueueSize),
		IP:           conn.RemoteAddr().String(),
		closeCh:      make(chan struct{}),
		rate:         rateLimiter{limit: opts.PacketsPerSecond},
		maxFrame:     opts.MaxFrameSize,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
		log:          log.With(zap.Uint64("session", id)),
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = 10 * time.Second
	}
	s.state.Store(int32(packet.StateConnected))
	return s
}

func (s *Session) State() packet.SessionState {
	return packet.SessionState(s.state.Load())
}

func (s *Session) SetState(st packet.SessionState) {
	s.state.Store(int32(st))
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a packet for sending. The packet is not written to TCP until
// FlushOutput is called by OutputSystem in the output phase.
// Called only from the game loop goroutine; no lock needed on outBuf.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, data)
}

// Pending returns the number of packets buffered since the last flush.
func (s *Session) Pending() int {
	return len(s.outBuf)
}

// FlushOutput drains the output buffer to OutQueue for the writeLoop goroutine.
// Called by OutputSystem once per tick.
// Non-blocking: if OutQueue is full, the session is disconnected (backpressure).
func (s *Session) FlushOutput() {
	for _, data := range s.outBuf {
		select {
		case s.OutQueue <- data:
		default:
			s.log.Warn("output queue full, dropping slow connection")
			s.closeWith(ErrOutputFull)
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// Close shuts down the session. Reason stays nil.
func (s *Session) Close() {
	s.closeWith(nil)
}

func (s *Session) closeWith(reason error) {
	s.closeOnce.Do(func() {
		s.reason = reason
		s.closed.Store(true)
		s.SetState(packet.StateDisconnecting)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Reason returns why the session closed itself, or nil if it is open, the
// peer hung up, or the server closed it.
func (s *Session) Reason() error {
	if !s.closed.Load() {
		return nil
	}
	return s.reason
}

// readLoop runs in its own goroutine. It reads frames from the TCP connection
// and pushes them onto InQueue for the game loop to consume.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		if s.readTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		payload, err := ReadFrame(s.conn, s.maxFrame)
		if err != nil {
			if !s.closed.Load() {
				s.closeWith(s.readFailure(err))
			}
			return
		}

		if !s.rate.allow(time.Now()) {
			s.log.Warn("packet rate exceeded, disconnecting",
				zap.Int("pps", s.rate.count),
				zap.Int("limit", s.rate.limit),
			)
			s.closeWith(ErrRateExceeded)
			return
		}

		// Block until InQueue has space or the session closes. Dropping
		// inbound packets would desync the client, so backpressure stays
		// on this connection only.
		select {
		case s.InQueue <- payload:
		case <-s.closeCh:
			return
		}
	}
}

// readFailure classifies a read error. A clean hang-up has no reason.
func (s *Session) readFailure(err error) error {
	var ne net.Error
	switch {
	case errors.As(err, &ne) && ne.Timeout():
		s.log.Info("idle timeout, disconnecting", zap.Duration("idle", s.readTimeout))
		return ErrIdleTimeout
	case errors.Is(err, io.EOF):
		return nil
	case errors.Is(err, ErrFrameTooLarge), errors.Is(err, ErrFrameLength):
		s.log.Warn("malformed frame, disconnecting", zap.Error(err))
		return err
	default:
		s.log.Debug("read error", zap.Error(err))
		return err
	}
}

// writeLoop runs in its own goroutine. It reads packets from OutQueue and
// writes them as framed data to the TCP connection.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case data := <-s.OutQueue:
			if !s.writeOnePacket(data) {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

// writeOnePacket writes a single packet to the socket. Returns true on success.
func (s *Session) writeOnePacket(data []byte) bool {
	if len(data) >= 2 {
		s.log.Debug("TX",
			zap.Stringer("header", packet.Header(uint16(data[0])|uint16(data[1])<<8)),
			zap.Int("len", len(data)),
		)
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := WriteFrame(s.conn, data); err != nil {
		if !s.closed.Load() {
			s.log.Debug("write error", zap.Error(err))
			s.closeWith(err)
		}
		return false
	}
	return true
}
