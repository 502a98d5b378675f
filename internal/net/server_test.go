package net

import (
	"io"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
)

func acceptOne(t *testing.T, s *Server) *Session {
	t.Helper()
	select {
	case sess := <-s.NewSessions():
		return sess
	case <-time.After(time.Second):
		t.Fatal("no session accepted")
		return nil
	}
}

func TestServerSessionCap(t *testing.T) {
	s, err := NewServer("127.0.0.1:0", 1, SessionOptions{InQueueSize: 1, OutQueueSize: 1}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Shutdown()
	go s.AcceptLoop()

	first, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()
	sess := acceptOne(t, s)
	if sess.ID != 1 || s.Live() != 1 {
		t.Fatalf("expected session 1 live, got id %d live %d", sess.ID, s.Live())
	}

	second, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	second.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := second.Read(make([]byte, 1)); err != io.EOF {
		t.Fatalf("expected full channel to close the connection, got %v", err)
	}

	sess.Close()
	s.NotifyDead(sess.ID)
	if s.Live() != 0 {
		t.Fatalf("expected slot freed, live %d", s.Live())
	}
	third, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer third.Close()
	if next := acceptOne(t, s); next.ID != 2 {
		t.Errorf("expected session 2, got %d", next.ID)
	}
}

func TestServerShutdownTwice(t *testing.T) {
	s, err := NewServer("127.0.0.1:0", 0, SessionOptions{InQueueSize: 1, OutQueueSize: 1}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		s.AcceptLoop()
		close(done)
	}()
	s.Shutdown()
	s.Shutdown()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("accept loop still running after shutdown")
	}
}
