package websocket

import (
	"sync"
)

// frameSlot is a single-slot mailbox for pose frames. A new frame overwrites
// an unconsumed one, so the pose worker always analyzes the latest frame.
type frameSlot struct {
	mu      sync.Mutex
	cond    *sync.Cond
	frame   string
	pending bool
	closed  bool
	dropped int64
}

func newFrameSlot() *frameSlot {
	s := &frameSlot{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// offer never blocks.
func (s *frameSlot) offer(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.pending {
		s.dropped++
	}
	s.frame = frame
	s.pending = true
	s.cond.Signal()
}

// take blocks until a frame is available or the slot is closed.
func (s *frameSlot) take() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.pending && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return "", false
	}
	f := s.frame
	s.frame = ""
	s.pending = false
	return f, true
}

func (s *frameSlot) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *frameSlot) drops() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
