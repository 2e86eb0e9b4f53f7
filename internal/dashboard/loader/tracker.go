package loader

import (
	"context"
	"errors"
	"sync"
)

var errNoData = errors.New("empty response")

// Statuser is anything exposing a fetch status.
type Statuser interface {
	Status() Status
}

// Loading reports whether any of the given resources is still pending.
func Loading(resources ...Statuser) bool {
	for _, r := range resources {
		if r.Status() == StatusPending {
			return true
		}
	}
	return false
}

// Signal is a broadcast wake-up shared by the resources of one view.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// C returns a channel closed at the next Broadcast.
func (s *Signal) C() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch
}

// Broadcast wakes every waiter.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	close(s.ch)
	s.ch = make(chan struct{})
	s.mu.Unlock()
}

// WaitIdle blocks until none of resources is pending or ctx is done.
func WaitIdle(ctx context.Context, signal *Signal, resources ...Statuser) error {
	for {
		ch := signal.C()
		if !Loading(resources...) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}
