package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"traderflow/pkg/utils"
)

// Status is the lifecycle tag of a single fetch.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Fetcher performs one fetch of a T.
type Fetcher[T any] func(ctx context.Context) (*T, error)

// Slot is an immutable snapshot of a Resource.
type Slot[T any] struct {
	Status Status
	Data   *T
	Err    error
}

func (s Slot[T]) Idle() bool    { return s.Status == StatusIdle }
func (s Slot[T]) Pending() bool { return s.Status == StatusPending }
func (s Slot[T]) Loaded() bool  { return s.Status == StatusSuccess && s.Data != nil }
func (s Slot[T]) Failed() bool  { return s.Status == StatusError }

func (s Slot[T]) MarshalJSON() ([]byte, error) {
	out := struct {
		Status Status `json:"status"`
		Data   *T     `json:"data,omitempty"`
		Error  any    `json:"error,omitempty"`
	}{Status: s.Status, Data: s.Data}
	if s.Err != nil {
		if m, ok := s.Err.(json.Marshaler); ok {
			out.Error = m
		} else {
			out.Error = s.Err.Error()
		}
	}
	return json.Marshal(out)
}

// Resource holds the latest result of one kind of fetch. Every Begin starts a
// new generation; results settled with an older generation are dropped, so a
// slow response for a previous identifier never overwrites newer state.
type Resource[T any] struct {
	name   string
	signal *Signal

	mu         sync.RWMutex
	status     Status
	data       *T
	err        error
	generation uint64
}

// New creates an idle resource. signal, when non-nil, is broadcast whenever the resource settles.
func New[T any](name string, signal *Signal) *Resource[T] {
	return &Resource[T]{name: name, signal: signal, status: StatusIdle}
}

// Name returns the resource name used in logs.
func (r *Resource[T]) Name() string {
	return r.name
}

// Status returns the current lifecycle tag.
func (r *Resource[T]) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Snapshot returns the current state.
func (r *Resource[T]) Snapshot() Slot[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Slot[T]{Status: r.status, Data: r.data, Err: r.err}
}

// Begin marks the resource pending, clears previous data and returns the new generation.
func (r *Resource[T]) Begin() uint64 {
	r.mu.Lock()
	r.generation++
	r.status = StatusPending
	r.data = nil
	r.err = nil
	gen := r.generation
	r.mu.Unlock()
	return gen
}

// Reset returns the resource to idle and invalidates any in-flight fetch.
func (r *Resource[T]) Reset() {
	r.mu.Lock()
	r.generation++
	r.status = StatusIdle
	r.data = nil
	r.err = nil
	r.mu.Unlock()
	r.broadcast()
}

// Settle records the outcome of the fetch started at generation gen. It
// reports false when gen is stale and the outcome was discarded.
func (r *Resource[T]) Settle(gen uint64, data *T, err error) bool {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return false
	}
	if err != nil {
		r.status = StatusError
		r.data = nil
		r.err = err
	} else {
		r.status = StatusSuccess
		r.data = data
		r.err = nil
	}
	r.mu.Unlock()
	r.broadcast()
	return true
}

// Start begins a new generation and runs fetch in its own goroutine. done, if
// non-nil, is called after the outcome is settled or discarded.
func (r *Resource[T]) Start(ctx context.Context, fetch Fetcher[T], done func(kept bool, err error)) uint64 {
	gen := r.Begin()
	utils.GoSafe(func() {
		data, err := r.run(ctx, fetch)
		kept := r.Settle(gen, data, err)
		if done != nil {
			done(kept, err)
		}
	})
	return gen
}

// Load runs fetch synchronously in a new generation and returns the settled snapshot.
func (r *Resource[T]) Load(ctx context.Context, fetch Fetcher[T]) Slot[T] {
	gen := r.Begin()
	data, err := r.run(ctx, fetch)
	r.Settle(gen, data, err)
	return r.Snapshot()
}

// run calls fetch and turns a panic or an empty result into an error, so every
// started generation settles.
func (r *Resource[T]) run(ctx context.Context, fetch Fetcher[T]) (data *T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			data, err = nil, fmt.Errorf("%s fetch panicked: %v", r.name, rec)
		}
	}()
	data, err = fetch(ctx)
	if err == nil && data == nil {
		err = errNoData
	}
	return data, err
}

func (r *Resource[T]) broadcast() {
	if r.signal != nil {
		r.signal.Broadcast()
	}
}
