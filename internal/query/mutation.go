package query

import (
	"context"
	"log/slog"
	"sync"
)

// Result is the settled outcome of one mutation call
type Result[O any] struct {
	Value O
	Err   error
}

// OK reports whether the mutation succeeded
func (r Result[O]) OK() bool {
	return r.Err == nil
}

// Callbacks are invoked when a mutation settles. OnSuccess and OnError are
// mutually exclusive; OnSettled always runs last. Any of them may be nil.
type Callbacks[O any] struct {
	OnSuccess func(O)
	OnError   func(error)
	OnSettled func()
}

// MutationFunc performs the remote write
type MutationFunc[I, O any] func(ctx context.Context, input I) (O, error)

// Mutation wraps a state-changing remote call with pending/error tracking
type Mutation[I, O any] struct {
	key       string
	fn        MutationFunc[I, O]
	callbacks Callbacks[O]
	logger    *slog.Logger

	mu      sync.Mutex
	pending int
	err     error
	data    O
}

// NewMutation creates a Mutation identified by key
func NewMutation[I, O any](key string, fn MutationFunc[I, O], callbacks Callbacks[O]) *Mutation[I, O] {
	return &Mutation[I, O]{
		key:       key,
		fn:        fn,
		callbacks: callbacks,
		logger:    slog.Default().With("mutation", key),
	}
}

// Key returns the mutation key
func (m *Mutation[I, O]) Key() string {
	return m.key
}

// IsPending reports whether a call is in flight
func (m *Mutation[I, O]) IsPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending > 0
}

// Err returns the failure of the last settled call
func (m *Mutation[I, O]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Data returns the value of the last successful call
func (m *Mutation[I, O]) Data() O {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// Reset clears the recorded error and data
func (m *Mutation[I, O]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero O
	m.err = nil
	m.data = zero
}

// Mutate runs the mutation and fires the callbacks once it settles.
// It does not refuse overlapping calls.
func (m *Mutation[I, O]) Mutate(ctx context.Context, input I) Result[O] {
	m.mu.Lock()
	m.pending++
	m.err = nil
	m.mu.Unlock()

	value, err := m.fn(ctx, input)

	m.mu.Lock()
	m.pending--
	if err != nil {
		m.err = err
	} else {
		m.data = value
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("mutation failed", "error", err)
		if m.callbacks.OnError != nil {
			m.callbacks.OnError(err)
		}
	} else if m.callbacks.OnSuccess != nil {
		m.callbacks.OnSuccess(value)
	}
	if m.callbacks.OnSettled != nil {
		m.callbacks.OnSettled()
	}

	return Result[O]{Value: value, Err: err}
}
