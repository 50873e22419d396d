// Package query caches remote reads per resource key and tracks mutation state.
//
// A Query holds exactly one cache slot. Refetch always hits the network and
// Mount reuses fresh data. A result only lands if no later-started fetch has
// resolved first. Failed fetches keep the previous value so callers can keep
// rendering it while the error is surfaced.
package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Status describes the outcome of the latest fetch for a key
type Status int

const (
	StatusIdle Status = iota // Never fetched
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Entry is a point-in-time copy of a cache slot
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time // Zero until the first success
	Status    Status
	Err       error
	Fetching  bool
}

// Fetcher loads the value for one key
type Fetcher[T any] func(ctx context.Context) (T, error)

// StalePredicate reports whether data fetched at fetchedAt must be revalidated at now
type StalePredicate func(fetchedAt, now time.Time) bool

// Options controls caching and retry behaviour
type Options struct {
	StaleTime  time.Duration  // Ignored when IsStale is set
	IsStale    StalePredicate // Overrides StaleTime
	Retry      int            // Extra attempts after the first failure
	RetryDelay time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

// DefaultOptions always revalidates on mount and retries once
func DefaultOptions() Options {
	return Options{
		Retry:      1,
		RetryDelay: 500 * time.Millisecond,
	}
}

// Query is a cached, revalidating read for a single resource key
type Query[T any] struct {
	key    string
	fetch  Fetcher[T]
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	entry    Entry[T]
	inflight int
	seq      uint64 // Bumped per fetch start, used to keep the newest start's result
	resolved uint64
	invalid  bool

	group singleflight.Group
}

// New creates a Query for key. placeholder is returned by Data until the first success.
func New[T any](key string, fetch Fetcher[T], placeholder T, opts Options) *Query[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Query[T]{
		key:    key,
		fetch:  fetch,
		opts:   opts,
		logger: logger.With("query", key),
		entry:  Entry[T]{Value: placeholder},
	}
}

// Key returns the resource key
func (q *Query[T]) Key() string {
	return q.key
}

// Data returns the last successfully fetched value, or the placeholder
func (q *Query[T]) Data() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.entry.Value
}

// Err returns the last fetch failure; nil after a success
func (q *Query[T]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.entry.Err
}

// IsFetching reports whether any fetch for this key is in flight
func (q *Query[T]) IsFetching() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inflight > 0
}

// HasData reports whether at least one fetch has succeeded
func (q *Query[T]) HasData() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.entry.FetchedAt.IsZero()
}

// Snapshot returns a copy of the cache slot
func (q *Query[T]) Snapshot() Entry[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.entry
	e.Fetching = q.inflight > 0
	return e
}

// IsStale reports whether the next Mount will hit the network
func (q *Query[T]) IsStale() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.staleLocked()
}

func (q *Query[T]) staleLocked() bool {
	if q.invalid || q.entry.FetchedAt.IsZero() {
		return true
	}
	now := q.opts.Now()
	if q.opts.IsStale != nil {
		return q.opts.IsStale(q.entry.FetchedAt, now)
	}
	return now.Sub(q.entry.FetchedAt) >= q.opts.StaleTime
}

// Invalidate marks the cached value stale so the next Mount revalidates
func (q *Query[T]) Invalidate() {
	q.mu.Lock()
	q.invalid = true
	q.mu.Unlock()
}

// Mount returns cached data when it is still fresh, otherwise it revalidates.
// Concurrent mounts of a stale key share one fetch. The shared fetch ignores
// the first caller's cancellation; each caller stops waiting on its own ctx.
func (q *Query[T]) Mount(ctx context.Context) (T, error) {
	q.mu.Lock()
	if !q.staleLocked() {
		value := q.entry.Value
		q.mu.Unlock()
		return value, nil
	}
	q.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := q.group.DoChan(q.key, func() (any, error) {
		return q.run(shared)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return q.Data(), res.Err
		}
		value, _ := res.Val.(T)
		return value, nil
	case <-ctx.Done():
		return q.Data(), ctx.Err()
	}
}

// Refetch forces a network fetch and returns its result. It never joins a
// fetch that started earlier, so data written before the call is always seen.
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	value, err := q.run(ctx)
	if err != nil {
		return q.Data(), err
	}
	return value, nil
}

// run performs one fetch with retries and records the outcome
func (q *Query[T]) run(ctx context.Context) (T, error) {
	q.mu.Lock()
	q.inflight++
	q.seq++
	seq := q.seq
	q.mu.Unlock()

	value, err := q.fetchWithRetry(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.inflight--

	// A fetch that started before the current slot owner resolved late; drop it
	if seq < q.resolved {
		q.logger.Debug("discarding superseded fetch result", "seq", seq, "resolved", q.resolved)
		return value, err
	}
	q.resolved = seq

	if err != nil {
		q.entry.Status = StatusError
		q.entry.Err = err
		return value, err
	}

	q.entry.Value = value
	q.entry.FetchedAt = q.opts.Now()
	q.entry.Status = StatusSuccess
	q.entry.Err = nil
	q.invalid = false
	return value, nil
}

func (q *Query[T]) fetchWithRetry(ctx context.Context) (T, error) {
	var (
		value T
		err   error
	)
	attempts := q.opts.Retry + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		value, err = q.fetch(ctx)
		if err == nil {
			return value, nil
		}
		if attempt == attempts || ctx.Err() != nil {
			break
		}

		q.logger.Warn("fetch failed, retrying", "attempt", attempt, "of", attempts, "error", err)
		if q.opts.RetryDelay > 0 {
			timer := time.NewTimer(q.opts.RetryDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				q.logger.Error("fetch abandoned", "error", ctx.Err())
				return value, err
			}
		}
	}
	q.logger.Error("fetch failed", "attempts", attempts, "error", err)
	return value, err
}
