// Package lookup implements the incremental date-range cache that backs
// each dashboard series. A cache fetches only the date span not yet
// retrieved, appends the results to an in-memory list, and serializes
// fetches so at most one query per instance is in flight.
package lookup

import (
	"context"
	"sync"
	"time"

	"greenhouse_dashboard/internal/models"
)

// Getter is the bound query function a cache fetches through, typically a
// closure over an upstream client call plus its fixed parameters (stat
// type or log level).
type Getter[T any] func(ctx context.Context, start, end time.Time) ([]T, error)

// Cache incrementally grows an append-only record list. The list is never
// pruned, deduplicated, or reordered for the lifetime of the instance;
// changing lookup parameters means discarding the instance and building a
// fresh one.
type Cache[T any] struct {
	// fetchMu is the single-flight gate: it is held across the whole
	// fetch, including the start/end computation, so queued callers
	// always observe the previous fetch's completed boundary.
	fetchMu sync.Mutex
	// mu guards lastEnd and records. It is never held across the getter
	// call, so state reads don't stall behind a slow upstream fetch.
	mu         sync.Mutex
	getter     Getter[T]
	windowDays int
	lastEnd    time.Time // zero means never fetched
	records    []T
	now        func() time.Time
}

// New builds a cache over getter with an initial backfill window of
// windowDays before the first fetch's call time.
func New[T any](windowDays int, getter Getter[T]) *Cache[T] {
	return &Cache[T]{
		getter:     getter,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Fetch retrieves the records for the span since the last fetch and
// returns the full accumulated list, oldest-appended-first.
//
// The boundary advances when the fetch is issued, not when it completes:
// every call records its end as the new boundary, whether the fetch then
// succeeds, fails, or is skipped as a no-op. A failed fetch leaves the
// records untouched but its window is skipped rather than retried; the
// next call starts where the failed one would have ended.
func (c *Cache[T]) Fetch(ctx context.Context) ([]T, error) {
	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	end := c.now().UTC()

	c.mu.Lock()
	start := c.lastEnd
	if start.IsZero() {
		start = end.AddDate(0, 0, -c.windowDays)
	}
	// The issued end becomes the boundary before the outcome is known,
	// skipped fetches included. A zero-width first window that left the
	// boundary unset would recompute start = now on every later call and
	// never issue a query at all.
	c.lastEnd = end
	c.mu.Unlock()

	// No time has elapsed at canonical precision since the last recorded
	// boundary; skip the query and hand back what we have.
	if models.FormatTime(start) == models.FormatTime(end) {
		return c.Records(), nil
	}

	items, err := c.getter(ctx, start, end)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.records = append(c.records, items...)
	out := c.snapshot()
	c.mu.Unlock()
	return out, nil
}

// Len reports how many records have been accumulated.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// LastEnd returns the boundary of the most recently issued fetch; the zero
// time means no fetch has been issued yet.
func (c *Cache[T]) LastEnd() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastEnd
}

// Records returns the accumulated list without triggering a fetch.
func (c *Cache[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// snapshot copies the record list so callers can't alias the backing
// array. Callers must hold mu.
func (c *Cache[T]) snapshot() []T {
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}
