// Package store holds the last server response for one remote resource
// together with its loading and error state.
package store

import (
	"context"
	"sync"
	"time"
)

type Loader[T any] func(ctx context.Context) (T, error)

// Snapshot is an immutable copy of a Resource's state.
type Snapshot[T any] struct {
	Data      T         `json:"data"`
	Loaded    bool      `json:"loaded"`
	Loading   bool      `json:"loading"`
	Err       error     `json:"-"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Resource never updates optimistically: data only changes when a fetch
// returns. A fetch that was overtaken by a newer one is dropped.
type Resource[T any] struct {
	mu        sync.Mutex
	load      Loader[T]
	gen       uint64
	inflight  int
	data      T
	loaded    bool
	err       error
	fetchedAt time.Time
	now       func() time.Time
}

func NewResource[T any](load Loader[T]) *Resource[T] {
	return &Resource[T]{load: load, now: time.Now}
}

// Fetch calls the loader and records its result unless a newer fetch started
// meanwhile. The returned snapshot is the state after this call.
func (r *Resource[T]) Fetch(ctx context.Context) Snapshot[T] {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.inflight++
	r.mu.Unlock()

	data, err := r.load(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight--
	if gen == r.gen {
		if err != nil {
			r.err = err
		} else {
			r.data = data
			r.loaded = true
			r.err = nil
			r.fetchedAt = r.now()
		}
	}
	return r.snapshotLocked()
}

// Mutate runs fn and re-fetches on success. On failure the previous data is
// kept and the error returned.
func (r *Resource[T]) Mutate(ctx context.Context, fn func(ctx context.Context) error) (Snapshot[T], error) {
	if err := fn(ctx); err != nil {
		return r.Snapshot(), err
	}
	return r.Fetch(ctx), nil
}

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Resource[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Data:      r.data,
		Loaded:    r.loaded,
		Loading:   r.inflight > 0,
		Err:       r.err,
		FetchedAt: r.fetchedAt,
	}
}
