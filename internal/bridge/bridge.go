package bridge

import (
	"context"
	"errors"
	"iter"
	"sync"
	"sync/atomic"
)

// Bridge is an ordered, unbounded, multi-producer/single-consumer buffer with
// a one-shot completion signal. The zero value is not usable; create bridges
// with New.
type Bridge[T any] struct {
	mu        sync.Mutex
	items     []T
	completed bool

	// wake has capacity 1 so Post can always signal a waiting consumer
	// without blocking.
	wake chan struct{}
	done chan struct{}

	consuming atomic.Bool

	posted    atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// Stats contains bridge counters.
type Stats struct {
	// Posted is the number of items accepted by Post.
	Posted uint64

	// Delivered is the number of items handed to the consumer.
	Delivered uint64

	// Dropped is the number of items rejected because the bridge was
	// already completed.
	Dropped uint64

	// Pending is the number of buffered, undelivered items.
	Pending int
}

// New creates an empty, open bridge.
func New[T any]() *Bridge[T] {
	return &Bridge[T]{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post enqueues item for the consumer. It never blocks and is safe to call
// concurrently from any goroutine, including time-sensitive callback
// contexts. It returns false if the bridge has been completed; the item is
// then dropped, which is expected during teardown and not an error.
func (b *Bridge[T]) Post(item T) bool {
	b.mu.Lock()
	if b.completed {
		b.dropped.Add(1)
		b.mu.Unlock()
		return false
	}
	b.items = append(b.items, item)
	// Counted under mu so a Stats snapshot never sees Pending > Posted.
	b.posted.Add(1)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
	return true
}

// Complete marks the bridge as finished. No further items are accepted, but
// items already buffered remain drainable until empty. Complete is idempotent
// and safe to call from any goroutine, including re-entrantly during
// teardown.
func (b *Bridge[T]) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.completed {
		return
	}
	b.completed = true
	close(b.done)
}

// Completed reports whether Complete has been called.
func (b *Bridge[T]) Completed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.completed
}

// Len returns the number of buffered, undelivered items.
func (b *Bridge[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Stats returns a mutually consistent snapshot of the bridge counters.
func (b *Bridge[T]) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		Posted:    b.posted.Load(),
		Delivered: b.delivered.Load(),
		Dropped:   b.dropped.Load(),
		Pending:   len(b.items),
	}
}

// Next blocks until an item is available, the bridge is completed and
// drained, or ctx is cancelled. It returns ErrCompleted on normal
// termination and ctx.Err() on cancellation. Cancellation wins over buffered
// items: once ctx is done, no further item is delivered.
//
// Next is the low-level pull primitive; most callers should range over
// Consume instead. Only one goroutine may pull at a time.
func (b *Bridge[T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		b.mu.Lock()
		if len(b.items) > 0 {
			item := b.items[0]
			b.items = b.items[1:]
			if len(b.items) == 0 {
				b.items = nil // release the drained backing array
			}
			b.delivered.Add(1)
			b.mu.Unlock()
			return item, nil
		}
		completed := b.completed
		b.mu.Unlock()

		if completed {
			return zero, ErrCompleted
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-b.wake:
		case <-b.done:
		}
	}
}

// Consume returns a single-pass iterator over the bridge's items in arrival
// order. The iteration suspends while the bridge is empty and open, ends
// without error once the bridge is completed and drained, and yields a
// single non-nil error (then stops) if ctx is cancelled while waiting.
//
// The bridge is single-consumer: starting a second iteration while one is
// running yields ErrConsumeActive immediately.
func (b *Bridge[T]) Consume(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		if !b.consuming.CompareAndSwap(false, true) {
			yield(zero, ErrConsumeActive)
			return
		}
		defer b.consuming.Store(false)

		for {
			item, err := b.Next(ctx)
			switch {
			case errors.Is(err, ErrCompleted):
				return
			case err != nil:
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}
