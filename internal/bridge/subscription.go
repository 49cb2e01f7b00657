package bridge

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription represents one handler currently attached to an external
// source. It is created by Subscribe or SubscribeFunc, which perform the
// attach; Close performs the detach exactly once.
type Subscription struct {
	id     string
	detach DetachFunc
	closed atomic.Bool
}

// Subscribe attaches a handler that posts every item the source produces
// into the bridge. Items produced after the bridge is completed are dropped
// by Post, so a source firing during teardown is harmless.
func (b *Bridge[T]) Subscribe(src Source[T]) (*Subscription, error) {
	return b.SubscribeFunc(src, func(item T) { b.Post(item) })
}

// SubscribeFunc attaches a caller-supplied handler to the source. The
// handler decides what, if anything, to post into the bridge. If the
// source's attach fails, no subscription is created and no detach is
// registered.
func (b *Bridge[T]) SubscribeFunc(src Source[T], handler func(T)) (*Subscription, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	detach, err := src.Attach(handler)
	if err != nil {
		return nil, err
	}

	return &Subscription{
		id:     uuid.NewString(),
		detach: detach,
	}, nil
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// IsClosed reports whether Close has been called.
func (s *Subscription) IsClosed() bool {
	return s.closed.Load()
}

// Close detaches the handler from its source. Only the first call invokes
// the detach and may return its error; subsequent calls are no-ops returning
// nil.
func (s *Subscription) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.detach == nil {
		return nil
	}
	return s.detach()
}
