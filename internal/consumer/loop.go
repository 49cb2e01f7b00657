package consumer

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/noseratio/evbridge/internal/bridge"
)

// Func processes one delivered item. It may block; it should honor ctx so
// cancellation can abort processing at its next suspension point.
type Func[T any] func(ctx context.Context, item T) error

// Loop pulls items from a bridge and applies consumer-side processing.
type Loop[T any] struct {
	bridge  *bridge.Bridge[T]
	process Func[T]
	limiter *rate.Limiter
	log     zerolog.Logger

	processed atomic.Uint64
}

// Option configures a Loop.
type Option[T any] func(*Loop[T])

// WithThrottle limits processing to at most perSecond items per second. The
// throttle wait runs under the loop's context, so cancellation aborts it.
func WithThrottle[T any](perSecond float64) Option[T] {
	return func(l *Loop[T]) {
		if perSecond > 0 {
			l.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger attaches a logger for per-item debug output.
func WithLogger[T any](logger zerolog.Logger) Option[T] {
	return func(l *Loop[T]) {
		l.log = logger
	}
}

// New creates a loop that drains b, handing each item to process.
func New[T any](b *bridge.Bridge[T], process Func[T], opts ...Option[T]) *Loop[T] {
	l := &Loop[T]{
		bridge:  b,
		process: process,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Processed returns the number of items processed so far.
func (l *Loop[T]) Processed() uint64 {
	return l.processed.Load()
}

// Run drains the bridge until it completes, ctx is cancelled, or processing
// fails. It returns nil on completion, ctx.Err() on cancellation, and a
// ProcessError on processing failure. Once Run returns, remaining items are
// never processed; there is no resumption.
func (l *Loop[T]) Run(ctx context.Context) error {
	if l.bridge == nil {
		return ErrNilBridge
	}
	if l.process == nil {
		return ErrNilProcess
	}

	for item, err := range l.bridge.Consume(ctx) {
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				l.log.Debug().
					Uint64("processed", l.processed.Load()).
					Msg("cancelled while waiting for next item")
			}
			return err
		}

		if l.limiter != nil {
			if err := l.limiter.Wait(ctx); err != nil {
				// The limiter fails fast, before ctx is actually done,
				// when the required wait would outrun a deadline. The
				// item has not been processed yet, so park until expiry
				// and report it as a cancelled wait.
				if ctx.Err() == nil {
					<-ctx.Done()
				}
				return ctx.Err()
			}
		}

		if err := l.process(ctx, item); err != nil {
			// Cancellation surfacing through the processing func is a
			// clean stop, not a processing failure.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			l.log.Error().Err(err).Msg("processing failed")
			return &ProcessError{Err: err}
		}
		l.processed.Add(1)
	}

	l.log.Debug().
		Uint64("processed", l.processed.Load()).
		Msg("bridge completed and drained")
	return nil
}
