package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/noseratio/evbridge/internal/bridge"
	"github.com/noseratio/evbridge/internal/consumer"
)

// ErrNilBridge is returned by Run when the runner has no bridge.
var ErrNilBridge = errors.New("bridge cannot be nil")

// Runner owns a bridge, its subscriptions, and the consumer loop for one
// run. A Runner is single-use; create a new one for each run.
type Runner[T any] struct {
	bridge   *bridge.Bridge[T]
	sources  []bridge.Source[T]
	process  consumer.Func[T]
	timeout  time.Duration
	loopOpts []consumer.Option[T]
	log      zerolog.Logger
}

// Option configures a Runner.
type Option[T any] func(*Runner[T])

// WithTimeout imposes a wall-clock deadline on the run. On expiry the whole
// pipeline is cancelled and torn down; this counts as a clean shutdown.
func WithTimeout[T any](d time.Duration) Option[T] {
	return func(r *Runner[T]) {
		r.timeout = d
	}
}

// WithLogger attaches a logger to the runner.
func WithLogger[T any](logger zerolog.Logger) Option[T] {
	return func(r *Runner[T]) {
		r.log = logger
	}
}

// WithLoopOptions forwards options to the consumer loop.
func WithLoopOptions[T any](opts ...consumer.Option[T]) Option[T] {
	return func(r *Runner[T]) {
		r.loopOpts = append(r.loopOpts, opts...)
	}
}

// New creates a runner that wires sources into b and drains it with process.
func New[T any](b *bridge.Bridge[T], process consumer.Func[T], sources []bridge.Source[T], opts ...Option[T]) *Runner[T] {
	r := &Runner[T]{
		bridge:  b,
		sources: sources,
		process: process,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run attaches every source, drains the bridge until completion,
// cancellation, or failure, then tears the pipeline down. Teardown, which
// closes all subscriptions and completes the bridge, runs exactly once on every
// exit path. Cancellation and timeout are clean shutdowns and return nil
// unless a detach failed; detach failures are collected, never
// first-failure-aborted. A processing failure is returned joined with any
// detach failures.
func (r *Runner[T]) Run(ctx context.Context) error {
	if r.bridge == nil {
		return ErrNilBridge
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var (
		subs      []*bridge.Subscription
		detachErr error
		once      sync.Once
	)
	teardown := func() {
		once.Do(func() {
			var errs []error
			for _, sub := range subs {
				if err := sub.Close(); err != nil {
					r.log.Warn().Err(err).
						Str("subscription", sub.ID()).
						Msg("detach failed")
					errs = append(errs, err)
				}
			}
			r.bridge.Complete()
			detachErr = errors.Join(errs...)
		})
	}
	defer teardown()

	for _, src := range r.sources {
		sub, err := r.bridge.Subscribe(src)
		if err != nil {
			// Unwire whatever was already attached before reporting.
			teardown()
			return errors.Join(fmt.Errorf("attach source: %w", err), detachErr)
		}
		subs = append(subs, sub)
	}
	r.log.Debug().Int("sources", len(subs)).Msg("sources attached")

	loop := consumer.New(r.bridge, r.process, r.loopOpts...)

	loopDone := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(loopDone)
		return loop.Run(gctx)
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			// Shutdown signal: unwire producers and complete the bridge
			// while the loop is still observing the cancellation.
			teardown()
		case <-loopDone:
		}
		return nil
	})

	err := g.Wait()
	teardown()

	stats := r.bridge.Stats()
	r.log.Debug().
		Uint64("posted", stats.Posted).
		Uint64("delivered", stats.Delivered).
		Uint64("dropped", stats.Dropped).
		Uint64("processed", loop.Processed()).
		Msg("teardown complete")

	switch {
	case err == nil:
		r.log.Info().Msg("bridge drained")
		return detachErr
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		r.log.Info().Msg("shutdown requested")
		return detachErr
	default:
		r.log.Error().Err(err).Msg("consumer loop failed")
		return errors.Join(err, detachErr)
	}
}
