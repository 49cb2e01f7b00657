package source

import (
	"sync"
	"time"

	"github.com/noseratio/evbridge/internal/bridge"
)

// Ticker fires at a fixed interval, emitting the tick time. It stands in for
// any periodic push producer: the timers of a UI toolkit, a polling sensor.
type Ticker struct {
	interval time.Duration
}

// NewTicker creates a periodic source with the given interval.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{interval: interval}
}

// Attach starts the tick goroutine and invokes handler once per tick until
// detached. The returned detach stops the ticker and waits for the goroutine
// to exit, so the handler is never invoked after detach returns.
func (t *Ticker) Attach(handler func(time.Time)) (bridge.DetachFunc, error) {
	if t.interval <= 0 {
		return nil, ErrInvalidInterval
	}

	ticker := time.NewTicker(t.interval)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case now := <-ticker.C:
				handler(now)
			case <-stop:
				return
			}
		}
	}()

	return func() error {
		ticker.Stop()
		close(stop)
		wg.Wait()
		return nil
	}, nil
}
