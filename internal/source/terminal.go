package source

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/noseratio/evbridge/internal/bridge"
)

// Terminal emits key events from a tcell screen. The screen is owned by the
// caller: Attach only starts the poll loop and detach only stops it; Init
// and Fini remain the caller's responsibility.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal creates a key-event source backed by the given screen.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Attach starts polling the screen and invokes handler for every key event
// until detached. The returned detach posts an interrupt to wake the poll
// loop and waits for it to exit.
func (t *Terminal) Attach(handler func(*tcell.EventKey)) (bridge.DetachFunc, error) {
	if t.screen == nil {
		return nil, ErrNilScreen
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				// Screen finalized underneath us.
				return
			}
			select {
			case <-stop:
				return
			default:
			}
			if key, ok := ev.(*tcell.EventKey); ok {
				handler(key)
			}
		}
	}()

	return func() error {
		close(stop)
		// Wake the poll loop so it observes the stop signal.
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
		wg.Wait()
		return nil
	}, nil
}
