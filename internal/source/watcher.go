package source

import (
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/noseratio/evbridge/internal/bridge"
)

// Watcher emits filesystem change notifications for a single path.
type Watcher struct {
	path string
}

// NewWatcher creates a source watching the given file or directory.
func NewWatcher(path string) *Watcher {
	return &Watcher{path: path}
}

// Attach creates the underlying fsnotify watcher and forwards its events to
// handler until detached. Watch errors do not stop the source; only detach
// does. The returned detach closes the watcher and waits for the forwarding
// goroutine to exit.
func (w *Watcher) Attach(handler func(fsnotify.Event)) (bridge.DetachFunc, error) {
	if w.path == "" {
		return nil, ErrEmptyPath
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(w.path); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				handler(ev)
			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
				// The bridge carries items only; watch errors are not
				// events and are dropped here.
			case <-stop:
				return
			}
		}
	}()

	return func() error {
		close(stop)
		err := fsw.Close()
		wg.Wait()
		return err
	}, nil
}
