package source

import "github.com/noseratio/evbridge/internal/bridge"

// Map converts a source of one payload type into a source of another by
// applying fn to every emitted value. Attach and detach semantics are those
// of the underlying source.
func Map[E, T any](src bridge.Source[E], fn func(E) T) bridge.Source[T] {
	return bridge.SourceFunc[T](func(handler func(T)) (bridge.DetachFunc, error) {
		return src.Attach(func(e E) {
			handler(fn(e))
		})
	})
}
