package bridge

// DetachFunc unwires a previously attached handler from its source. A
// Subscription invokes it at most once.
type DetachFunc func() error

// Source is any external producer that can invoke a callback at an arbitrary
// time, any number of times, from any goroutine. Attach wires the handler
// into the source and returns the matching detach operation. If Attach
// fails, nothing was wired and there is nothing to undo.
type Source[T any] interface {
	Attach(handler func(T)) (DetachFunc, error)
}

// SourceFunc adapts a bare attach closure to the Source interface.
type SourceFunc[T any] func(handler func(T)) (DetachFunc, error)

// Attach implements Source.
func (f SourceFunc[T]) Attach(handler func(T)) (DetachFunc, error) {
	return f(handler)
}
