// Package bridge converts push-style event callbacks into a single pull
// sequence.
//
// External sources (timers, file watchers, sockets, terminal input: anything
// that fires a callback) post items into a Bridge from any goroutine, at any
// time. Exactly one consumer drains the Bridge through Consume, receiving the
// items lazily, in arrival order, until the Bridge is completed and empty.
//
// # Components
//
//   - Bridge: the ordered, unbounded, multi-producer/single-consumer buffer
//     plus a one-shot completion signal.
//   - Source: the attach/detach capability pair any producer must satisfy.
//   - Subscription: a disposable handle tying one attached handler to its
//     source; Close detaches exactly once.
//
// # Basic Usage
//
//	b := bridge.New[string]()
//
//	sub, err := b.Subscribe(someSource)
//	if err != nil {
//	    return err
//	}
//	defer sub.Close()
//
//	for item, err := range b.Consume(ctx) {
//	    if err != nil {
//	        return err // cancellation
//	    }
//	    handle(item)
//	}
//	// iteration ended: bridge completed and drained
//
// # Ordering
//
// Items from a single producer are delivered in the order posted. Items from
// different producers are delivered in the order they arrive at the Bridge;
// no fairness or priority is imposed beyond arrival order.
//
// # Completion and Cancellation
//
// Complete is one-shot and idempotent. Items buffered before Complete remain
// drainable; Post after Complete returns false and the item is dropped, which
// is expected during teardown and not an error. Cancelling the consumer's
// context while it waits aborts the wait with ctx.Err(); once cancellation
// fires, no further item is delivered on that iteration, even if items are
// still buffered.
//
// # Limitations
//
// The buffer is unbounded: producers never block and never observe
// backpressure, at the cost of unbounded memory growth if the consumer falls
// behind. A bounded-capacity variant with a drop/block/error policy is a
// deliberate non-goal of this package.
package bridge
