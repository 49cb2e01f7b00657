// Package consumer drains an event bridge one item at a time.
//
// A Loop pulls items from a bridge in arrival order and hands each to a
// caller-supplied processing function. It ends in exactly one of three ways:
//
//   - Completed: the bridge was completed and drained; Run returns nil.
//   - Cancelled: the context was cancelled while waiting or processing; Run
//     returns ctx.Err(). Cancellation is an expected, clean termination.
//   - Failed: processing returned an error; Run returns a ProcessError
//     wrapping it and skips all remaining items.
package consumer
