// Package source provides producer adapters for the event bridge.
//
// Each adapter wraps one kind of external event origin (a periodic ticker, a
// filesystem watcher, a websocket endpoint, a terminal) behind the
// bridge.Source attach/detach contract. Attach wires a handler and starts
// whatever goroutine the origin needs; the returned detach stops it and waits
// for it to exit.
//
// Adapters emit their native payload type. Use Map to convert a source's
// payload into the item type of the bridge it feeds.
package source
