// Package runner is the owning scope of a bridge pipeline.
//
// A Runner wires N sources into one bridge, drains the bridge through a
// consumer loop, and guarantees on every exit path (completion,
// cancellation, timeout, or failure) that all subscriptions are closed and
// the bridge is completed, each exactly once. Detach failures during
// teardown are collected and reported without aborting the remaining
// teardown.
package runner
