// Package dispatch provides the UI notification dispatcher.
//
// Listener callbacks run on whatever goroutine session logic used to report
// a connection change. UI work must not happen there. Instead a listener
// posts a [Message] to the [Dispatcher], and the UI consumes messages on its
// own goroutine, either by calling [Dispatcher.Drain] when woken through
// [Dispatcher.Ready] or by running [Dispatcher.Run] on a dedicated goroutine.
//
// Posting never blocks and the queue is unbounded, so a producer is never
// slowed by the UI. Messages are consumed in post order, each at most once.
// Accepted messages are discarded in two places only. Close drops whatever
// is still queued at manager teardown. A detaching UI drains the queue into
// a no-op, because the messages were addressed to a surface that is gone;
// the next attach rebuilds its state from a manager snapshot instead.
package dispatch
