// Package clock provides the periodic-task scheduling used to drive the game.
//
// A Scheduler runs every callback on a single logical thread: callbacks never
// overlap, so the state they mutate needs no locking. Loop does this with
// wall-clock tickers and one executor goroutine; Manual does it with virtual
// time advanced explicitly by tests and headless replays.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Handle cancels a periodic task. Cancel is idempotent and may be called
// from inside the task's own callback.
type Handle interface {
	Cancel()
}

// Scheduler runs periodic tasks and posted callbacks one at a time.
type Scheduler interface {
	Clock

	// Every runs fn every interval until the returned handle is cancelled.
	// The task is re-armed after each invocation.
	Every(interval time.Duration, fn func()) Handle

	// Post queues fn to run once on the scheduler's thread.
	// Safe to call from any goroutine.
	Post(fn func())
}

// HandleFunc adapts a function to the Handle interface.
type HandleFunc func()

// Cancel calls f.
func (f HandleFunc) Cancel() {
	f()
}

// Nop is a Handle that does nothing.
var Nop Handle = HandleFunc(func() {})
