package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a wall-clock Scheduler. Ticker goroutines and Post only enqueue
// work; Run executes it on the calling goroutine.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

// NewLoop creates a loop whose queue holds up to buffer pending callbacks.
func NewLoop(buffer int) *Loop {
	if buffer < 1 {
		buffer = 64
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Now returns the wall-clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Run executes queued callbacks until ctx is cancelled or Stop is called.
// It must be called from exactly one goroutine.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		panic("clock: Loop.Run called twice")
	}
	defer l.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Stop terminates Run and every ticker goroutine. Pending callbacks are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// Done returns a channel closed once the loop is stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn. It blocks while the queue is full and returns without
// queueing once the loop is stopped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Call runs fn on the loop and waits for it to finish. It returns false if
// the loop stopped first. Calling it from inside a callback deadlocks.
func (l *Loop) Call(fn func()) bool {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// loopTask is one periodic task.
type loopTask struct {
	fn        func()
	stop      chan struct{}
	stopOnce  sync.Once
	cancelled atomic.Bool
}

func (t *loopTask) Cancel() {
	t.cancelled.Store(true)
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

// run is what the ticker enqueues; runs queued before Cancel are dropped.
func (t *loopTask) run() {
	if t.cancelled.Load() {
		return
	}
	t.fn()
}

// Every starts a ticker goroutine feeding fn into the loop.
// A slow loop makes the ticker drop ticks rather than queue a backlog.
func (l *Loop) Every(interval time.Duration, fn func()) Handle {
	t := &loopTask{fn: fn, stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				select {
				case l.tasks <- t.run:
				case <-t.stop:
					return
				case <-l.done:
					return
				}
			}
		}
	}()

	return t
}
