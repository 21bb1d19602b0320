package clock

import (
	"sync"
	"time"
)

// Manual is a virtual-time Scheduler. Nothing runs until Advance or Drain is
// called, which makes tick/frame interleavings reproducible.
//
// When several tasks are due at the same instant, the one with the shorter
// interval runs first, then the one registered first. With the default
// timings this runs the jump frame before the obstacle tick.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	tasks  []*manualTask
	posted []func()
	seq    uint64
}

type manualTask struct {
	next      time.Time
	interval  time.Duration
	fn        func()
	seq       uint64
	cancelled bool
	m         *Manual
}

func (t *manualTask) Cancel() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.cancelled = true
}

// NewManual creates a manual scheduler starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Every registers fn to run every interval of virtual time, first at Now()+interval.
func (m *Manual) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		panic("clock: non-positive interval")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTask{
		next:     m.now.Add(interval),
		interval: interval,
		fn:       fn,
		seq:      m.seq,
		m:        m,
	}
	m.tasks = append(m.tasks, t)
	return t
}

// Post queues fn until the next Advance or Drain.
func (m *Manual) Post(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, fn)
}

// Drain runs posted callbacks, including ones they post, without moving time.
func (m *Manual) Drain() {
	for {
		m.mu.Lock()
		if len(m.posted) == 0 {
			m.mu.Unlock()
			return
		}
		fn := m.posted[0]
		m.posted = m.posted[1:]
		m.mu.Unlock()

		fn()
	}
}

// Advance moves virtual time forward by d, running every task that falls due
// in order. Posted callbacks are drained before each task runs.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.Drain()

		m.mu.Lock()
		t := m.nextDue(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			break
		}
		m.now = t.next
		t.next = t.next.Add(t.interval)
		fn := t.fn
		m.mu.Unlock()

		fn()
	}

	m.Drain()
}

// Pending reports how many live periodic tasks are registered.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// nextDue returns the earliest live task due at or before target, pruning
// cancelled ones. Caller holds mu.
func (m *Manual) nextDue(target time.Time) *manualTask {
	live := m.tasks[:0]
	var best *manualTask
	for _, t := range m.tasks {
		if t.cancelled {
			continue
		}
		live = append(live, t)
		if t.next.After(target) {
			continue
		}
		if best == nil || earlier(t, best) {
			best = t
		}
	}
	m.tasks = live
	return best
}

func earlier(a, b *manualTask) bool {
	if !a.next.Equal(b.next) {
		return a.next.Before(b.next)
	}
	if a.interval != b.interval {
		return a.interval < b.interval
	}
	return a.seq < b.seq
}
