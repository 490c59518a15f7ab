package turn

import (
	"sort"
	"time"
)

// Manual is a virtual clock. Callbacks only run from Advance, on the caller's
// goroutine, which makes interval driven code deterministic in tests.
type Manual struct {
	now    time.Duration
	nextID int
	timers []*manualTimer
}

type manualTimer struct {
	id       int
	interval time.Duration
	due      time.Duration
	fn       func()
	stopped  bool
}

func NewManual() *Manual {
	return &Manual{}
}

// Every schedules fn every d of virtual time.
func (m *Manual) Every(d time.Duration, fn func()) (cancel func()) {
	if d <= 0 {
		panic("turn: non-positive interval")
	}
	m.nextID++
	t := &manualTimer{
		id:       m.nextID,
		interval: d,
		due:      m.now + d,
		fn:       fn,
	}
	m.timers = append(m.timers, t)
	return func() {
		t.stopped = true
		m.prune()
	}
}

func (m *Manual) prune() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.timers); i++ {
		m.timers[i] = nil
	}
	m.timers = live
}

// Advance moves virtual time forward, firing due callbacks in due order.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.due
		next.due += next.interval
		next.fn()
	}
	m.now = target
}

func (m *Manual) nextDue(limit time.Duration) *manualTimer {
	candidates := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.stopped && t.due <= limit {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].due == candidates[j].due {
			return candidates[i].id < candidates[j].id
		}
		return candidates[i].due < candidates[j].due
	})
	return candidates[0]
}

func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending is the number of live timers.
func (m *Manual) Pending() int {
	return len(m.timers)
}
