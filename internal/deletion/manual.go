package deletion

import "time"

// ManualScheduler fires ticks only when Tick is called. It lets callers
// that own their clock, tests included, drive a Countdown step by step.
type ManualScheduler struct {
	next   int
	timers map[int]func()
	order  []int
}

func (m *ManualScheduler) Every(_ time.Duration, tick func()) func() {
	if m.timers == nil {
		m.timers = map[int]func(){}
	}
	id := m.next
	m.next++
	m.timers[id] = tick
	m.order = append(m.order, id)
	return func() { delete(m.timers, id) }
}

// Tick advances every active timer by one interval.
func (m *ManualScheduler) Tick() {
	ids := append([]int(nil), m.order...)
	m.order = m.order[:0]
	for _, id := range ids {
		if _, ok := m.timers[id]; ok {
			m.order = append(m.order, id)
		}
	}
	for _, id := range ids {
		if tick, ok := m.timers[id]; ok {
			tick()
		}
	}
}

// Active returns the number of timers not yet stopped.
func (m *ManualScheduler) Active() int {
	return len(m.timers)
}
