package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg fires one interval of the timer with the given id.
type tickMsg struct{ id int }

type timer struct {
	interval time.Duration
	tick     func()
}

// scheduler runs deletion timers on the bubbletea loop. Every only records
// the timer; the tea.Tick that drives it is handed out by drain, which the
// model calls at the end of each Update.
type scheduler struct {
	next    int
	timers  map[int]*timer
	pending []tea.Cmd

	after func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
}

func newScheduler() *scheduler {
	return &scheduler{timers: map[int]*timer{}, after: tea.Tick}
}

func (s *scheduler) Every(interval time.Duration, tick func()) func() {
	id := s.next
	s.next++
	s.timers[id] = &timer{interval: interval, tick: tick}
	s.pending = append(s.pending, s.schedule(id, interval))
	return func() { delete(s.timers, id) }
}

func (s *scheduler) schedule(id int, d time.Duration) tea.Cmd {
	return s.after(d, func(time.Time) tea.Msg { return tickMsg{id: id} })
}

// fire runs one tick. A stopped timer ignores late ticks and is not
// rescheduled.
func (s *scheduler) fire(id int) {
	t, ok := s.timers[id]
	if !ok {
		return
	}
	t.tick()
	if _, ok := s.timers[id]; ok {
		s.pending = append(s.pending, s.schedule(id, t.interval))
	}
}

func (s *scheduler) active() int { return len(s.timers) }

func (s *scheduler) drain() []tea.Cmd {
	cmds := s.pending
	s.pending = nil
	return cmds
}
