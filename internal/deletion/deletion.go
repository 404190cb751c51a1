// Package deletion decides how an item is removed and runs the
// countdown-to-delete workflow.
package deletion

import (
	"time"

	"github.com/kutbudev/todolists/internal/models"
)

// Mode selects what a confirmed delete does to a persisted item.
type Mode int

const (
	Hard Mode = iota // remove the record
	Soft             // flag the record as deleted
)

func (m Mode) String() string {
	if m == Soft {
		return "soft"
	}
	return "hard"
}

// ParseMode maps a config value to a Mode, defaulting to Hard.
func ParseMode(s string) Mode {
	if s == "soft" {
		return Soft
	}
	return Hard
}

// Action is the dispatch decision for one delete request.
type Action int

const (
	RemoveLocal Action = iota // never persisted: drop it, no remote call
	RemoteSoft
	RemoteHard
)

// Decide picks the delete path for item.
func Decide(item *models.TodoItem, mode Mode) Action {
	switch {
	case item.IsNew():
		return RemoveLocal
	case mode == Soft:
		return RemoteSoft
	default:
		return RemoteHard
	}
}

// State of a Countdown.
type State int

const (
	Idle State = iota
	Counting
	Committed
)

func (s State) String() string {
	switch s {
	case Counting:
		return "counting"
	case Committed:
		return "committed"
	default:
		return "idle"
	}
}

const (
	DefaultStart    = 3
	DefaultInterval = time.Second
)

// Scheduler runs tick every interval on the caller's event loop until the
// returned stop function is called.
type Scheduler interface {
	Every(interval time.Duration, tick func()) (stop func())
}

// Countdown is the debounce before a delete is committed. It is not safe
// for concurrent use; ticks must arrive on the same loop as the calls.
type Countdown struct {
	sched    Scheduler
	interval time.Duration
	start    int

	state     State
	remaining int
	gen       uint64
	stop      func()
	commit    func()
}

func NewCountdown(sched Scheduler) *Countdown {
	return &Countdown{sched: sched, interval: DefaultInterval, start: DefaultStart}
}

// WithInterval changes the tick interval of future countdowns.
func (c *Countdown) WithInterval(d time.Duration) *Countdown {
	c.interval = d
	return c
}

func (c *Countdown) State() State   { return c.state }
func (c *Countdown) Remaining() int { return c.remaining }

// Toggle starts a countdown that calls commit once it reaches zero. Calling
// it while a countdown is running cancels that countdown instead; the
// returned bool reports whether a countdown was started.
func (c *Countdown) Toggle(commit func()) (Handle, bool) {
	if c.state == Counting {
		c.Stop()
		return Handle{}, false
	}
	c.gen++
	gen := c.gen
	c.state = Counting
	c.remaining = c.start
	c.commit = commit
	c.stop = c.sched.Every(c.interval, func() { c.tick(gen) })
	return Handle{c: c, gen: gen}, true
}

// Stop returns to Idle without committing. Safe from any state.
func (c *Countdown) Stop() {
	c.halt()
	c.gen++
	c.state = Idle
	c.remaining = 0
}

func (c *Countdown) tick(gen uint64) {
	if gen != c.gen || c.state != Counting {
		return
	}
	c.remaining--
	if c.remaining > 0 {
		return
	}
	c.remaining = 0
	commit := c.commit
	c.halt()
	c.state = Committed
	if commit != nil {
		commit()
	}
}

func (c *Countdown) halt() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.commit = nil
}

// Handle cancels the countdown it was returned for and nothing else.
type Handle struct {
	c   *Countdown
	gen uint64
}

// Cancel stops the countdown if it is still the running one.
func (h Handle) Cancel() {
	if h.c == nil || h.c.gen != h.gen || h.c.state != Counting {
		return
	}
	h.c.Stop()
}
