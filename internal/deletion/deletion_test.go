package deletion

import (
	"testing"
	"time"

	"github.com/kutbudev/todolists/internal/models"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		item *models.TodoItem
		mode Mode
		want Action
	}{
		{"unsaved item hard", &models.TodoItem{ID: 0}, Hard, RemoveLocal},
		{"unsaved item soft", &models.TodoItem{ID: 0}, Soft, RemoveLocal},
		{"saved item hard", &models.TodoItem{ID: 4}, Hard, RemoteHard},
		{"saved item soft", &models.TodoItem{ID: 4}, Soft, RemoteSoft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.item, tt.mode); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountdownCommitsOnce(t *testing.T) {
	sched := &ManualScheduler{}
	c := NewCountdown(sched)
	commits := 0

	if _, started := c.Toggle(func() { commits++ }); !started {
		t.Fatal("Toggle() did not start a countdown")
	}
	if c.State() != Counting || c.Remaining() != 3 {
		t.Fatalf("after start: state=%v remaining=%d, want counting/3", c.State(), c.Remaining())
	}

	sched.Tick()
	sched.Tick()
	if commits != 0 || c.Remaining() != 1 {
		t.Fatalf("after 2 ticks: commits=%d remaining=%d", commits, c.Remaining())
	}

	sched.Tick()
	if commits != 1 || c.State() != Committed {
		t.Fatalf("after 3 ticks: commits=%d state=%v, want 1/committed", commits, c.State())
	}
	if sched.Active() != 0 {
		t.Errorf("scheduler still has %d active timers after commit", sched.Active())
	}

	sched.Tick()
	if commits != 1 {
		t.Errorf("commit ran %d times, want exactly once", commits)
	}
}

func TestCountdownToggleTwiceCancels(t *testing.T) {
	sched := &ManualScheduler{}
	c := NewCountdown(sched)
	commits := 0

	c.Toggle(func() { commits++ })
	sched.Tick()
	if _, started := c.Toggle(func() { commits++ }); started {
		t.Fatal("second Toggle() should cancel, not restart")
	}

	if c.State() != Idle || c.Remaining() != 0 {
		t.Errorf("after cancel: state=%v remaining=%d, want idle/0", c.State(), c.Remaining())
	}
	if sched.Active() != 0 {
		t.Errorf("scheduled callback not stopped: %d active", sched.Active())
	}
	for i := 0; i < 5; i++ {
		sched.Tick()
	}
	if commits != 0 {
		t.Errorf("commit ran %d times after cancel", commits)
	}
}

func TestCountdownStopFromAnyState(t *testing.T) {
	sched := &ManualScheduler{}
	c := NewCountdown(sched)

	c.Stop()
	if c.State() != Idle {
		t.Errorf("Stop() from idle: state=%v", c.State())
	}

	committed := false
	c.Toggle(func() { committed = true })
	c.Stop()
	sched.Tick()
	sched.Tick()
	sched.Tick()
	if committed || c.State() != Idle {
		t.Errorf("Stop() while counting: committed=%v state=%v", committed, c.State())
	}
}

func TestHandleCancelOnlyItsOwnCountdown(t *testing.T) {
	sched := &ManualScheduler{}
	c := NewCountdown(sched)

	first, _ := c.Toggle(nil)
	c.Stop()

	commits := 0
	c.Toggle(func() { commits++ })
	first.Cancel() // stale handle, must not touch the new countdown
	if c.State() != Counting {
		t.Fatalf("stale handle cancelled the running countdown: state=%v", c.State())
	}

	sched.Tick()
	sched.Tick()
	sched.Tick()
	if commits != 1 {
		t.Errorf("commits = %d, want 1", commits)
	}
}

func TestStaleTickIgnored(t *testing.T) {
	var ticks []func()
	sched := schedulerFunc(func(tick func()) func() {
		ticks = append(ticks, tick)
		return func() {} // a scheduler that cannot retract a queued tick
	})
	c := NewCountdown(sched)

	commits := 0
	h, _ := c.Toggle(func() { commits++ })
	h.Cancel()
	for i := 0; i < 3; i++ {
		ticks[0]()
	}
	if commits != 0 || c.State() != Idle {
		t.Errorf("late ticks fired the delete: commits=%d state=%v", commits, c.State())
	}
}

type schedulerFunc func(tick func()) func()

func (f schedulerFunc) Every(_ time.Duration, tick func()) func() { return f(tick) }
