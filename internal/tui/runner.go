package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/reconcile"
	"github.com/kutbudev/todolists/internal/remote"
)

// resultMsg carries a finished op back to the loop that owns the State.
type resultMsg struct{ res reconcile.Result }

// loadMsg carries a fresh snapshot, or the error that prevented one.
type loadMsg struct {
	snap *models.Snapshot
	err  error
}

// runner turns ops into commands. Calls run off the loop; their results
// come back as resultMsg.
type runner struct {
	ctx     context.Context
	remote  remote.Remote
	timeout time.Duration
	pending []tea.Cmd
}

func (r *runner) Run(op reconcile.Op) {
	r.pending = append(r.pending, func() tea.Msg {
		ctx, cancel := r.callContext()
		defer cancel()
		return resultMsg{res: op.Call(ctx, r.remote)}
	})
}

func (r *runner) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := r.callContext()
		defer cancel()
		snap, err := r.remote.LoadAll(ctx)
		return loadMsg{snap: snap, err: err}
	}
}

func (r *runner) callContext() (context.Context, context.CancelFunc) {
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

func (r *runner) drain() []tea.Cmd {
	cmds := r.pending
	r.pending = nil
	return cmds
}
