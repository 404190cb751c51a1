package todo

import (
	"context"
	"errors"
	"time"

	"github.com/kutbudev/todolists/internal/reconcile"
	"github.com/kutbudev/todolists/internal/remote"
)

var errNoRunner = errors.New("no runner configured")

// SyncRunner performs each op inline and completes it before Run returns.
// It suits one-shot commands where nothing else happens while a call is
// in flight.
type SyncRunner struct {
	Remote  remote.Remote
	Timeout time.Duration

	state *State
}

func (r *SyncRunner) Run(op reconcile.Op) {
	ctx := context.Background()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	res := op.Call(ctx, r.Remote)
	r.state.Complete(res)
}

// NewSync returns a State wired to rem through a SyncRunner.
func NewSync(rem remote.Remote, timeout time.Duration, opts Options) *State {
	r := &SyncRunner{Remote: rem, Timeout: timeout}
	s := New(r, opts)
	r.state = s
	return s
}

// Reload fetches everything from rem and loads it into s.
func Reload(ctx context.Context, s *State, rem remote.Remote) error {
	snap, err := rem.LoadAll(ctx)
	if err != nil {
		s.lastErr = err
		return err
	}
	s.Load(snap)
	return nil
}
