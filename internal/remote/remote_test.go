package remote

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"typed not found", Missing("delete item", "TodoItem", 4), NotFound},
		{"wrapped validation", fmt.Errorf("create list: %w", Validation("create list", "Title", "Title is required.")), ValidationFailed},
		{"sentinel not found", fmt.Errorf("x: %w", ErrNotFound), NotFound},
		{"plain error", errors.New("connection refused"), TransientNetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorIsSentinels(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Missing("soft delete item", "TodoItem", 9))
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is(err, ErrNotFound)")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("not found error should not match ErrValidation")
	}

	transient := &Error{Kind: TransientNetworkFailure, Op: "load", Err: errors.New("timeout")}
	if !errors.Is(transient, ErrTransient) {
		t.Error("expected errors.Is(transient, ErrTransient)")
	}
	if got, want := transient.Error(), "load: timeout"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
