// Package store keeps lists and items for the reference server. Both
// backends answer with *remote.Error so handlers can map kinds to statuses.
package store

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/remote"
)

// MaxTitleLength bounds list and item titles.
const MaxTitleLength = 200

// Store is the server-side persistence contract. It has the same shape as
// the client's remote contract.
type Store interface {
	remote.Remote
	Health(ctx context.Context) error
}

func validateTitle(op, title string) error {
	if strings.TrimSpace(title) == "" {
		return remote.Validation(op, "Title", "Title is required.")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return remote.Validation(op, "Title", "Title must not exceed 200 characters.")
	}
	return nil
}

func validateLookups(op string, p models.Priority, c models.Color) error {
	if p < models.PriorityNone || p > models.PriorityHigh {
		return remote.Validation(op, "Priority", "Priority is not a known level.")
	}
	if c < models.ColorWhite || c > models.ColorOrange {
		return remote.Validation(op, "Color", "Color is not a known color.")
	}
	return nil
}

func unknownList(op string) error {
	return remote.Validation(op, "ListId", "List does not exist.")
}

func duplicateTitle(op string) error {
	return remote.Validation(op, "Title", "The specified title already exists.")
}
