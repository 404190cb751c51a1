// Package filter computes which items are visible under the current tag
// selection and search term.
package filter

import (
	"strings"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/tags"
)

// Criteria is the active filter. Search is expected lower-cased.
type Criteria struct {
	Tag    string
	Search string
}

// NewCriteria normalizes a tag and a raw search term.
func NewCriteria(tag, search string) Criteria {
	return Criteria{Tag: tags.Clean(tag), Search: strings.ToLower(search)}
}

// Active reports whether any filter is set.
func (c Criteria) Active() bool {
	return strings.TrimSpace(c.Tag) != "" || c.Search != ""
}

// Matches reports whether item is visible under c. Deleted items never are.
func Matches(item *models.TodoItem, c Criteria) bool {
	if item.IsDeleted {
		return false
	}
	if c.Tag != "" && !tags.Has(item.Tags, c.Tag) {
		return false
	}
	if c.Search != "" && !strings.Contains(strings.ToLower(item.Title), c.Search) {
		return false
	}
	return true
}

// Apply returns the visibility of each item, aligned with items.
func Apply(items []*models.TodoItem, c Criteria) []bool {
	out := make([]bool, len(items))
	for i, it := range items {
		out[i] = Matches(it, c)
	}
	return out
}

// AllVisible marks every item visible regardless of filters. A load with no
// active filter uses it; loaded items never carry the deleted flag.
func AllVisible(items []*models.TodoItem) []bool {
	out := make([]bool, len(items))
	for i := range out {
		out[i] = true
	}
	return out
}
