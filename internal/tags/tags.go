// Package tags derives the tag universe and the top tags from the
// comma-separated tag field of items.
package tags

import (
	"sort"
	"strings"

	"github.com/kutbudev/todolists/internal/models"
)

// TopN is the number of tags ranked in Index.Top.
const TopN = 3

// Options tune which items contribute to the index.
type Options struct {
	// IncludeDeleted counts tags of soft-deleted items too.
	IncludeDeleted bool
}

// DefaultOptions collects tags over every held item, deleted or not.
func DefaultOptions() Options {
	return Options{IncludeDeleted: true}
}

// Index is a snapshot of the tags across a set of items.
type Index struct {
	All    []string // distinct tags, first-seen order
	Top    []string // at most TopN tags, count desc then first-seen
	Counts map[string]int
}

// Normalize splits a raw tag field on commas, trims and lower-cases every
// token and drops the empty ones. Duplicates inside one field are kept.
func Normalize(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Clean returns the tag normalized the same way as the tokens of a field.
func Clean(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Has reports whether the raw tag field contains tag, case-insensitively.
func Has(raw, tag string) bool {
	want := Clean(tag)
	if want == "" {
		return false
	}
	for _, t := range Normalize(raw) {
		if t == want {
			return true
		}
	}
	return false
}

// Build counts tags across items and ranks the top ones.
func Build(items []*models.TodoItem, opts Options) Index {
	idx := Index{Counts: map[string]int{}}
	for _, it := range items {
		if it == nil || (it.IsDeleted && !opts.IncludeDeleted) {
			continue
		}
		for _, tag := range Normalize(it.Tags) {
			if idx.Counts[tag] == 0 {
				idx.All = append(idx.All, tag)
			}
			idx.Counts[tag]++
		}
	}

	ranked := append([]string(nil), idx.All...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return idx.Counts[ranked[i]] > idx.Counts[ranked[j]]
	})
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	idx.Top = ranked
	return idx
}

// Contains reports whether tag is part of the index.
func (idx Index) Contains(tag string) bool {
	return idx.Counts[Clean(tag)] > 0
}
