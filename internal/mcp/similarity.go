package mcp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kutbudev/todolists/internal/models"
)

// SimilarityThreshold is the minimum score at which an existing item counts
// as a likely duplicate of a new title.
const SimilarityThreshold = 0.6

// SimilarItem is an existing item that resembles a new title.
type SimilarItem struct {
	ItemID     int     `json:"item_id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

var nonWord = regexp.MustCompile(`[^a-z0-9\s]`)

// tokenize splits text into lowercase words, removing punctuation
func tokenize(text string) map[string]struct{} {
	text = nonWord.ReplaceAllString(strings.ToLower(text), " ")

	words := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		if len(w) > 1 {
			words[w] = struct{}{}
		}
	}
	return words
}

// JaccardSimilarity returns the word overlap of a and b, from 0 (none) to 1
// (same words).
func JaccardSimilarity(a, b string) float64 {
	setA := tokenize(a)
	setB := tokenize(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// SimilarItems returns the live items whose title scores at least threshold
// against title, best match first.
func SimilarItems(items []*models.TodoItem, title string, threshold float64) []SimilarItem {
	var similar []SimilarItem
	for _, it := range items {
		if it.IsDeleted {
			continue
		}
		score := JaccardSimilarity(title, it.Title)
		if score >= threshold {
			similar = append(similar, SimilarItem{ItemID: it.ID, Title: it.Title, Similarity: score})
		}
	}
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})
	return similar
}

// normalizeForMatch removes spaces, hyphens, underscores and dots.
// "Home Chores" and "home-chores" both become "homechores".
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	for _, r := range []string{" ", "-", "_", "."} {
		s = strings.ReplaceAll(s, r, "")
	}
	return s
}

type listMatch struct {
	List       *models.TodoList
	Confidence float64 // 0.0-1.0
	MatchType  string  // "normalized", "contains", "prefix"
}

// fuzzyMatchLists finds lists whose title loosely matches input, best first.
// Inputs shorter than 3 characters match nothing.
func fuzzyMatchLists(lists []*models.TodoList, input string) []listMatch {
	inputNorm := normalizeForMatch(strings.TrimSpace(input))
	if len(inputNorm) < 3 {
		return nil
	}

	var matches []listMatch
	for _, l := range lists {
		titleNorm := normalizeForMatch(l.Title)
		if titleNorm == "" {
			continue
		}

		switch {
		case inputNorm == titleNorm:
			matches = append(matches, listMatch{List: l, Confidence: 0.95, MatchType: "normalized"})
		case strings.HasPrefix(titleNorm, inputNorm) || strings.HasPrefix(inputNorm, titleNorm):
			matches = append(matches, listMatch{List: l, Confidence: 0.60 + coverage(inputNorm, titleNorm)*0.25, MatchType: "prefix"})
		case strings.Contains(titleNorm, inputNorm) || strings.Contains(inputNorm, titleNorm):
			matches = append(matches, listMatch{List: l, Confidence: 0.50 + coverage(inputNorm, titleNorm)*0.20, MatchType: "contains"})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

func coverage(a, b string) float64 {
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	return float64(shorter) / float64(longer)
}
