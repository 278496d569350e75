package registry

import (
	"sort"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// suggestionCutoff is the lowest similarity ClosestKeys reports.
const suggestionCutoff = 0.6

// ClosestKeys returns up to n lookup strings most similar to word, best
// first. Similarity is 1 - distance/longer-length over runes, and keys below
// 0.6 are dropped.
func (c *Converter) ClosestKeys(word string, n int) []string {
	if n <= 0 {
		return nil
	}

	type candidate struct {
		key   string
		score float64
	}
	var found []candidate
	for _, key := range c.Keys() {
		if s := similarity(word, key); s >= suggestionCutoff {
			found = append(found, candidate{key, s})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].score > found[j].score
	})

	if len(found) > n {
		found = found[:n]
	}
	keys := make([]string, len(found))
	for i, f := range found {
		keys[i] = f.key
	}
	return keys
}

func similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
