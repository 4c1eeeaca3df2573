// Package suggest ranks schema field names by similarity to a mistyped
// mapping path, for "did you mean" hints.
package suggest

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// DefaultThreshold is the minimum similarity for a candidate to be offered.
const DefaultThreshold = 0.6

// Candidate is a scored field name.
type Candidate struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name and returns those at or above
// threshold, best first. Ties keep the original candidate order.
func Rank(name string, candidates []string, threshold float64) []Candidate {
	norm := Normalize(name)

	ranked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		score := Similarity(norm, Normalize(c))
		if score >= threshold {
			ranked = append(ranked, Candidate{Name: c, Score: score})
		}
	}

	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return ranked
}

// Closest returns at most limit candidate names similar to name.
func Closest(name string, candidates []string, limit int) []string {
	ranked := Rank(name, candidates, DefaultThreshold)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	names := make([]string, len(ranked))
	for i, c := range ranked {
		names[i] = c.Name
	}

	return names
}

// Normalize case-folds an identifier and drops separators, so that
// "publishedAt", "published_at" and "Published-At" compare equal.
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Similarity is 1 - distance/maxLen over runes, in [0, 1].
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(a, b))/float64(longest)
}

// Distance is the Levenshtein edit distance between a and b, counted in runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	// one row of the DP matrix, indexed by position in the shorter string
	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(ra); i++ {
			up := row[i]

			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			row[i] = min(row[i]+1, row[i-1]+1, diag+cost)
			diag = up
		}
	}

	return row[len(ra)]
}
