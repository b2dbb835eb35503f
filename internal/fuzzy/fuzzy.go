// Package fuzzy ranks candidate identifiers by edit distance.
// Used by argparse/errors.go to attach "did you mean" hints to unexpected tokens.
package fuzzy

import (
	"cmp"
	"slices"
	"strings"
)

// Matcher scores candidates against an input with a bounded edit distance
type Matcher struct {
	maxDistance int
	minLength   int
	prefixChars string
}

// NewMatcher creates a matcher accepting candidates within maxDistance edits
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{maxDistance: maxDistance, minLength: 2}
}

// IgnorePrefix makes the matcher compare identifiers with any leading
// characters from chars removed, so "--verbos" is compared as "verbos".
func (m *Matcher) IgnorePrefix(chars string) *Matcher {
	m.prefixChars = chars
	return m
}

// Match is a scored candidate
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindBest returns the best candidate, or "" when nothing is close enough
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns every candidate within range, best first.
// Exact matches are skipped since they are not typos.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	needle := m.normalize(input)
	if len(needle) < m.minLength {
		return nil
	}

	var matches []Match
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		if seen[candidate] {
			continue
		}
		seen[candidate] = true

		hay := m.normalize(candidate)
		if hay == needle || hay == "" {
			continue
		}
		d := m.distance(needle, hay)
		if d > m.maxDistance {
			continue
		}
		matches = append(matches, Match{Value: candidate, Distance: d, Score: m.score(needle, hay, d)})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if a.Score != b.Score {
			return cmp.Compare(b.Score, a.Score)
		}
		return cmp.Compare(a.Distance, b.Distance)
	})
	return matches
}

func (m *Matcher) normalize(s string) string {
	if m.prefixChars != "" {
		s = strings.TrimLeft(s, m.prefixChars)
	}
	return strings.ToLower(s)
}

// score blends edit distance with prefix and length similarity.
func (m *Matcher) score(a, b string, d int) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}
	s := 1.0 - float64(d)/float64(longest)
	if p := commonPrefix(a, b); p > 0 {
		s += float64(p) / float64(min(len(a), len(b))) * 0.3
	}
	s += (1.0 - float64(abs(len(a)-len(b)))/float64(longest)) * 0.2
	return min(s, 1.0)
}

// distance is Levenshtein over bytes with two rows and early exit once every
// cell in a row exceeds maxDistance.
func (m *Matcher) distance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if abs(len(a)-len(b)) > m.maxDistance {
		return m.maxDistance + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}
	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			cur[j] = min(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Suggest returns up to limit identifiers close to input, comparing without
// the leading prefix characters.
func Suggest(input string, candidates []string, prefixChars string, maxDistance, limit int) []string {
	matches := NewMatcher(maxDistance).IgnorePrefix(prefixChars).FindMatches(input, candidates)
	out := make([]string, 0, min(len(matches), limit))
	for _, match := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, match.Value)
	}
	return out
}
