//nolint:testpackage // using package name 'fuzzy' to access unexported fields for testing
package fuzzy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatcher_FindBest(t *testing.T) {
	matcher := NewMatcher(2)

	tests := []struct {
		name       string
		input      string
		candidates []string
		expected   string
	}{
		{name: "exact match excluded", input: "help", candidates: []string{"help", "version"}, expected: ""},
		{name: "simple typo", input: "hep", candidates: []string{"help", "version", "verbose"}, expected: "help"},
		{name: "tie keeps candidate order", input: "port", candidates: []string{"host", "post", "part"}, expected: "post"},
		{name: "no good match", input: "xyz", candidates: []string{"help", "version"}, expected: ""},
		{name: "too short", input: "x", candidates: []string{"help", "version"}, expected: ""},
		{name: "case insensitive", input: "HEP", candidates: []string{"help", "version"}, expected: "help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matcher.FindBest(tt.input, tt.candidates); got != tt.expected {
				t.Errorf("FindBest(%q, %v) = %q, want %q", tt.input, tt.candidates, got, tt.expected)
			}
		})
	}
}

func TestMatcher_IgnorePrefix(t *testing.T) {
	matcher := NewMatcher(2).IgnorePrefix("-/")

	if got := matcher.FindBest("--verbos", []string{"--verbose", "--version", "-q"}); got != "--verbose" {
		t.Errorf("FindBest = %q, want --verbose", got)
	}
	// "/count" and "--count" are the same identifier once prefixes are removed
	if got := matcher.FindBest("/count", []string{"--count"}); got != "" {
		t.Errorf("FindBest = %q, want no suggestion for an exact match", got)
	}
}

func TestMatcher_FindMatchesSorted(t *testing.T) {
	matcher := NewMatcher(2)
	matches := matcher.FindMatches("hep", []string{"help", "heap", "deep", "help", "version"})

	if len(matches) < 2 {
		t.Fatalf("expected at least 2 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score < matches[i].Score {
			t.Errorf("matches not sorted by score: %v", matches)
		}
	}
	seen := map[string]int{}
	for _, m := range matches {
		seen[m.Value]++
		if m.Distance > 2 {
			t.Errorf("match %q has distance %d beyond max", m.Value, m.Distance)
		}
		if m.Score < 0 || m.Score > 1 {
			t.Errorf("match %q has score %f outside [0,1]", m.Value, m.Score)
		}
	}
	if seen["help"] != 1 {
		t.Errorf("duplicate candidates should be reported once, got %d", seen["help"])
	}
}

func TestMatcher_Distance(t *testing.T) {
	matcher := NewMatcher(10)

	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abcd", 1},
		{"abc", "axc", 1},
		{"help", "hep", 1},
		{"version", "ver", 4},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := matcher.distance(tt.a, tt.b); got != tt.expected {
				t.Errorf("distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestMatcher_EarlyTermination(t *testing.T) {
	matcher := NewMatcher(2)
	if got := matcher.distance("short", "verylongstring"); got <= matcher.maxDistance {
		t.Errorf("expected early termination beyond %d, got %d", matcher.maxDistance, got)
	}
}

func TestSuggest(t *testing.T) {
	ids := []string{"--verbose", "--version", "--count", "-c", "--config"}

	got := Suggest("--conut", ids, "-", 2, 3)
	if diff := cmp.Diff([]string{"--count"}, got); diff != "" {
		t.Errorf("Suggest mismatch (-want +got):\n%s", diff)
	}

	got = Suggest("--verison", ids, "-", 2, 1)
	if len(got) != 1 {
		t.Errorf("Suggest limit=1 returned %v", got)
	}

	if got := Suggest("zzzzzz", ids, "-", 2, 3); len(got) != 0 {
		t.Errorf("Suggest should find nothing, got %v", got)
	}
}
