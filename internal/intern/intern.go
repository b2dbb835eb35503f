// Package intern caches normalized identifiers for go-argparse.
// The match engine normalizes every token and every argument identifier on
// each comparison; a Normalizer memoizes the stripped, case-folded form and
// hands back one canonical string per distinct input.
package intern

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Normalizer strips leading prefix characters and optionally lower-cases.
// It is safe for concurrent use.
type Normalizer struct {
	prefixChars string
	foldCase    bool

	strings map[string]string
	mutex   sync.RWMutex
	limit   int
}

// DefaultLimit bounds the cache so arbitrary user input cannot grow it
// without limit. Past the limit values are computed but not stored.
const DefaultLimit = 4096

// NewNormalizer creates a normalizer for the given prefix characters.
func NewNormalizer(prefixChars string, foldCase bool) *Normalizer {
	return &Normalizer{
		prefixChars: prefixChars,
		foldCase:    foldCase,
		strings:     make(map[string]string, 64),
		limit:       DefaultLimit,
	}
}

// Normalize returns s without leading prefix characters, lower-cased when
// case folding is enabled. Prefixes are stripped before folding.
func (n *Normalizer) Normalize(s string) string {
	// Fast path: read lock for the common case
	n.mutex.RLock()
	if v, ok := n.strings[s]; ok {
		n.mutex.RUnlock()
		return v
	}
	n.mutex.RUnlock()

	v := n.compute(s)

	n.mutex.Lock()
	defer n.mutex.Unlock()
	// Double-check after acquiring write lock
	if existing, ok := n.strings[s]; ok {
		return existing
	}
	if len(n.strings) < n.limit {
		n.strings[s] = v
	}
	return v
}

func (n *Normalizer) compute(s string) string {
	s = strings.TrimLeft(s, n.prefixChars)
	if n.foldCase {
		s = strings.ToLower(s)
	}
	return s
}

// Equal reports whether a and b normalize to the same identifier.
func (n *Normalizer) Equal(a, b string) bool {
	return n.Normalize(a) == n.Normalize(b)
}

// HasPrefix reports whether s starts with one of the prefix characters.
func (n *Normalizer) HasPrefix(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError && size == 1 {
		return false
	}
	return strings.ContainsRune(n.prefixChars, r)
}

// Strip removes leading prefix characters without folding case.
func (n *Normalizer) Strip(s string) string {
	return strings.TrimLeft(s, n.prefixChars)
}

// PrefixChars returns the configured prefix characters.
func (n *Normalizer) PrefixChars() string { return n.prefixChars }

// FoldCase reports whether comparisons ignore case.
func (n *Normalizer) FoldCase() bool { return n.foldCase }

// Preload normalizes and stores ids ahead of parsing.
func (n *Normalizer) Preload(ids []string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	for _, id := range ids {
		if len(n.strings) >= n.limit {
			return
		}
		n.strings[id] = n.compute(id)
	}
}

// Stats returns the number of cached entries.
func (n *Normalizer) Stats() int {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return len(n.strings)
}

// Clear drops every cached entry.
func (n *Normalizer) Clear() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	clear(n.strings)
}
