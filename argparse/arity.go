package argparse

import (
	"fmt"
	"strconv"
	"strings"
)

// Arity is the number of value tokens an argument consumes after its
// identifier. Positive values are exact counts; the remaining values are
// sentinels.
type Arity int

const (
	// ArityOne consumes exactly one token. It is the default.
	ArityOne Arity = 1
	// ArityZero consumes nothing; the value is converted from "".
	ArityZero Arity = 0
	// ArityOptional consumes the following token when one is available.
	ArityOptional Arity = -1
	// ArityZeroOrMore consumes tokens until one starts with a prefix char.
	ArityZeroOrMore Arity = -2
	// ArityOneOrMore is ArityZeroOrMore with at least one token.
	ArityOneOrMore Arity = -3
)

// NewArity validates a raw arity value. Anything below ArityOneOrMore is
// rejected with an invalid_arity error.
func NewArity(n int) (Arity, error) {
	if n < int(ArityOneOrMore) {
		return 0, invalidArity(n)
	}
	return Arity(n), nil
}

// Exactly returns the arity for a fixed count of n tokens (n >= 1).
func Exactly(n int) (Arity, error) {
	if n < 1 {
		return 0, invalidArity(n)
	}
	return Arity(n), nil
}

// ParseArity accepts "?", "*", "+" and decimal counts ("0", "1", "3").
// An empty string means ArityOne.
func ParseArity(s string) (Arity, error) {
	switch strings.TrimSpace(s) {
	case "":
		return ArityOne, nil
	case "?":
		return ArityOptional, nil
	case "*":
		return ArityZeroOrMore, nil
	case "+":
		return ArityOneOrMore, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, &ParseError{
			Type:    ErrorTypeInvalidArity,
			Message: fmt.Sprintf("invalid arity %q", s),
			Cause:   err,
		}
	}
	return Arity(n), nil
}

// Valid reports whether a is a count or one of the sentinels.
func (a Arity) Valid() bool { return a >= ArityOneOrMore }

// Multi reports whether values under this arity are collected into a slice.
func (a Arity) Multi() bool {
	return a == ArityZeroOrMore || a == ArityOneOrMore || a > ArityOne
}

// String renders the arity in the form ParseArity accepts.
func (a Arity) String() string {
	switch a {
	case ArityOptional:
		return "?"
	case ArityZeroOrMore:
		return "*"
	case ArityOneOrMore:
		return "+"
	default:
		return strconv.Itoa(int(a))
	}
}

func invalidArity(n int) *ParseError {
	return &ParseError{
		Type:    ErrorTypeInvalidArity,
		Message: fmt.Sprintf("invalid arity %d", n),
	}
}
