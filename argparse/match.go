package argparse

import (
	"fmt"
	"slices"
	"strings"
)

// match is the outcome of one successful attempt at a cursor.
type match struct {
	next  int      // index of the first token not consumed
	raw   []string // tokens[cursor:next]
	value any
}

// tryMatch attempts a at tokens[cursor]. ok is false when a does not apply
// to the token; err is set when it applies but cannot consume or convert
// its values.
func (p *Parser) tryMatch(a *Arg, tokens []string, cursor int) (match, bool, error) {
	tok := tokens[cursor]
	prefixed := p.norm().HasPrefix(tok)

	if p.IsPositional(a) {
		if prefixed {
			return match{}, false, nil
		}
		return p.consume(a, tokens, cursor, cursor, nil)
	}

	if !prefixed {
		return match{}, false, nil
	}
	if p.identifies(a, tok) {
		return p.consume(a, tokens, cursor, cursor+1, nil)
	}
	if p.attachedValues {
		if i := strings.IndexByte(tok, '='); i > 0 && p.identifies(a, tok[:i]) {
			return p.consume(a, tokens, cursor, cursor+1, []string{tok[i+1:]})
		}
	}
	return match{}, false, nil
}

// identifies compares token with the identifiers of a in normalized form.
func (p *Parser) identifies(a *Arg, token string) bool {
	n := p.norm()
	want := n.Normalize(token)
	if n.Normalize(a.name) == want {
		return true
	}
	for _, id := range a.aliases {
		if n.Normalize(id) == want {
			return true
		}
	}
	return false
}

// consume applies the arity of a to the tokens from start on. lead holds
// an attached value, which is consumed before any token.
func (p *Parser) consume(a *Arg, tokens []string, cursor, start int, lead []string) (match, bool, error) {
	vals := tokens[start:]
	if len(lead) > 0 {
		vals = append(slices.Clone(lead), vals...)
	}

	var (
		n     int
		value any
		err   error
	)
	switch ar := a.arity; {
	case ar == ArityZero:
		tok := ""
		if len(lead) > 0 {
			tok = lead[0]
			n = 1
		}
		value, err = a.resolve(tok)
		if start == cursor {
			// A positional switch still consumes the token that selected it.
			start++
		}

	case ar == ArityOptional:
		if len(vals) > 0 && (len(lead) > 0 || !p.norm().HasPrefix(vals[0])) {
			n = 1
			value, err = a.resolve(vals[0])
		} else {
			value = a.absent()
		}

	case ar == ArityZeroOrMore || ar == ArityOneOrMore:
		for n < len(vals) && (n < len(lead) || !p.norm().HasPrefix(vals[n])) {
			n++
		}
		if ar == ArityOneOrMore && n == 0 {
			return match{}, true, insufficientTokens(a, "at least one argument")
		}
		value, err = a.resolveAll(vals[:n])

	case ar == ArityOne:
		if len(vals) == 0 {
			return match{}, true, insufficientTokens(a, "one argument")
		}
		n = 1
		value, err = a.resolve(vals[0])

	default:
		if len(vals) < int(ar) {
			return match{}, true, insufficientTokens(a, fmt.Sprintf("%d arguments", int(ar)))
		}
		n = int(ar)
		value, err = a.resolveAll(vals[:n])
	}
	if err != nil {
		return match{}, true, err
	}

	next := start + n - len(lead)
	return match{
		next:  next,
		raw:   slices.Clone(tokens[cursor:next]),
		value: value,
	}, true, nil
}
