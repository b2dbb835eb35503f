package argparse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dzonerzy/go-argparse/internal/intern"
	argio "github.com/dzonerzy/go-argparse/io"
)

// DefaultPrefixChars marks optional arguments unless changed with PrefixChars.
const DefaultPrefixChars = "-"

// ConflictPolicy decides what Add does when identifiers collide.
type ConflictPolicy int

const (
	// ConflictError rejects the new argument with conflicting_identifier.
	ConflictError ConflictPolicy = iota
	// ConflictReplace removes every conflicting argument, then appends the new one.
	ConflictReplace
)

// Parser holds argument definitions in priority order and the settings
// that drive matching. Configure it fully before parsing; a configured
// parser can be shared by concurrent Parse calls.
type Parser struct {
	program     string
	description string
	epilog      string
	usage       string

	args []*Arg

	prefixChars    string
	fromFilePrefix string
	ignoreCase     bool
	allowExtras    bool
	addHelp        bool
	attachedValues bool
	conflict       ConflictPolicy
	normalizer     *intern.Normalizer
	formatter      Formatter
	io             *argio.IOManager
	logger         *argio.Logger
	exiter         Exiter
	errorHandler   *ErrorHandler
	exitCodes      *ExitCodeManager
}

// New creates a parser for program. Defaults: prefix chars "-", case
// insensitive matching, extras allowed, automatic -h/--help, and an error
// on conflicting identifiers.
func New(program, description string) *Parser {
	p := &Parser{
		program:      program,
		description:  description,
		prefixChars:  DefaultPrefixChars,
		ignoreCase:   true,
		allowExtras:  true,
		addHelp:      true,
		conflict:     ConflictError,
		io:           argio.New(),
		errorHandler: NewErrorHandler(),
		exitCodes:    newExitCodeManager(),
	}
	p.resetNormalizer()
	return p
}

func (p *Parser) resetNormalizer() {
	p.normalizer = intern.NewNormalizer(p.prefixChars, p.ignoreCase)
	for _, a := range p.args {
		p.normalizer.Preload(a.Identifiers())
	}
}

func (p *Parser) norm() *intern.Normalizer { return p.normalizer }

// Program returns the program name used in usage text.
func (p *Parser) Program() string { return p.program }

// Description sets the text shown after the usage line in help.
func (p *Parser) Description(text string) *Parser { p.description = text; return p }

// Epilog sets the text shown at the end of help.
func (p *Parser) Epilog(text string) *Parser { p.epilog = text; return p }

// Usage replaces the generated usage line.
func (p *Parser) Usage(text string) *Parser { p.usage = text; return p }

// PrefixChars sets the characters that mark optional arguments. An empty
// string is ignored.
func (p *Parser) PrefixChars(chars string) *Parser {
	if chars != "" {
		p.prefixChars = chars
		p.resetNormalizer()
	}
	return p
}

// FromFilePrefixChars enables argument files: a token starting with one of
// chars is replaced by the whitespace-separated tokens of the named file.
func (p *Parser) FromFilePrefixChars(chars string) *Parser { p.fromFilePrefix = chars; return p }

// IgnoreCase toggles case-insensitive identifier matching.
func (p *Parser) IgnoreCase(enabled bool) *Parser {
	p.ignoreCase = enabled
	p.resetNormalizer()
	return p
}

// AllowExtras controls whether ParseArgs accepts unmatched tokens.
func (p *Parser) AllowExtras(enabled bool) *Parser { p.allowExtras = enabled; return p }

// AddHelp toggles the automatic help argument.
func (p *Parser) AddHelp(enabled bool) *Parser { p.addHelp = enabled; return p }

// AttachedValues lets optional arguments take a value in the same token
// ("--count=3").
func (p *Parser) AttachedValues(enabled bool) *Parser { p.attachedValues = enabled; return p }

// OnConflict sets the identifier conflict policy.
func (p *Parser) OnConflict(policy ConflictPolicy) *Parser { p.conflict = policy; return p }

// Formatter replaces the help and usage renderer.
func (p *Parser) Formatter(f Formatter) *Parser { p.formatter = f; return p }

// IO sets the streams used for help and error output.
func (p *Parser) IO(m *argio.IOManager) *Parser { p.io = m; return p }

// IOManager returns the configured IO manager.
func (p *Parser) IOManager() *argio.IOManager { return p.io }

// Logger attaches a logger that traces registration and matching at debug level.
func (p *Parser) Logger(l *argio.Logger) *Parser { p.logger = l; return p }

// Exiter sets the collaborator asked to terminate after help or, from
// ParseOrExit, after an error.
func (p *Parser) Exiter(e Exiter) *Parser { p.exiter = e; return p }

// ErrorHandler returns the handler used to decorate parse errors.
func (p *Parser) ErrorHandler() *ErrorHandler { return p.errorHandler }

// ExitCodes returns the exit-code manager used by ParseOrExit.
func (p *Parser) ExitCodes() *ExitCodeManager { return p.exitCodes }

// Args returns the registered arguments in priority order.
func (p *Parser) Args() []*Arg { return slices.Clone(p.args) }

// Len returns the number of registered arguments.
func (p *Parser) Len() int { return len(p.args) }

// IsPositional reports whether a is matched by position rather than by
// identifier under this parser's prefix chars.
func (p *Parser) IsPositional(a *Arg) bool { return !p.norm().HasPrefix(a.name) }

// KeyOf returns the result key for a: its explicit key, or its name
// without leading prefix chars.
func (p *Parser) KeyOf(a *Arg) string {
	if a.key != "" {
		return a.key
	}
	return p.norm().Strip(a.name)
}

// Add registers arguments in order. Each one is validated, checked for
// identifier conflicts and sealed. Add stops at the first error; arguments
// before it stay registered.
func (p *Parser) Add(args ...Argument) error {
	for _, item := range args {
		if item == nil {
			return definitionError("", "nil argument")
		}
		a := item.Arg()
		if a.sealed {
			return definitionError(a.name, "argument %s is already registered", a.name)
		}
		if err := a.validate(p.prefixChars); err != nil {
			return err
		}
		if err := p.resolveConflicts(a); err != nil {
			return err
		}
		a.sealed = true
		p.args = append(p.args, a)
		p.normalizer.Preload(a.Identifiers())
		p.logger.Debug("registered %s (key %s, arity %s)", a.name, p.KeyOf(a), a.arity)
	}
	return nil
}

// MustAdd is Add that panics on error, for static definitions.
func (p *Parser) MustAdd(args ...Argument) *Parser {
	if err := p.Add(args...); err != nil {
		panic(err)
	}
	return p
}

// Remove unregisters the argument with the given name.
func (p *Parser) Remove(name string) bool {
	n := len(p.args)
	p.args = slices.DeleteFunc(p.args, func(a *Arg) bool { return a.name == name })
	return len(p.args) != n
}

func (p *Parser) sameIdentifier(x, y string) bool {
	if p.ignoreCase {
		return strings.EqualFold(x, y)
	}
	return x == y
}

// claimedBy returns the registered argument owning id, or nil.
func (p *Parser) claimedBy(id string) *Arg {
	for _, other := range p.args {
		for _, oid := range other.Identifiers() {
			if p.sameIdentifier(id, oid) {
				return other
			}
		}
	}
	return nil
}

func (p *Parser) resolveConflicts(a *Arg) error {
	var conflicts []*Arg
	for _, id := range a.Identifiers() {
		other := p.claimedBy(id)
		if other == nil || slices.Contains(conflicts, other) {
			continue
		}
		if p.conflict == ConflictError {
			return &ParseError{
				Type:     ErrorTypeConflictingIdentifier,
				Message:  fmt.Sprintf("argument %s: conflicting identifier %q (already used by %s)", a.name, id, other.name),
				Argument: a.name,
				Token:    id,
			}
		}
		conflicts = append(conflicts, other)
	}
	if len(conflicts) > 0 {
		p.args = slices.DeleteFunc(p.args, func(x *Arg) bool { return slices.Contains(conflicts, x) })
		for _, c := range conflicts {
			p.logger.Debug("replaced %s with %s", c.name, a.name)
		}
	}
	return nil
}

// optionalIdentifiers lists every identifier of registered optional
// arguments plus the help identifiers.
func (p *Parser) optionalIdentifiers() []string {
	var ids []string
	if h := p.helpArg(); h != nil {
		ids = append(ids, h.Identifiers()...)
	}
	for _, a := range p.args {
		if !p.IsPositional(a) {
			ids = append(ids, a.Identifiers()...)
		}
	}
	return ids
}

// helpArg builds the automatic help argument. Identifiers already claimed
// by a registered argument are left out; if the long form is claimed there
// is no help argument at all.
func (p *Parser) helpArg() *Arg {
	if !p.addHelp {
		return nil
	}
	pc := leadPrefix(p.prefixChars)
	long, short := pc+pc+"help", pc+"h"
	if p.claimedBy(long) != nil {
		return nil
	}
	b := Bool(long).Constant(true).Key("help").Help("show this help message and exit")
	if p.claimedBy(short) == nil {
		b.Alias(short)
	}
	return b.Arg()
}

// leadPrefix returns the first character of chars, which may span several
// bytes.
func leadPrefix(chars string) string {
	_, size := utf8.DecodeRuneInString(chars)
	return chars[:size]
}

// cleanTokens drops empty and whitespace-only tokens.
func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

func (p *Parser) expandFiles(tokens []string) ([]string, error) {
	if p.fromFilePrefix == "" {
		return tokens, nil
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		r, size := utf8.DecodeRuneInString(t)
		if r == utf8.RuneError || !strings.ContainsRune(p.fromFilePrefix, r) {
			out = append(out, t)
			continue
		}
		path := t[size:]
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading arguments from %s: %w", path, err)
		}
		out = append(out, strings.Fields(string(data))...)
	}
	return out, nil
}

// ParseKnown matches tokens against the registered arguments and returns
// the result with unmatched tokens as extras. It does not act on help,
// check required arguments or reject extras.
func (p *Parser) ParseKnown(tokens []string) (*Result, error) {
	res, _, err := p.parseKnown(tokens)
	if err != nil {
		return nil, p.decorate(err)
	}
	return res, nil
}

func (p *Parser) parseKnown(tokens []string) (*Result, bool, error) {
	tokens, err := p.expandFiles(cleanTokens(tokens))
	if err != nil {
		return nil, false, err
	}

	help := p.helpArg()
	order := p.args
	if help != nil {
		order = append([]*Arg{help}, p.args...)
	}

	res := newResult()
	matched := make(map[*Arg]bool, len(order))
	helpRequested := false

	for i := 0; i < len(tokens); {
		hit := false
		for _, a := range order {
			if matched[a] && p.IsPositional(a) {
				continue
			}
			m, ok, err := p.tryMatch(a, tokens, i)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				continue
			}
			key := p.KeyOf(a)
			res.set(key, ParsedValue{Name: a.name, Raw: m.raw, Value: m.value})
			matched[a] = true
			if a == help {
				helpRequested, _ = m.value.(bool)
			}
			p.logger.Debug("matched %q as %s (key %s)", m.raw, a.name, key)
			i = m.next
			hit = true
			break
		}
		if !hit {
			p.logger.Debug("extra token %q", tokens[i])
			res.extras = append(res.extras, tokens[i])
			i++
		}
	}

	for _, a := range order {
		if matched[a] || !a.hasDefault {
			continue
		}
		key := p.KeyOf(a)
		if res.Has(key) {
			continue
		}
		res.set(key, ParsedValue{Name: a.name, Value: a.def})
		p.logger.Debug("default for %s (key %s)", a.name, key)
	}
	return res, helpRequested, nil
}

// ParseArgs parses tokens and enforces the full contract: a help request
// renders help, asks the exiter to terminate with status 0 and returns
// ErrHelpShown; missing required arguments and disallowed extras are
// errors.
func (p *Parser) ParseArgs(tokens []string) (*Result, error) {
	return p.parseArgs(tokens, p.exiter)
}

// Parse is an alias for ParseArgs.
func (p *Parser) Parse(tokens []string) (*Result, error) { return p.ParseArgs(tokens) }

// ParseLine splits line on whitespace and parses the tokens.
func (p *Parser) ParseLine(line string) (*Result, error) {
	return p.ParseArgs(strings.Fields(line))
}

// ParseReader reads r to the end, splits on whitespace and parses the tokens.
func (p *Parser) ParseReader(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading arguments: %w", err)
	}
	return p.ParseLine(string(data))
}

// ParseOS parses the process arguments after the program name.
func (p *Parser) ParseOS() (*Result, error) { return p.ParseArgs(os.Args[1:]) }

func (p *Parser) parseArgs(tokens []string, exiter Exiter) (*Result, error) {
	res, help, err := p.parseKnown(tokens)
	if err != nil {
		return nil, p.decorate(err)
	}

	if help {
		if err := p.PrintHelp(p.io.Out()); err != nil {
			return nil, err
		}
		if exiter != nil {
			exiter.Exit(p.exitCodes.Resolve(nil), "")
		}
		return nil, ErrHelpShown
	}

	var missing []string
	for _, a := range p.args {
		if a.required && !res.Has(p.KeyOf(a)) {
			missing = append(missing, a.name)
		}
	}
	if len(missing) > 0 {
		return nil, p.decorate(&ParseError{
			Type:    ErrorTypeMissingRequired,
			Message: "the following arguments are required: " + strings.Join(missing, ", "),
			Names:   missing,
		})
	}

	if !p.allowExtras && len(res.extras) > 0 {
		return nil, p.decorate(&ParseError{
			Type:    ErrorTypeUnexpectedArguments,
			Message: "unrecognized arguments: " + strings.Join(res.extras, " "),
			Names:   res.Extras(),
		})
	}
	return res, nil
}

// ParseOrExit parses tokens and never returns an error: on failure it
// prints the error and usage to stderr and asks the exiter (OSExiter when
// none is set) to terminate with the resolved exit code. It returns nil if
// the exiter returns.
func (p *Parser) ParseOrExit(tokens []string) *Result {
	exiter := p.exiter
	if exiter == nil {
		exiter = OSExiter
	}
	res, err := p.parseArgs(tokens, exiter)
	if err == nil {
		return res
	}
	if errors.Is(err, ErrHelpShown) {
		return nil
	}

	msg := p.errorHandler.Format(err)
	w := p.io.Err()
	fmt.Fprintln(w, p.io.Sprint(argio.StyleError, msg))
	_ = p.PrintUsage(w)
	exiter.Exit(p.exitCodes.Resolve(err), msg)
	return nil
}

func (p *Parser) decorate(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return p.errorHandler.process(pe, p)
	}
	return err
}
