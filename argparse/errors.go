package argparse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dzonerzy/go-argparse/internal/fuzzy"
)

// ErrorType represents error categories raised while defining or parsing.
// These categories drive suggestion logic and exit-code mapping (via ExitCodeManager).
type ErrorType string

const (
	ErrorTypeInsufficientTokens    ErrorType = "insufficient_tokens"
	ErrorTypeConversion            ErrorType = "conversion_error"
	ErrorTypeValidation            ErrorType = "validation_error"
	ErrorTypeMissingRequired       ErrorType = "missing_required"
	ErrorTypeUnexpectedArguments   ErrorType = "unexpected_arguments"
	ErrorTypeConflictingIdentifier ErrorType = "conflicting_identifier"
	ErrorTypeInvalidArity          ErrorType = "invalid_arity"
	ErrorTypeInvalidDefinition     ErrorType = "invalid_definition"
	ErrorTypeBinding               ErrorType = "binding_error"
)

// ParseError carries the category and context of a definition or parse failure.
type ParseError struct {
	Type        ErrorType
	Message     string
	Argument    string   // name of the argument involved, if any
	Token       string   // offending token, if any
	Names       []string // every missing argument or unexpected token
	Suggestions []string
	Cause       error
}

func (e *ParseError) Error() string {
	if e.Message == "" {
		return string(e.Type)
	}
	return e.Message
}

// Unwrap exposes the converter or validator error.
func (e *ParseError) Unwrap() error { return e.Cause }

// Is matches another *ParseError of the same type. Sentinels such as
// ErrMissingRequired carry no message and match on type alone.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is checks.
var (
	ErrInsufficientTokens    = &ParseError{Type: ErrorTypeInsufficientTokens}
	ErrConversion            = &ParseError{Type: ErrorTypeConversion}
	ErrValidation            = &ParseError{Type: ErrorTypeValidation}
	ErrMissingRequired       = &ParseError{Type: ErrorTypeMissingRequired}
	ErrUnexpectedArguments   = &ParseError{Type: ErrorTypeUnexpectedArguments}
	ErrConflictingIdentifier = &ParseError{Type: ErrorTypeConflictingIdentifier}
	ErrInvalidArity          = &ParseError{Type: ErrorTypeInvalidArity}
	ErrInvalidDefinition     = &ParseError{Type: ErrorTypeInvalidDefinition}
	ErrBinding               = &ParseError{Type: ErrorTypeBinding}
)

// ErrHelpShown is returned after the help text has been rendered in
// response to the help argument.
var ErrHelpShown = errors.New("help shown")

func insufficientTokens(a *Arg, want string) *ParseError {
	return &ParseError{
		Type:     ErrorTypeInsufficientTokens,
		Message:  fmt.Sprintf("argument %s: expected %s", a.name, want),
		Argument: a.name,
	}
}

func conversionError(a *Arg, token string, cause error) *ParseError {
	return &ParseError{
		Type:     ErrorTypeConversion,
		Message:  fmt.Sprintf("argument %s: invalid %s value %q: %v", a.name, a.typeName, token, cause),
		Argument: a.name,
		Token:    token,
		Cause:    cause,
	}
}

func validationError(a *Arg, token string, cause error) *ParseError {
	return &ParseError{
		Type:     ErrorTypeValidation,
		Message:  fmt.Sprintf("argument %s: %v", a.name, cause),
		Argument: a.name,
		Token:    token,
		Cause:    cause,
	}
}

func definitionError(name, format string, args ...any) *ParseError {
	return &ParseError{
		Type:     ErrorTypeInvalidDefinition,
		Message:  fmt.Sprintf(format, args...),
		Argument: name,
	}
}

// ErrorHandler decorates parse errors before they are shown to the user.
type ErrorHandler struct {
	suggestArguments bool
	maxDistance      int
	maxSuggestions   int
	customHandlers   map[ErrorType]func(*ParseError) *ParseError
}

// NewErrorHandler creates a new error handler with defaults
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{
		suggestArguments: false, // opt-in
		maxDistance:      2,
		maxSuggestions:   3,
		customHandlers:   make(map[ErrorType]func(*ParseError) *ParseError),
	}
}

// SuggestArguments enables "did you mean" hints for unexpected tokens
func (eh *ErrorHandler) SuggestArguments(enabled bool) *ErrorHandler {
	eh.suggestArguments = enabled
	return eh
}

// MaxDistance sets the maximum edit distance for suggestions
func (eh *ErrorHandler) MaxDistance(distance int) *ErrorHandler {
	eh.maxDistance = distance
	return eh
}

// MaxSuggestions caps the hints attached to a single error
func (eh *ErrorHandler) MaxSuggestions(n int) *ErrorHandler {
	eh.maxSuggestions = n
	return eh
}

// Handle registers a custom handler for a specific error type. A handler
// returning nil keeps the original error.
func (eh *ErrorHandler) Handle(typ ErrorType, handler func(*ParseError) *ParseError) *ErrorHandler {
	eh.customHandlers[typ] = handler
	return eh
}

// process applies the custom handler for err's type and attaches suggestions.
func (eh *ErrorHandler) process(err *ParseError, p *Parser) *ParseError {
	if handler, ok := eh.customHandlers[err.Type]; ok {
		if handled := handler(err); handled != nil {
			err = handled
		}
	}

	switch err.Type { // exhaustive over ErrorType
	case ErrorTypeUnexpectedArguments:
		if eh.suggestArguments {
			eh.addArgumentSuggestions(err, p)
		}
	case ErrorTypeInsufficientTokens, ErrorTypeConversion, ErrorTypeValidation,
		ErrorTypeMissingRequired, ErrorTypeConflictingIdentifier, ErrorTypeInvalidArity,
		ErrorTypeInvalidDefinition, ErrorTypeBinding:
		// No suggestions for these.
	}
	return err
}

func (eh *ErrorHandler) addArgumentSuggestions(err *ParseError, p *Parser) {
	ids := p.optionalIdentifiers()
	norm := p.norm()
	remaining := eh.maxSuggestions
	for _, tok := range err.Names {
		if remaining == 0 {
			return
		}
		if !norm.HasPrefix(tok) {
			continue
		}
		if best := fuzzy.Suggest(tok, ids, p.prefixChars, eh.maxDistance, 1); len(best) > 0 {
			err.Suggestions = append(err.Suggestions, fmt.Sprintf("Did you mean '%s' instead of '%s'?", best[0], tok))
			remaining--
		}
	}
}

// Format renders err as shown by ParseOrExit: the message prefixed with
// "Error:" followed by one suggestion per line.
func (eh *ErrorHandler) Format(err error) string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(err.Error())

	var pe *ParseError
	if errors.As(err, &pe) {
		for _, s := range pe.Suggestions {
			b.WriteString("\n  ")
			b.WriteString(s)
		}
	}
	return b.String()
}
