package argparse

import (
	"errors"
	"os"
	"reflect"
)

// Exiter terminates the program. The parser never exits on its own; it
// asks the configured Exiter after rendering help and, from ParseOrExit,
// after reporting an error.
type Exiter interface {
	Exit(code int, message string)
}

// ExitFunc adapts a function to the Exiter interface.
type ExitFunc func(code int, message string)

// Exit calls f(code, message).
func (f ExitFunc) Exit(code int, message string) { f(code, message) }

// OSExiter exits the process with os.Exit. The message has already been
// written by the parser.
var OSExiter Exiter = ExitFunc(func(code int, _ string) { os.Exit(code) })

// ExitError requests a specific exit code. Validators may return one to
// override the category mapping.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success         int // default: 0
	GeneralError    int // default: 1
	MisusageError   int // default: 2
	ValidationError int // default: 3
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2, ValidationError: 3}
}

type typeCode struct {
	typ  reflect.Type
	code int
}

// ExitCodeManager maps errors and categories to process exit codes.
type ExitCodeManager struct {
	codesByName  map[string]int
	codesByType  []typeCode
	codesByParse map[ErrorType]int
	defaults     ExitCodeDefaults
}

func newExitCodeManager() *ExitCodeManager {
	return &ExitCodeManager{
		codesByName:  make(map[string]int),
		codesByParse: make(map[ErrorType]int),
		defaults:     defaultExitDefaults(),
	}
}

// Define records a named exit code for documentation and lookup with
// Named. It does not affect resolution.
func (e *ExitCodeManager) Define(name string, code int) *ExitCodeManager {
	e.codesByName[name] = code
	return e
}

// Named returns a code recorded with Define.
func (e *ExitCodeManager) Named(name string) (int, bool) {
	code, ok := e.codesByName[name]
	return code, ok
}

// DefineError maps a concrete error value (by its dynamic type) to an exit
// code. A matching type is checked after ParseError categories; when several
// types match, the first registered wins.
func (e *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return e
	}
	t := reflect.TypeOf(err)
	for i := range e.codesByType {
		if e.codesByType[i].typ == t {
			e.codesByType[i].code = code
			return e
		}
	}
	e.codesByType = append(e.codesByType, typeCode{typ: t, code: code})
	return e
}

// DefineParse overrides the exit code for a ParseError category.
func (e *ExitCodeManager) DefineParse(typ ErrorType, code int) *ExitCodeManager {
	e.codesByParse[typ] = code
	return e
}

// Default replaces the default codes. Categories without an explicit
// DefineParse mapping follow the new defaults.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	return e
}

// Defaults returns the current default codes.
func (e *ExitCodeManager) Defaults() ExitCodeDefaults { return e.defaults }

func (e *ExitCodeManager) categoryCode(typ ErrorType) int {
	if code, ok := e.codesByParse[typ]; ok {
		return code
	}
	switch typ {
	case ErrorTypeInsufficientTokens, ErrorTypeConversion,
		ErrorTypeMissingRequired, ErrorTypeUnexpectedArguments:
		return e.defaults.MisusageError
	case ErrorTypeValidation:
		return e.defaults.ValidationError
	case ErrorTypeConflictingIdentifier, ErrorTypeInvalidArity,
		ErrorTypeInvalidDefinition, ErrorTypeBinding:
		return e.defaults.GeneralError
	}
	return e.defaults.GeneralError
}

// Resolve converts an error to an exit code. Precedence:
//  1. nil and ErrHelpShown (Success)
//  2. ExitError (requested code)
//  3. ParseError category (DefineParse, then defaults)
//  4. Concrete error type mapping (DefineError)
//  5. GeneralError
func (e *ExitCodeManager) Resolve(err error) int {
	if err == nil || errors.Is(err, ErrHelpShown) {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		return e.categoryCode(pe.Type)
	}

	for _, tc := range e.codesByType {
		if errors.As(err, reflect.New(tc.typ).Interface()) {
			return tc.code
		}
	}
	return e.defaults.GeneralError
}
