//nolint:testpackage // using package name 'argparse' to access unexported fields for testing
package argparse

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestExitCodes_Resolve(t *testing.T) {
	m := newExitCodeManager()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"help", ErrHelpShown, 0},
		{"missing", &ParseError{Type: ErrorTypeMissingRequired}, 2},
		{"insufficient", &ParseError{Type: ErrorTypeInsufficientTokens}, 2},
		{"conversion", &ParseError{Type: ErrorTypeConversion}, 2},
		{"unexpected", &ParseError{Type: ErrorTypeUnexpectedArguments}, 2},
		{"validation", &ParseError{Type: ErrorTypeValidation}, 3},
		{"conflict", &ParseError{Type: ErrorTypeConflictingIdentifier}, 1},
		{"arity", &ParseError{Type: ErrorTypeInvalidArity}, 1},
		{"binding", &ParseError{Type: ErrorTypeBinding}, 1},
		{"plain", errors.New("boom"), 1},
		{"exit error", &ExitError{Code: 9}, 9},
		{"wrapped exit error", fmt.Errorf("ctx: %w", &ParseError{Type: ErrorTypeValidation, Cause: &ExitError{Code: 7}}), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Resolve(tt.err); got != tt.want {
				t.Errorf("Resolve(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Overrides(t *testing.T) {
	m := newExitCodeManager().
		DefineParse(ErrorTypeMissingRequired, 64).
		DefineError(&fs.PathError{}, 66).
		Define("usage", 64)

	if got := m.Resolve(ErrMissingRequired); got != 64 {
		t.Errorf("DefineParse override = %d, want 64", got)
	}
	if got := m.Resolve(fmt.Errorf("reading: %w", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist})); got != 66 {
		t.Errorf("DefineError mapping = %d, want 66", got)
	}
	if code, ok := m.Named("usage"); !ok || code != 64 {
		t.Errorf("Named(usage) = %d, %v", code, ok)
	}

	m.Default(ExitCodeDefaults{Success: 0, GeneralError: 10, MisusageError: 20, ValidationError: 30})
	if got := m.Resolve(ErrValidation); got != 30 {
		t.Errorf("validation after Default = %d, want 30", got)
	}
	if got := m.Resolve(ErrMissingRequired); got != 64 {
		t.Errorf("explicit override should survive Default, got %d", got)
	}
	if got := m.Resolve(errors.New("x")); got != 10 {
		t.Errorf("general after Default = %d, want 10", got)
	}
}

type codedError struct{ code int }

func (e *codedError) Error() string { return fmt.Sprintf("coded %d", e.code) }

func TestExitCodes_DefineErrorOrder(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.Join(&codedError{1}, &fs.PathError{Op: "open", Err: fs.ErrNotExist}))
	for range 20 {
		m := newExitCodeManager().
			DefineError(&fs.PathError{}, 66).
			DefineError(&codedError{}, 70)
		if got := m.Resolve(err); got != 66 {
			t.Fatalf("Resolve = %d, want first registered 66", got)
		}
	}

	m := newExitCodeManager().
		DefineError(&codedError{}, 70).
		DefineError(&fs.PathError{}, 66).
		DefineError(&codedError{}, 71)
	if got := m.Resolve(err); got != 71 {
		t.Errorf("redefined type should keep its position with the new code, got %d", got)
	}
}

func TestExitFunc(t *testing.T) {
	var got string
	var e Exiter = ExitFunc(func(code int, msg string) { got = fmt.Sprintf("%d:%s", code, msg) })
	e.Exit(2, "bad")
	if got != "2:bad" {
		t.Errorf("ExitFunc called with %q", got)
	}
	if (&ExitError{}).Error() != "exit" || (&ExitError{Err: errors.New("x")}).Error() != "x" {
		t.Error("unexpected ExitError messages")
	}
}
