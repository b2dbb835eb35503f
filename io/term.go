package argio

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// terminal abstracts capability queries so tests can fake a TTY.
type terminal interface {
	isTerminal(any) bool
	size(any) (width, height int, ok bool)
}

type osTerminal struct{}

func (osTerminal) isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (osTerminal) size(v any) (int, int, bool) {
	f, ok := v.(*os.File)
	if !ok {
		return 0, 0, false
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}

// fakeTerminal reports every stream as a terminal of a fixed size.
type fakeTerminal struct {
	width, height int
}

func (fakeTerminal) isTerminal(any) bool { return true }

func (t fakeTerminal) size(any) (int, int, bool) { return t.width, t.height, true }

// WithTerminalSize makes the manager behave as if attached to a terminal of
// the given size. Intended for tests and for rendering help at a fixed width.
func (m *IOManager) WithTerminalSize(width, height int) *IOManager {
	m.term = fakeTerminal{width: width, height: height}
	return m
}

func fallbackTermSizeFromEnv() (int, int) {
	return envInt("COLUMNS"), envInt("LINES")
}

func envInt(key string) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
