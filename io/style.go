package argio

import "github.com/fatih/color"

// Style is a set of text attributes. It is only applied when the manager
// reports color support.
type Style []color.Attribute

// Common styles used by help rendering and error output.
var (
	StyleHeading = Style{color.Bold}
	StyleMeta    = Style{color.FgCyan}
	StyleError   = Style{color.FgRed, color.Bold}
	StyleHint    = Style{color.Faint}
)

// Theme maps log levels to styles.
type Theme struct {
	Debug   Style
	Info    Style
	Success Style
	Warning Style
	Error   Style
}

// DefaultTheme returns the 16-color theme used by the logger.
func DefaultTheme() Theme {
	return Theme{
		Debug:   Style{color.FgMagenta},
		Info:    Style{color.FgBlue},
		Success: Style{color.FgGreen},
		Warning: Style{color.FgYellow},
		Error:   Style{color.FgRed},
	}
}

// Sprint returns s wrapped in st when color is supported; otherwise s unchanged.
func (m *IOManager) Sprint(st Style, s string) string {
	if len(st) == 0 || s == "" {
		return s
	}
	c := color.New(st...)
	if m.SupportsColor() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// Bold returns s in bold when color is supported.
func (m *IOManager) Bold(s string) string { return m.Sprint(Style{color.Bold}, s) }

// Faint returns s in faint intensity when color is supported.
func (m *IOManager) Faint(s string) string { return m.Sprint(StyleHint, s) }
