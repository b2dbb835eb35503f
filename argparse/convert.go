package argparse

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// ParseBool is the boolean converter: every value except "false" and "0"
// (case-insensitive) is true, so a bare flag converting "" yields true.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "0":
		return false, nil
	default:
		return true, nil
	}
}

// ParseString returns the token unchanged.
func ParseString(s string) (string, error) { return s, nil }

// intBase lets "0x", "0o" and "0b" literals through while keeping plain
// numbers decimal, so "010" is ten rather than octal eight.
func intBase(s string) int {
	t := strings.TrimLeft(s, "+-")
	if len(t) > 2 && t[0] == '0' {
		switch t[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return 0
		}
	}
	return 10
}

func parseSigned[T ~int | ~int8 | ~int16 | ~int32 | ~int64](bits int) Converter[T] {
	return func(s string) (T, error) {
		s = strings.TrimSpace(s)
		n, err := strconv.ParseInt(s, intBase(s), bits)
		if err != nil {
			return 0, numError(err)
		}
		return T(n), nil
	}
}

func parseUnsigned[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) Converter[T] {
	return func(s string) (T, error) {
		s = strings.TrimSpace(s)
		n, err := strconv.ParseUint(s, intBase(s), bits)
		if err != nil {
			return 0, numError(err)
		}
		return T(n), nil
	}
}

func parseFloat[T ~float32 | ~float64](bits int) Converter[T] {
	return func(s string) (T, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), bits)
		if err != nil {
			return 0, numError(err)
		}
		return T(f), nil
	}
}

// numError drops the strconv function prefix from parse errors.
func numError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

// Built-in converters.
var (
	ParseInt     = parseSigned[int](strconv.IntSize)
	ParseInt8    = parseSigned[int8](8)
	ParseInt16   = parseSigned[int16](16)
	ParseInt32   = parseSigned[int32](32)
	ParseInt64   = parseSigned[int64](64)
	ParseUint    = parseUnsigned[uint](strconv.IntSize)
	ParseUint8   = parseUnsigned[uint8](8)
	ParseUint16  = parseUnsigned[uint16](16)
	ParseUint32  = parseUnsigned[uint32](32)
	ParseUint64  = parseUnsigned[uint64](64)
	ParseFloat32 = parseFloat[float32](32)
	ParseFloat64 = parseFloat[float64](64)
)

// ParseRune returns the first character of s, or 0 for an empty token.
func ParseRune(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return 0, fmt.Errorf("invalid UTF-8 in %q", s)
	}
	return r, nil
}

// ParseDuration accepts Go durations ("1h30m") plus day and week suffixes
// ("2d", "1.5w").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	return parseExtendedDuration(s)
}

func parseExtendedDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var unit time.Duration
	switch s[len(s)-1] {
	case 'd', 'D':
		unit = 24 * time.Hour
	case 'w', 'W':
		unit = 7 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	n, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	v := n * float64(unit)
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, fmt.Errorf("duration %q out of range", s)
	}
	return time.Duration(v), nil
}

// ParsePath cleans a file path. The "@" marker is stripped by File before
// conversion.
func ParsePath(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	return filepath.Clean(s), nil
}

// ParseVersion parses a semantic version ("1.2", "v2.0.1-rc.1").
func ParseVersion(s string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimSpace(s))
}

// ParseUUID parses a UUID in any of the forms uuid.Parse accepts.
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// String defines a string argument.
func String(name string) *ArgBuilder[string] { return NewArg[string](name, ParseString) }

// Bool defines a boolean argument with ArityZero: its presence means true.
func Bool(name string) *ArgBuilder[bool] { return NewArg[bool](name, ParseBool).Arity(ArityZero) }

// Flag is an alias for Bool.
func Flag(name string) *ArgBuilder[bool] { return Bool(name) }

// Int defines an int argument.
func Int(name string) *ArgBuilder[int] { return NewArg(name, ParseInt) }

// Int8 defines an int8 argument.
func Int8(name string) *ArgBuilder[int8] { return NewArg(name, ParseInt8) }

// Int16 defines an int16 argument.
func Int16(name string) *ArgBuilder[int16] { return NewArg(name, ParseInt16) }

// Int32 defines an int32 argument.
func Int32(name string) *ArgBuilder[int32] { return NewArg(name, ParseInt32) }

// Int64 defines an int64 argument.
func Int64(name string) *ArgBuilder[int64] { return NewArg(name, ParseInt64) }

// Uint defines a uint argument.
func Uint(name string) *ArgBuilder[uint] { return NewArg(name, ParseUint) }

// Uint8 defines a uint8 argument.
func Uint8(name string) *ArgBuilder[uint8] { return NewArg(name, ParseUint8) }

// Uint16 defines a uint16 argument.
func Uint16(name string) *ArgBuilder[uint16] { return NewArg(name, ParseUint16) }

// Uint32 defines a uint32 argument.
func Uint32(name string) *ArgBuilder[uint32] { return NewArg(name, ParseUint32) }

// Uint64 defines a uint64 argument.
func Uint64(name string) *ArgBuilder[uint64] { return NewArg(name, ParseUint64) }

// Float32 defines a float32 argument.
func Float32(name string) *ArgBuilder[float32] { return NewArg(name, ParseFloat32) }

// Float64 defines a float64 argument.
func Float64(name string) *ArgBuilder[float64] { return NewArg(name, ParseFloat64) }

// Rune defines a single-character argument.
func Rune(name string) *ArgBuilder[rune] { return NewArg[rune](name, ParseRune) }

// Duration defines a time.Duration argument.
func Duration(name string) *ArgBuilder[time.Duration] { return NewArg[time.Duration](name, ParseDuration) }

// File defines a file path argument. A leading "@" on the value is ignored,
// so "@config.json" and "config.json" are the same path.
func File(name string) *ArgBuilder[string] {
	return NewArg[string](name, ParsePath).IgnorePrefix("@")
}

// Version defines a semantic version argument.
func Version(name string) *ArgBuilder[*semver.Version] { return NewArg[*semver.Version](name, ParseVersion) }

// UUID defines a UUID argument.
func UUID(name string) *ArgBuilder[uuid.UUID] { return NewArg[uuid.UUID](name, ParseUUID) }

// VersionFlag defines the conventional "--version" / "-v" switch. Its value
// is always true when present.
func VersionFlag() *ArgBuilder[bool] {
	return Bool("--version").Alias("-v").Constant(true).Help("show program's version number and exit")
}
