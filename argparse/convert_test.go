//nolint:testpackage // using package name 'argparse' to access unexported fields for testing
package argparse

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"true", true},
		{"yes", true},
		{"1", true},
		{"anything", true},
		{"false", false},
		{"FALSE", false},
		{"0", false},
		{" False ", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBool(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseBool(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestParseIntegers(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) (int64, error)
		in      string
		want    int64
		wantErr error
	}{
		{"decimal", widen(ParseInt), "42", 42, nil},
		{"leading zero stays decimal", widen(ParseInt), "010", 10, nil},
		{"hex", widen(ParseInt), "0x1F", 31, nil},
		{"binary", widen(ParseInt), "0b101", 5, nil},
		{"negative", widen(ParseInt), "-7", -7, nil},
		{"int8 overflow", widen(ParseInt8), "300", 0, strconv.ErrRange},
		{"uint negative", widenU(ParseUint), "-1", 0, strconv.ErrSyntax},
		{"uint16 max", widenU(ParseUint16), "65535", 65535, nil},
		{"garbage", widen(ParseInt64), "12ab", 0, strconv.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("got %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func widen[T ~int | ~int8 | ~int16 | ~int32 | ~int64](c Converter[T]) func(string) (int64, error) {
	return func(s string) (int64, error) {
		v, err := c(s)
		return int64(v), err
	}
}

func widenU[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](c Converter[T]) func(string) (int64, error) {
	return func(s string) (int64, error) {
		v, err := c(s)
		return int64(v), err
	}
}

func TestParseFloat(t *testing.T) {
	if v, err := ParseFloat64("3.14"); err != nil || v != 3.14 {
		t.Errorf("ParseFloat64 = %v, %v", v, err)
	}
	if v, err := ParseFloat32("1.5"); err != nil || v != 1.5 {
		t.Errorf("ParseFloat32 = %v, %v", v, err)
	}
	if _, err := ParseFloat64("pi"); !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("expected syntax error, got %v", err)
	}
}

func TestParseRune(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", 0, false},
		{"x", 'x', false},
		{"xyz", 'x', false},
		{"é", 'é', false},
		{"\xff", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRune(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRune(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1h30m", 90 * time.Minute, false},
		{"250ms", 250 * time.Millisecond, false},
		{"2d", 48 * time.Hour, false},
		{"1w", 7 * 24 * time.Hour, false},
		{"1.5d", 36 * time.Hour, false},
		{"d", 0, true},
		{"soon", 0, true},
		{"200000w", 0, true},
		{"1e300d", 0, true},
		{"-1e300d", 0, true},
		{"-2d", -48 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestParsePathVersionUUID(t *testing.T) {
	if p, _ := ParsePath("a//b/../c"); p != "a/c" {
		t.Errorf("ParsePath = %q", p)
	}
	if p, _ := ParsePath(""); p != "" {
		t.Errorf("ParsePath(\"\") = %q", p)
	}

	v, err := ParseVersion("v1.2.3-rc.1")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	if v.Major() != 1 || v.Minor() != 2 || v.Patch() != 3 || v.Prerelease() != "rc.1" {
		t.Errorf("unexpected version %s", v)
	}
	if _, err := ParseVersion("one.two"); err == nil {
		t.Error("expected error for invalid version")
	}

	id := uuid.New()
	got, err := ParseUUID(id.String())
	if err != nil || got != id {
		t.Errorf("ParseUUID = %v, %v", got, err)
	}
	if _, err := ParseUUID("not-a-uuid"); err == nil {
		t.Error("expected error for invalid uuid")
	}
}

func TestTypedConstructors(t *testing.T) {
	id := uuid.New()
	p := newTestParser(t,
		File("--config"),
		Duration("--timeout"),
		Version("--min"),
		UUID("--id"),
		Rune("--sep"),
		Uint8("--level"),
		VersionFlag(),
	)

	res, err := p.ParseArgs([]string{
		"--config", "@conf/./app.json",
		"--timeout", "1d",
		"--min", "2.1",
		"--id", id.String(),
		"--sep", ":",
		"--level", "7",
		"-v",
	})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}

	if v, _ := res.String("config"); v != "conf/app.json" {
		t.Errorf("config = %q", v)
	}
	if v, _ := res.Duration("timeout"); v != 24*time.Hour {
		t.Errorf("timeout = %v", v)
	}
	if v := MustLookup[uuid.UUID](res, "id"); v != id {
		t.Errorf("id = %v", v)
	}
	if v := MustLookup[rune](res, "sep"); v != ':' {
		t.Errorf("sep = %q", v)
	}
	if v := MustLookup[uint8](res, "level"); v != 7 {
		t.Errorf("level = %v", v)
	}
	if v, _ := res.Bool("version"); !v {
		t.Error("version flag not set")
	}
	if v, ok := Lookup[*semver.Version](res, "min"); !ok || v.String() != "2.1.0" {
		t.Errorf("min = %v", v)
	}
}
