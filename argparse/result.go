package argparse

import (
	"fmt"
	"slices"
	"time"
)

// ParsedValue is one entry of a Result: the argument name that produced it,
// the raw tokens it consumed and the converted value. Defaults have no raw
// tokens.
type ParsedValue struct {
	Name  string
	Raw   []string
	Value any
}

// Result maps result keys to parsed values and keeps unmatched tokens.
// It is built once per parse and never modified afterwards.
type Result struct {
	values map[string]ParsedValue
	order  []string
	extras []string
}

func newResult() *Result {
	return &Result{values: make(map[string]ParsedValue, 8)}
}

func (r *Result) set(key string, v ParsedValue) {
	if _, ok := r.values[key]; !ok {
		r.order = append(r.order, key)
	}
	r.values[key] = v
}

// Get returns the parsed value stored under key.
func (r *Result) Get(key string) (ParsedValue, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present, either matched or defaulted.
func (r *Result) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Value returns the converted value under key, or nil.
func (r *Result) Value(key string) any { return r.values[key].Value }

// Keys returns the keys in the order they were first matched, followed by
// defaulted keys.
func (r *Result) Keys() []string { return slices.Clone(r.order) }

// Len returns the number of keys.
func (r *Result) Len() int { return len(r.values) }

// Extras returns the tokens no argument matched, in input order.
func (r *Result) Extras() []string { return slices.Clone(r.extras) }

// Map returns a key to value copy of the result.
func (r *Result) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v.Value
	}
	return m
}

// String returns the string value under key.
func (r *Result) String(key string) (string, bool) { return Lookup[string](r, key) }

// Int returns the int value under key.
func (r *Result) Int(key string) (int, bool) { return Lookup[int](r, key) }

// Bool returns the bool value under key.
func (r *Result) Bool(key string) (bool, bool) { return Lookup[bool](r, key) }

// Float64 returns the float64 value under key.
func (r *Result) Float64(key string) (float64, bool) { return Lookup[float64](r, key) }

// Duration returns the time.Duration value under key.
func (r *Result) Duration(key string) (time.Duration, bool) { return Lookup[time.Duration](r, key) }

// Strings returns the []string value under key.
func (r *Result) Strings(key string) ([]string, bool) { return Lookup[[]string](r, key) }

// Lookup returns the value under key asserted to T. It reports false when
// the key is missing, the value is nil or the type differs.
func Lookup[T any](r *Result, key string) (T, bool) {
	var zero T
	v, ok := r.values[key]
	if !ok || v.Value == nil {
		return zero, false
	}
	t, ok := v.Value.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// LookupOr returns the value under key, or fallback.
func LookupOr[T any](r *Result, key string, fallback T) T {
	if v, ok := Lookup[T](r, key); ok {
		return v
	}
	return fallback
}

// MustLookup returns the value under key and panics if it is missing or of
// another type.
func MustLookup[T any](r *Result, key string) T {
	v, ok := Lookup[T](r, key)
	if !ok {
		panic(fmt.Sprintf("argparse: no %T value for key %q", v, key))
	}
	return v
}
