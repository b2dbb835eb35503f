//nolint:testpackage // using package name 'argparse' to access unexported fields for testing
package argparse

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestResult_Accessors(t *testing.T) {
	r := newResult()
	r.set("name", ParsedValue{Name: "--name", Raw: []string{"--name", "bob"}, Value: "bob"})
	r.set("count", ParsedValue{Name: "count", Raw: []string{"3"}, Value: 3})
	r.set("wait", ParsedValue{Name: "--wait", Value: 2 * time.Second})
	r.set("tags", ParsedValue{Name: "--tags", Value: []string{"a"}})
	r.set("level", ParsedValue{Name: "--level"})
	r.set("name", ParsedValue{Name: "--name", Raw: []string{"--name", "alice"}, Value: "alice"})
	r.extras = []string{"x"}

	if diff := cmp.Diff([]string{"name", "count", "wait", "tags", "level"}, r.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if r.Len() != 5 {
		t.Errorf("Len = %d", r.Len())
	}
	if v, ok := r.String("name"); !ok || v != "alice" {
		t.Errorf("String = %q, %v", v, ok)
	}
	if v, ok := r.Int("count"); !ok || v != 3 {
		t.Errorf("Int = %v, %v", v, ok)
	}
	if _, ok := r.Int("name"); ok {
		t.Error("Int on a string value should report false")
	}
	if v, ok := r.Duration("wait"); !ok || v != 2*time.Second {
		t.Errorf("Duration = %v, %v", v, ok)
	}
	if v, ok := r.Strings("tags"); !ok || len(v) != 1 {
		t.Errorf("Strings = %v, %v", v, ok)
	}
	if !r.Has("level") {
		t.Error("nil value should still be present")
	}
	if _, ok := Lookup[int](r, "level"); ok {
		t.Error("Lookup on nil value should report false")
	}
	if got := LookupOr(r, "missing", 7); got != 7 {
		t.Errorf("LookupOr = %v", got)
	}

	extras := r.Extras()
	extras[0] = "changed"
	if r.Extras()[0] != "x" {
		t.Error("Extras must return a copy")
	}
}

func TestMustLookup_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustLookup[int](newResult(), "nope")
}
