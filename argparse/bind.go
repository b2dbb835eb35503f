package argparse

import (
	"fmt"
	"reflect"
	"strings"
)

// Binder copies result values into the fields of a struct. Keys match
// field names case-insensitively, ignoring '-' and '_'; a `flag` tag name
// also matches. Nested struct fields are addressed as "Parent.Field".
type Binder struct {
	// Strict turns unmatched keys and failed assignments into binding
	// errors instead of leftovers.
	Strict bool
}

// Bind is Binder{}.Bind.
func Bind(res *Result, target any) ([]ParsedValue, error) {
	return Binder{}.Bind(res, target)
}

// Bind assigns every result value with a matching field and returns the
// values nothing consumed, followed by one entry per extra token.
func (b Binder) Bind(res *Result, target any) ([]ParsedValue, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, bindingError("", nil, "bind target must be a non-nil pointer to a struct, got %T", target)
	}
	root := rv.Elem()
	fields := make(map[string][]int)
	indexFields(root.Type(), "", nil, fields, 0)

	var leftover []ParsedValue
	for _, key := range res.Keys() {
		pv, _ := res.Get(key)
		path, ok := fields[bindKey(key)]
		if !ok {
			if b.Strict {
				return nil, bindingError(key, nil, "no field for %s", key)
			}
			leftover = append(leftover, pv)
			continue
		}
		if err := assign(fieldByIndexAlloc(root, path), pv.Value); err != nil {
			if b.Strict {
				return nil, bindingError(key, err, "cannot bind %s: %v", key, err)
			}
			leftover = append(leftover, pv)
		}
	}
	for _, tok := range res.extras {
		leftover = append(leftover, ParsedValue{Raw: []string{tok}})
	}
	return leftover, nil
}

func bindingError(key string, cause error, format string, args ...any) *ParseError {
	return &ParseError{
		Type:     ErrorTypeBinding,
		Message:  fmt.Sprintf(format, args...),
		Argument: key,
		Cause:    cause,
	}
}

// bindKey normalizes a key or field name for matching.
func bindKey(s string) string {
	s = strings.TrimLeft(s, "-")
	return strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s))
}

const maxBindDepth = 8

// indexFields records the index path of every exported field. Embedded
// structs are flattened; other struct fields are also indexed under their
// own name and descended into with "Name." as prefix.
func indexFields(t reflect.Type, prefix string, base []int, out map[string][]int, depth int) {
	if depth > maxBindDepth {
		return
	}
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		path := append(append([]int(nil), base...), i)
		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if field.Anonymous && ft.Kind() == reflect.Struct {
			indexFields(ft, prefix, path, out, depth+1)
			continue
		}
		names := []string{field.Name}
		if tag, _ := parseFlagTag(field.Tag.Get("flag")); tag != "" && tag != "-" {
			names = append(names, tag)
		}
		for _, n := range names {
			k := bindKey(prefix + n)
			if _, taken := out[k]; !taken {
				out[k] = path
			}
		}
		if ft.Kind() == reflect.Struct {
			indexFields(ft, prefix+field.Name+".", path, out, depth+1)
		}
	}
}

// fieldByIndexAlloc is FieldByIndex that allocates nil struct pointers
// along the path.
func fieldByIndexAlloc(v reflect.Value, path []int) reflect.Value {
	for i, idx := range path {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(idx)
	}
	return v
}

// assign stores v in fv. nil zeroes nilable fields; otherwise the value
// must be assignable, or convertible by pointer wrapping, element-wise
// slice conversion, lossless numeric conversion or between string kinds.
func assign(fv reflect.Value, v any) error {
	if v == nil {
		switch fv.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
			fv.SetZero()
			return nil
		default:
			return fmt.Errorf("cannot assign nil to %s", fv.Type())
		}
	}
	return assignValue(fv, reflect.ValueOf(v))
}

func assignValue(fv, val reflect.Value) error {
	ft := fv.Type()
	switch {
	case val.Type().AssignableTo(ft):
		fv.Set(val)
		return nil

	case ft.Kind() == reflect.Pointer:
		p := reflect.New(ft.Elem())
		if err := assignValue(p.Elem(), val); err != nil {
			return err
		}
		fv.Set(p)
		return nil

	case ft.Kind() == reflect.Slice && val.Kind() == reflect.Slice:
		out := reflect.MakeSlice(ft, val.Len(), val.Len())
		for i := range val.Len() {
			if err := assignValue(out.Index(i), val.Index(i)); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		fv.Set(out)
		return nil

	case ft.Kind() == reflect.Slice:
		out := reflect.MakeSlice(ft, 1, 1)
		if err := assignValue(out.Index(0), val); err != nil {
			return err
		}
		fv.Set(out)
		return nil

	case isNumber(ft.Kind()) && isNumber(val.Kind()):
		return convertNumber(fv, val)

	case ft.Kind() == reflect.String && val.Kind() == reflect.String,
		ft.Kind() == reflect.Bool && val.Kind() == reflect.Bool:
		fv.Set(val.Convert(ft))
		return nil
	}
	return fmt.Errorf("cannot assign %s to %s", val.Type(), ft)
}

func isNumber(k reflect.Kind) bool {
	return reflect.Int <= k && k <= reflect.Float64
}

func isUnsigned(k reflect.Kind) bool {
	return reflect.Uint <= k && k <= reflect.Uintptr
}

// convertNumber refuses conversions that lose information.
func convertNumber(fv, val reflect.Value) error {
	ft := fv.Type()
	if isUnsigned(ft.Kind()) {
		switch {
		case val.CanInt() && val.Int() < 0,
			val.CanFloat() && val.Float() < 0:
			return fmt.Errorf("cannot assign negative %v to %s", val.Interface(), ft)
		}
	}
	out := val.Convert(ft)
	if !out.Convert(val.Type()).Equal(val) {
		return fmt.Errorf("%v does not fit in %s", val.Interface(), ft)
	}
	fv.Set(out)
	return nil
}
