package argparse

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Converter turns a single raw token into a typed value.
type Converter[T any] func(string) (T, error)

// Argument is anything that can be registered on a Parser.
type Argument interface {
	Arg() *Arg
}

// Arg is the untyped definition of one argument. It is built through an
// ArgBuilder and becomes immutable once a Parser accepts it.
type Arg struct {
	name     string
	aliases  []string
	arity    Arity
	help     string
	metaVars []string
	key      string
	group    string
	typeName string

	ignoredPrefix string
	ignoredSuffix string
	required      bool

	convert     func(string) (any, error)
	collect     func([]any) any
	check       func(any) error
	choices     []string
	constant    any
	hasConstant bool
	def         any
	hasDefault  bool

	sealed bool
}

// Arg returns the argument itself so *Arg satisfies Argument.
func (a *Arg) Arg() *Arg { return a }

// Name returns the primary identifier.
func (a *Arg) Name() string { return a.name }

// Aliases returns the alternate identifiers in registration order.
func (a *Arg) Aliases() []string { return slices.Clone(a.aliases) }

// Identifiers returns the name followed by the aliases.
func (a *Arg) Identifiers() []string {
	return append([]string{a.name}, a.aliases...)
}

// Arity returns the consumption policy.
func (a *Arg) Arity() Arity { return a.arity }

// Help returns the help text.
func (a *Arg) Help() string { return a.help }

// MetaVars returns the explicit help placeholders, if any.
func (a *Arg) MetaVars() []string { return slices.Clone(a.metaVars) }

// ExplicitKey returns the result key set with Key, or "".
func (a *Arg) ExplicitKey() string { return a.key }

// Group returns the dotted group path, or "".
func (a *Arg) Group() string { return a.group }

// TypeName returns the name of the converted value type.
func (a *Arg) TypeName() string { return a.typeName }

// Required reports whether the argument must be present.
func (a *Arg) Required() bool { return a.required }

// Choices returns the allowed values as rendered in help.
func (a *Arg) Choices() []string { return slices.Clone(a.choices) }

// Default returns the default value and whether one is set.
func (a *Arg) Default() (any, bool) { return a.def, a.hasDefault }

// Constant returns the constant value and whether one is set.
func (a *Arg) Constant() (any, bool) { return a.constant, a.hasConstant }

// Sealed reports whether the argument has been registered on a parser.
func (a *Arg) Sealed() bool { return a.sealed }

func (a *Arg) mutate() {
	if a.sealed {
		panic(fmt.Sprintf("argparse: argument %q modified after registration", a.name))
	}
}

// resolve converts one token, stripping the ignored prefix and suffix first.
// A constant short-circuits conversion entirely.
func (a *Arg) resolve(token string) (any, error) {
	if a.hasConstant {
		return a.constant, nil
	}
	v := strings.TrimPrefix(token, a.ignoredPrefix)
	v = strings.TrimSuffix(v, a.ignoredSuffix)
	out, err := a.convert(v)
	if err != nil {
		return nil, conversionError(a, token, err)
	}
	if a.check != nil {
		if err := a.check(out); err != nil {
			return nil, validationError(a, token, err)
		}
	}
	return out, nil
}

// resolveAll converts tokens and collects them into the typed slice.
func (a *Arg) resolveAll(tokens []string) (any, error) {
	vals := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		v, err := a.resolve(tok)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return a.collect(vals), nil
}

// absent is the value of an ArityOptional argument that found no token.
func (a *Arg) absent() any {
	if a.hasConstant {
		return a.constant
	}
	return nil
}

// convertDefault converts a loosely typed default (as decoded from a table)
// through the argument's converter. Slices are converted element-wise.
func (a *Arg) convertDefault(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		tokens := make([]string, rv.Len())
		for i := range tokens {
			tokens[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return a.resolveAll(tokens)
	}
	return a.resolve(fmt.Sprint(v))
}

func (a *Arg) addCheck(fn func(any) error) {
	prev := a.check
	if prev == nil {
		a.check = fn
		return
	}
	a.check = func(v any) error {
		if err := prev(v); err != nil {
			return err
		}
		return fn(v)
	}
}

// validate reports definition errors found at registration time.
func (a *Arg) validate(prefixChars string) error {
	if strings.TrimSpace(a.name) == "" {
		return definitionError(a.name, "argument name must not be empty")
	}
	for _, id := range a.Identifiers() {
		if strings.TrimLeft(id, prefixChars) == "" {
			return definitionError(a.name, "argument %s: identifier %q has no characters besides prefixes", a.name, id)
		}
	}
	if !a.arity.Valid() {
		pe := invalidArity(int(a.arity))
		pe.Argument = a.name
		return pe
	}
	if a.convert == nil && !a.hasConstant {
		return definitionError(a.name, "argument %s: no converter or constant", a.name)
	}
	return nil
}

// ArgBuilder provides a fluent interface for defining an argument whose
// tokens convert to T. Every method panics once the argument is registered.
type ArgBuilder[T any] struct {
	arg *Arg
}

// NewArg creates a builder for name using convert. A name starting with a
// prefix char (e.g. "--count") is optional; any other name is positional.
func NewArg[T any](name string, convert Converter[T]) *ArgBuilder[T] {
	a := &Arg{
		name:     name,
		arity:    ArityOne,
		typeName: typeNameOf[T](),
		collect: func(vals []any) any {
			out := make([]T, len(vals))
			for i, v := range vals {
				out[i], _ = v.(T)
			}
			return out
		},
	}
	if convert != nil {
		a.convert = func(s string) (any, error) { return convert(s) }
	}
	return &ArgBuilder[T]{arg: a}
}

func typeNameOf[T any]() string {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		return "value"
	}
	return t.String()
}

// Arg returns the underlying untyped definition.
func (b *ArgBuilder[T]) Arg() *Arg { return b.arg }

// Alias adds alternate identifiers.
func (b *ArgBuilder[T]) Alias(ids ...string) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.aliases = append(b.arg.aliases, ids...)
	return b
}

// Arity sets the consumption policy. Invalid values are reported by Parser.Add.
func (b *ArgBuilder[T]) Arity(a Arity) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.arity = a
	return b
}

// Required marks the argument as required
func (b *ArgBuilder[T]) Required() *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.required = true
	return b
}

// Default sets the value used when the argument does not appear.
func (b *ArgBuilder[T]) Default(v T) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.def, b.arg.hasDefault = v, true
	return b
}

// Defaults sets a slice default for multi-value arities.
func (b *ArgBuilder[T]) Defaults(vs ...T) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.def, b.arg.hasDefault = slices.Clone(vs), true
	return b
}

// Constant makes every consumed token resolve to v without conversion.
func (b *ArgBuilder[T]) Constant(v T) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.constant, b.arg.hasConstant = v, true
	return b
}

// Group places the argument under a dotted help group path ("net.tls").
func (b *ArgBuilder[T]) Group(path string) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.group = path
	return b
}

// Help sets the help text
func (b *ArgBuilder[T]) Help(text string) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.help = text
	return b
}

// MetaVar sets the value placeholders shown in help.
func (b *ArgBuilder[T]) MetaVar(names ...string) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.metaVars = names
	return b
}

// Key sets the result key instead of deriving it from the name.
func (b *ArgBuilder[T]) Key(key string) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.key = key
	return b
}

// IgnorePrefix strips p from each value token before conversion.
func (b *ArgBuilder[T]) IgnorePrefix(p string) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.ignoredPrefix = p
	return b
}

// IgnoreSuffix strips s from each value token before conversion.
func (b *ArgBuilder[T]) IgnoreSuffix(s string) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.ignoredSuffix = s
	return b
}

// Validate adds a check run on every converted value.
func (b *ArgBuilder[T]) Validate(fn func(T) error) *ArgBuilder[T] {
	b.arg.mutate()
	b.arg.addCheck(func(v any) error {
		t, ok := v.(T)
		if !ok {
			return fmt.Errorf("unexpected value type %T", v)
		}
		return fn(t)
	})
	return b
}

// Choices restricts converted values to the given set.
func Choices[T comparable](b *ArgBuilder[T], values ...T) *ArgBuilder[T] {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = fmt.Sprint(v)
	}
	b.Validate(ValidateOneOf(values...))
	b.arg.choices = labels
	return b
}

// ValidateOneOf returns a validator accepting only the listed values.
func ValidateOneOf[T comparable](values ...T) func(T) error {
	return func(v T) error {
		if slices.Contains(values, v) {
			return nil
		}
		labels := make([]string, len(values))
		for i, c := range values {
			labels[i] = fmt.Sprint(c)
		}
		return fmt.Errorf("invalid choice %v (choose from %s)", v, strings.Join(labels, ", "))
	}
}

// Range returns a validator accepting values in [lo, hi].
func Range[T int | int64 | uint | float64](lo, hi T) func(T) error {
	return func(v T) error {
		if v < lo || v > hi {
			return fmt.Errorf("value %v out of range [%v, %v]", v, lo, hi)
		}
		return nil
	}
}

// stringChoices restricts values by their printed form, for table definitions.
func (a *Arg) stringChoices(labels []string) {
	a.choices = slices.Clone(labels)
	a.addCheck(func(v any) error {
		s := fmt.Sprint(v)
		if slices.Contains(labels, s) {
			return nil
		}
		return errors.New("invalid choice " + s + " (choose from " + strings.Join(labels, ", ") + ")")
	})
}
