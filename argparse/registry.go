package argparse

import (
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Factory creates an argument definition named name.
type Factory func(name string) *Arg

// Registry maps type names used by tables ("int", "duration") to argument
// factories, and Go types to those names for struct-tag definitions.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Factory
	byType map[reflect.Type]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Factory),
		byType: make(map[reflect.Type]string),
	}
}

// DefaultRegistry returns a new registry holding the built-in types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterType[string](r, "string", ParseString, ArityOne)
	RegisterType[bool](r, "bool", ParseBool, ArityZero)
	RegisterType(r, "int", ParseInt, ArityOne)
	RegisterType(r, "int8", ParseInt8, ArityOne)
	RegisterType(r, "int16", ParseInt16, ArityOne)
	RegisterType(r, "int32", ParseInt32, ArityOne)
	RegisterType(r, "int64", ParseInt64, ArityOne)
	RegisterType(r, "uint", ParseUint, ArityOne)
	RegisterType(r, "uint8", ParseUint8, ArityOne)
	RegisterType(r, "uint16", ParseUint16, ArityOne)
	RegisterType(r, "uint32", ParseUint32, ArityOne)
	RegisterType(r, "uint64", ParseUint64, ArityOne)
	RegisterType(r, "float32", ParseFloat32, ArityOne)
	RegisterType(r, "float64", ParseFloat64, ArityOne)
	RegisterType[time.Duration](r, "duration", ParseDuration, ArityOne)
	RegisterType[*semver.Version](r, "version", ParseVersion, ArityOne)
	RegisterType[uuid.UUID](r, "uuid", ParseUUID, ArityOne)

	// rune is int32 to reflect, so it is only reachable by name.
	r.Register("rune", nil, func(name string) *Arg { return Rune(name).Arg() })
	r.Register("file", nil, func(name string) *Arg { return File(name).Arg() })
	r.Register("path", nil, func(name string) *Arg { return File(name).Arg() })
	r.Register("flag", nil, func(name string) *Arg { return Flag(name).Arg() })
	r.Register("float", nil, func(name string) *Arg { return Float64(name).Arg() })
	return r
}

// RegisterType registers typeName for T using conv and a default arity.
func RegisterType[T any](r *Registry, typeName string, conv Converter[T], arity Arity) *Registry {
	return r.Register(typeName, reflect.TypeFor[T](), func(name string) *Arg {
		return NewArg(name, conv).Arity(arity).Arg()
	})
}

// Register adds or replaces the factory for typeName. A non-nil typ also
// maps that Go type to typeName for NameFor.
func (r *Registry) Register(typeName string, typ reflect.Type, f Factory) *Registry {
	key := strings.ToLower(typeName)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[key] = f
	if typ != nil {
		r.byType[typ] = key
	}
	return r
}

// New creates an argument of the named type.
func (r *Registry) New(typeName, name string) (*Arg, error) {
	r.mu.RLock()
	f, ok := r.byName[strings.ToLower(typeName)]
	r.mu.RUnlock()
	if !ok {
		return nil, definitionError(name, "argument %s: unknown type %q", name, typeName)
	}
	return f(name), nil
}

// NameFor returns the type name registered for t.
func (r *Registry) NameFor(t reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byType[t]
	return name, ok
}

// Has reports whether typeName is registered.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[strings.ToLower(typeName)]
	return ok
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

