// Package pool provides typed object pooling for go-argparse.
// Help and usage rendering borrow builders from here instead of allocating
// one per render.
package pool

import (
	"strings"
	"sync"
)

// Pool is a generic, type-safe wrapper over sync.Pool
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T) // called before an object is handed out again
}

// NewPool creates a pool with the given factory
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{New: func() any { return factory() }},
	}
}

// NewPoolWithReset creates a pool whose objects are reset before reuse
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// maxRetained caps the size of builders kept for reuse so one huge help
// page does not pin its buffer forever.
const maxRetained = 64 << 10

var builders = NewPoolWithReset(
	func() *strings.Builder { return &strings.Builder{} },
	func(b *strings.Builder) { b.Reset() },
)

// GetBuilder returns an empty builder
func GetBuilder() *strings.Builder { return builders.Get() }

// PutBuilder returns b to the pool
func PutBuilder(b *strings.Builder) {
	if b == nil || b.Cap() > maxRetained {
		return
	}
	builders.Put(b)
}

var stringSlices = NewPoolWithReset(
	func() *[]string {
		s := make([]string, 0, 16)
		return &s
	},
	func(s *[]string) { *s = (*s)[:0] },
)

// GetStringSlice returns an empty slice with spare capacity
func GetStringSlice() *[]string { return stringSlices.Get() }

// PutStringSlice returns s to the pool
func PutStringSlice(s *[]string) { stringSlices.Put(s) }
