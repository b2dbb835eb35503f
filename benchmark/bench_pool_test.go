//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"testing"

	intern "github.com/dzonerzy/go-argparse/internal/intern"
	pool "github.com/dzonerzy/go-argparse/internal/pool"
)

// Category: pool

func BenchmarkPool_GetPut(b *testing.B) {
	p := pool.NewPool(func() *[]byte {
		buf := make([]byte, 0, 1024)
		return &buf
	})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			obj := p.Get()
			p.Put(obj)
		}
	})
}

func BenchmarkBuilderPool(b *testing.B) {
	b.Run("Pool", func(b *testing.B) {
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				sb := pool.GetBuilder()
				sb.WriteString("usage: prog [--help] input")
				_ = sb.String()
				pool.PutBuilder(sb)
			}
		})
	})

	b.Run("Direct", func(b *testing.B) {
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				var sb []byte
				sb = append(sb, "usage: prog [--help] input"...)
				_ = string(sb)
			}
		})
	})
}

func BenchmarkStringSlicePool(b *testing.B) {
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			slice := pool.GetStringSlice()
			*slice = append(*slice, "input", "--port", "9000", "--verbose")
			pool.PutStringSlice(slice)
		}
	})
}

// Category: intern

func BenchmarkNormalizer(b *testing.B) {
	tokens := []string{"--port", "--Verbose", "-h", "--CONFIG", "input"}

	b.Run("Cached", func(b *testing.B) {
		n := intern.NewNormalizer("-", true)
		n.Preload(tokens)
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			i := 0
			for pb.Next() {
				n.Normalize(tokens[i%len(tokens)])
				i++
			}
		})
	})

	b.Run("Equal", func(b *testing.B) {
		n := intern.NewNormalizer("-", true)
		for i := 0; i < b.N; i++ {
			n.Equal("--verbose", "-VERBOSE")
		}
	})
}
