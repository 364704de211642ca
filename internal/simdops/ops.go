// Package simdops routes the float reference filters through SIMD kernels
// from github.com/tphakala/simd.
package simdops

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Dot returns the dot product of a and b.
// The slices must have equal length; the caller guarantees it.
func Dot(a, b []float64) float64 {
	return f64.DotProductUnsafe(a, b)
}

// Scale writes a[i]*s to dst[i].
func Scale(dst, a []float64, s float64) {
	f64.Scale(dst, a, s)
}

// Info describes the SIMD features detected at runtime.
func Info() string {
	return cpu.Info()
}
