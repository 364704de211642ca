// Package quant converts floating-point filter coefficients into the
// fixed-point forms consumed by the decimator hardware.
//
// Three transforms live here:
//
//   - Scale factor derivation and rounding to int16/int32 taps
//   - The 16-plane "dual" bipolar encoding of int16 taps
//   - Packing of binary coefficient planes into 32-bit correlator words
package quant

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Integer is the set of tap widths supported by Quantize.
type Integer interface {
	~int16 | ~int32
}

// PeakIndex returns the index of the first coefficient with the largest
// magnitude. coefs must not be empty.
func PeakIndex(coefs []float64) int {
	mag := make([]float64, len(coefs))
	for i, c := range coefs {
		mag[i] = math.Abs(c)
	}
	return floats.MaxIdx(mag)
}

// ScaleFactor returns maxCoef / coefs[PeakIndex(coefs)].
//
// The peak keeps its sign, so a set whose largest tap is negative gets a
// negative scale and the quantized set comes out sign-inverted with a
// positive peak.
func ScaleFactor(coefs []float64, maxCoef float64) float64 {
	return maxCoef / coefs[PeakIndex(coefs)]
}

// Quantize returns round(scale*c) for every coefficient, clipped to the
// range of T. Ties round to even.
func Quantize[T Integer](coefs []float64, scale float64) []T {
	lo, hi := limits[T]()
	out := make([]T, len(coefs))
	for i, c := range coefs {
		v := math.RoundToEven(scale * c)
		switch {
		case v < lo:
			v = lo
		case v > hi:
			v = hi
		}
		out[i] = T(v)
	}
	return out
}

func limits[T Integer]() (lo, hi float64) {
	var zero T
	switch any(zero).(type) {
	case int16:
		return math.MinInt16, math.MaxInt16
	default:
		return math.MinInt32, math.MaxInt32
	}
}
