package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	decimator "github.com/tphakala/go-pdm-decimator"
)

// Deviation compares the magnitude response of a quantized coefficient set
// with that of the floating-point set it came from.
type Deviation struct {
	MaxAbs     float64 // Largest magnitude difference over all bins
	Peak       float64 // Largest magnitude of the reference response
	RelativeDB float64 // MaxAbs relative to Peak in dB
}

// Response returns the magnitude response of coefs at n/2+1 evenly spaced
// frequencies from DC to Nyquist. n must be at least len(coefs).
func Response(coefs []float64, n int) ([]float64, error) {
	if n < 1 || n < len(coefs) {
		return nil, fmt.Errorf("%w: %d for %d taps", ErrInvalidLength, n, len(coefs))
	}

	padded := make([]float64, n)
	copy(padded, coefs)

	spectrum := fourier.NewFFT(n).Coefficients(nil, padded)
	mag := make([]float64, len(spectrum))
	for i, c := range spectrum {
		mag[i] = cmplx.Abs(c)
	}
	return mag, nil
}

// Integer is the set of quantized tap types.
type Integer interface {
	~int16 | ~int32
}

// CoefficientDeviation measures quantized/scale against coefs over an
// n-point transform.
func CoefficientDeviation[T Integer](coefs []float64, quantized []T, scale float64, n int) (Deviation, error) {
	if len(coefs) != len(quantized) {
		return Deviation{}, fmt.Errorf("%w: %d and %d taps", ErrLengthMismatch, len(coefs), len(quantized))
	}
	if scale == 0 {
		return Deviation{}, fmt.Errorf("%w: zero scale", ErrInvalidGain)
	}

	restored := make([]float64, len(quantized))
	for i, q := range quantized {
		restored[i] = float64(q)
	}
	floats.Scale(1/scale, restored)

	ref, err := Response(coefs, n)
	if err != nil {
		return Deviation{}, err
	}
	got, err := Response(restored, n)
	if err != nil {
		return Deviation{}, err
	}

	d := Deviation{
		MaxAbs: floats.Distance(ref, got, math.Inf(1)),
		Peak:   floats.Max(ref),
	}
	d.RelativeDB = decibels(d.MaxAbs, d.Peak)
	return d, nil
}

// Stage1Deviation measures the int16 taps of f.
func Stage1Deviation(f *decimator.Stage1Filter, n int) (Deviation, error) {
	return CoefficientDeviation(f.Coef(), f.CoefInt16(), f.ScaleInt16(), n)
}

// Stage2Deviation measures the int32 taps of f.
func Stage2Deviation(f *decimator.Stage2Filter, n int) (Deviation, error) {
	return CoefficientDeviation(f.Coef(), f.CoefInt32(), f.ScaleInt32(), n)
}

// DominantFrequency returns the frequency, in cycles per sample, of the
// strongest non-DC bin of signal.
func DominantFrequency(signal []float64) (float64, error) {
	if len(signal) < 2 {
		return 0, fmt.Errorf("%w: %d samples", ErrEmptySignal, len(signal))
	}

	mean := stat.Mean(signal, nil)
	centered := make([]float64, len(signal))
	for i, v := range signal {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(len(signal))
	spectrum := fft.Coefficients(nil, centered)

	best, bestMag := 1, 0.0
	for i := 1; i < len(spectrum); i++ {
		if m := cmplx.Abs(spectrum[i]); m > bestMag {
			best, bestMag = i, m
		}
	}
	return fft.Freq(best), nil
}
