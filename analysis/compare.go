// Package analysis measures how closely the fixed-point decimator tracks
// its floating-point reference, both on signals and on coefficient sets.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/go-pdm-decimator/internal/simdops"
)

// Errors returned by the analysis functions.
var (
	ErrEmptySignal    = errors.New("analysis: empty signal")
	ErrLengthMismatch = errors.New("analysis: length mismatch")
	ErrInvalidGain    = errors.New("analysis: invalid gain")
	ErrInvalidLength  = errors.New("analysis: invalid transform length")
)

// Report summarizes the error of a fixed-point signal against its
// floating-point reference, measured in reference units.
type Report struct {
	Samples     int     // Number of compared samples
	MaxAbsError float64 // Largest absolute error
	MeanError   float64 // Mean error (bias)
	RMSError    float64 // Root mean square error
	SignalRMS   float64 // Root mean square of the reference
	SNR         float64 // SignalRMS over RMSError in dB; +Inf when exact
}

// String returns a one-line summary.
func (r Report) String() string {
	return fmt.Sprintf("n=%d max=%.3g rms=%.3g bias=%.3g snr=%.1f dB",
		r.Samples, r.MaxAbsError, r.RMSError, r.MeanError, r.SNR)
}

// Compare divides fixed by gain and measures it against ref.
// gain is the fixed-to-float ratio reported by the filter's OutputGain.
func Compare(ref []float64, fixed []int32, gain float64) (Report, error) {
	switch {
	case len(ref) == 0:
		return Report{}, ErrEmptySignal
	case len(ref) != len(fixed):
		return Report{}, fmt.Errorf("%w: %d reference and %d fixed samples", ErrLengthMismatch, len(ref), len(fixed))
	case gain == 0 || math.IsNaN(gain) || math.IsInf(gain, 0):
		return Report{}, fmt.Errorf("%w: %v", ErrInvalidGain, gain)
	}

	scaled := make([]float64, len(fixed))
	for i, v := range fixed {
		scaled[i] = float64(v)
	}
	simdops.Scale(scaled, scaled, 1/gain)

	diff := make([]float64, len(ref))
	floats.SubTo(diff, scaled, ref)

	n := math.Sqrt(float64(len(ref)))
	r := Report{
		Samples:     len(ref),
		MaxAbsError: floats.Distance(scaled, ref, math.Inf(1)),
		MeanError:   stat.Mean(diff, nil),
		RMSError:    floats.Norm(diff, 2) / n,
		SignalRMS:   floats.Norm(ref, 2) / n,
	}
	r.SNR = decibels(r.SignalRMS, r.RMSError)
	return r, nil
}

func decibels(signal, noise float64) float64 {
	if noise == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(signal/noise)
}
