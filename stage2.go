package decimator

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-pdm-decimator/internal/quant"
	"github.com/tphakala/go-pdm-decimator/internal/simdops"
)

// Stage2Filter is the second, audio-rate decimation stage: a causal FIR
// over stage-1 output with int32 taps and a derived right shift.
type Stage2Filter struct {
	decimation int
	coefs      []float64
	scaleInt32 float64
	coefsInt32 []int32
	shrInt32   int

	// Time-reversed taps used for windowing.
	reversed    []float64
	reversedInt []int64

	cfg config
}

// NewStage2Filter quantizes coefs into a stage-2 filter. There is no block
// alignment requirement; the largest tap magnitude must not exceed 1.0.
func NewStage2Filter(coefs []float64, decimationFactor int, opts ...Option) (*Stage2Filter, error) {
	if err := validateCoefficients(coefs); err != nil {
		return nil, err
	}
	if err := validateDecimation(decimationFactor, len(coefs)); err != nil {
		return nil, err
	}

	f := &Stage2Filter{
		decimation: decimationFactor,
		coefs:      slices.Clone(coefs),
		scaleInt32: quant.ScaleFactor(coefs, Int32MaxCoefficient),
		cfg:        applyOptions(opts),
	}
	f.coefsInt32 = quant.Quantize[int32](f.coefs, f.scaleInt32)
	f.shrInt32 = rightShift(f.coefsInt32)

	f.reversed = slices.Clone(f.coefs)
	slices.Reverse(f.reversed)
	f.reversedInt = make([]int64, len(f.coefsInt32))
	for i, c := range f.coefsInt32 {
		f.reversedInt[len(f.coefsInt32)-1-i] = int64(c)
	}

	return f, nil
}

// rightShift derives the output shift from the worst case a one-block
// stage-1 filter can feed in: stage1MaxBlockOutput on every sample, signed
// to match each tap. With M = sum(max·sign(c)·c·2^-30), the shift is
// floor(log2(M) - 30), which keeps the rescaled worst case in [2^30, 2^31).
func rightShift(taps []int32) int {
	worst := make([]float64, len(taps))
	scaled := make([]float64, len(taps))
	for i, c := range taps {
		switch {
		case c > 0:
			worst[i] = stage1MaxBlockOutput
		case c < 0:
			worst[i] = -stage1MaxBlockOutput
		}
		scaled[i] = math.Ldexp(float64(c), -stage2FracBits)
	}

	maxOut := floats.Dot(worst, scaled)
	return int(math.Floor(math.Log2(maxOut) - stage2FracBits))
}

// DecimationFactor returns the input samples consumed per output sample.
func (f *Stage2Filter) DecimationFactor() int {
	return f.decimation
}

// TapCount returns the number of taps.
func (f *Stage2Filter) TapCount() int {
	return len(f.coefs)
}

// Coef returns a copy of the floating-point taps.
func (f *Stage2Filter) Coef() []float64 {
	return slices.Clone(f.coefs)
}

// CoefInt32 returns a copy of the quantized taps.
func (f *Stage2Filter) CoefInt32() []int32 {
	return slices.Clone(f.coefsInt32)
}

// ScaleInt32 returns the factor the float taps were multiplied by before
// rounding.
func (f *Stage2Filter) ScaleInt32() float64 {
	return f.scaleInt32
}

// ShrInt32 returns the right shift applied to the 30-bit fractional
// accumulator. It may be negative for filters with very small gain.
func (f *Stage2Filter) ShrInt32() int {
	return f.shrInt32
}

// OutputGain returns the ratio between FilterInt32 and FilterFloat output
// for the same input, ScaleInt32 * 2^(-30-ShrInt32).
func (f *Stage2Filter) OutputGain() float64 {
	return math.Ldexp(f.scaleInt32, -stage2FracBits-f.shrInt32)
}

// FilterFloat filters one channel with the time-reversed floating-point
// taps over input preceded by TapCount-DecimationFactor zeros. The output
// has len(signal)/Q samples.
func (f *Stage2Filter) FilterFloat(signal []float64) []float64 {
	taps, q := len(f.coefs), f.decimation
	padded := padZero(signal, taps-q)

	out := make([]float64, len(signal)/q)
	for k := range out {
		out[k] = simdops.Dot(padded[q*k:q*k+taps], f.reversed)
	}
	return out
}

// FilterFloatMulti applies FilterFloat to every channel.
func (f *Stage2Filter) FilterFloatMulti(signal [][]float64) ([][]float64, error) {
	return processChannels(f.cfg, signal, infallible(f.FilterFloat))
}

// FilterInt32 filters one channel with the int32 taps, windowed like
// FilterFloat. Products are exact 64-bit values, the sum is scaled by
// 2^(-30-ShrInt32), rounded half to even and saturated to int32.
//
// This is the mathematically exact result, not a replica of every internal
// rounding step of the device's fixed-point filter routine, so device
// output may differ from it by a few LSBs.
func (f *Stage2Filter) FilterInt32(signal []int32) []int32 {
	taps, q := len(f.coefs), f.decimation
	padded := padZero(signal, taps-q)
	scale := math.Ldexp(1, -stage2FracBits-f.shrInt32)

	out := make([]int32, len(signal)/q)
	for k := range out {
		window := padded[q*k : q*k+taps]
		var acc wideAccumulator
		for i, c := range f.reversedInt {
			acc.add(int64(window[i]) * c)
		}
		out[k] = saturate(math.RoundToEven(acc.float() * scale))
	}
	return out
}

// FilterInt32Multi applies FilterInt32 to every channel.
func (f *Stage2Filter) FilterInt32Multi(signal [][]int32) ([][]int32, error) {
	return processChannels(f.cfg, signal, infallible(f.FilterInt32))
}

func saturate(v float64) int32 {
	switch {
	case v >= int32Limit:
		return math.MaxInt32
	case v < -int32Limit:
		return math.MinInt32
	default:
		return int32(v)
	}
}
