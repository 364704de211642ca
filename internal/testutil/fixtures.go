package testutil

import (
	"math"
	"math/rand/v2"

	"github.com/tphakala/go-pdm-decimator/internal/mathutil"
)

// Fixture dimensions matching a typical 3.072 MHz PDM microphone chain.
const (
	Stage1Taps   = 256 // One correlator block
	Stage1Factor = 32  // 3.072 MHz -> 96 kHz
	Stage2Taps   = 65  // Audio-rate lowpass
	Stage2Factor = 6   // 96 kHz -> 16 kHz

	stage1Cutoff      = 0.008 // ~24 kHz at 3.072 MHz
	stage2Cutoff      = 0.075 // ~7.2 kHz at 96 kHz
	stage1Attenuation = 60.0
	stage2Attenuation = 80.0
)

// Stage1Coefficients returns a realistic one-block stage-1 lowpass.
func Stage1Coefficients() []float64 {
	return mathutil.KaiserLowpass(Stage1Taps, stage1Cutoff, stage1Attenuation)
}

// Stage2Coefficients returns a realistic stage-2 lowpass.
func Stage2Coefficients() []float64 {
	return mathutil.KaiserLowpass(Stage2Taps, stage2Cutoff, stage2Attenuation)
}

// RandomPDM returns a deterministic pseudo-random ±1 stream.
func RandomPDM(n int, seed uint64) []int8 {
	r := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	out := make([]int8, n)
	for i := range out {
		out[i] = int8(2*r.IntN(2) - 1)
	}
	return out
}

// RandomInt32 returns deterministic samples uniformly spread over ±limit.
func RandomInt32(n int, limit int32, seed uint64) []int32 {
	r := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(r.Int64N(2*int64(limit)+1) - int64(limit))
	}
	return out
}

// Sine returns n samples of amplitude*sin(2π·freq·i) with freq normalized
// to the sample rate.
func Sine(n int, freq, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i))
	}
	return out
}

// ToFloat converts integer samples to float64.
func ToFloat[T Number](s []T) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}
