package decimator

import (
	"fmt"

	"github.com/tphakala/go-pdm-decimator/internal/simdops"
)

// TwoStageFilter chains a Stage1Filter into a Stage2Filter: the full
// PDM-to-PCM path. Stage-1 fixed-point output feeds stage 2 directly, with
// no floating-point round trip, as on the device.
type TwoStageFilter struct {
	s1  *Stage1Filter
	s2  *Stage2Filter
	cfg config
}

// Info describes a two-stage filter.
type Info struct {
	Stage1Taps       int     // Stage-1 tap count
	Stage1Blocks     int     // Stage-1 correlator blocks
	Stage1Decimation int     // Stage-1 decimation factor
	Stage2Taps       int     // Stage-2 tap count
	Stage2Decimation int     // Stage-2 decimation factor
	DecimationFactor int     // Overall decimation factor
	ShrInt32         int     // Stage-2 output shift
	OutputGain       float64 // Fixed-point to float path ratio
	SIMDType         string  // SIMD features used by the float path
}

// NewTwoStageFilter composes two stages.
func NewTwoStageFilter(s1 *Stage1Filter, s2 *Stage2Filter, opts ...Option) (*TwoStageFilter, error) {
	if s1 == nil || s2 == nil {
		return nil, fmt.Errorf("%w: both stages are required", ErrInvalidConfig)
	}
	return &TwoStageFilter{s1: s1, s2: s2, cfg: applyOptions(opts)}, nil
}

// Stage1 returns the first stage.
func (t *TwoStageFilter) Stage1() *Stage1Filter {
	return t.s1
}

// Stage2 returns the second stage.
func (t *TwoStageFilter) Stage2() *Stage2Filter {
	return t.s2
}

// DecimationFactor returns the product of both stage factors.
func (t *TwoStageFilter) DecimationFactor() int {
	return t.s1.DecimationFactor() * t.s2.DecimationFactor()
}

// OutputGain returns the ratio between Filter and FilterFloat output.
func (t *TwoStageFilter) OutputGain() float64 {
	return t.s1.OutputGain() * t.s2.OutputGain()
}

// Filter converts one channel of ±1 PDM samples to PCM:
// Stage2.FilterInt32(Stage1.FilterInt16(pdm)).
func (t *TwoStageFilter) Filter(pdm []int8) []int32 {
	return t.s2.FilterInt32(t.s1.FilterInt16(pdm))
}

// FilterMulti applies Filter to every channel.
func (t *TwoStageFilter) FilterMulti(pdm [][]int8) ([][]int32, error) {
	return processChannels(t.cfg, pdm, infallible(t.Filter))
}

// FilterFloat is the floating-point reference for Filter:
// Stage2.FilterFloat(Stage1.FilterFloat(signal)).
func (t *TwoStageFilter) FilterFloat(signal []float64) []float64 {
	return t.s2.FilterFloat(t.s1.FilterFloat(signal))
}

// FilterFloatMulti applies FilterFloat to every channel.
func (t *TwoStageFilter) FilterFloatMulti(signal [][]float64) ([][]float64, error) {
	return processChannels(t.cfg, signal, infallible(t.FilterFloat))
}

// GetInfo returns information about the filter chain.
func (t *TwoStageFilter) GetInfo() Info {
	return Info{
		Stage1Taps:       t.s1.TapCount(),
		Stage1Blocks:     t.s1.BlockCount(),
		Stage1Decimation: t.s1.DecimationFactor(),
		Stage2Taps:       t.s2.TapCount(),
		Stage2Decimation: t.s2.DecimationFactor(),
		DecimationFactor: t.DecimationFactor(),
		ShrInt32:         t.s2.ShrInt32(),
		OutputGain:       t.OutputGain(),
		SIMDType:         simdops.Info(),
	}
}
