package decimator

import (
	"fmt"
	"math"

	"github.com/tphakala/go-pdm-decimator/internal/quant"
)

// CoefficientSet is one stage's floating-point taps and decimation factor,
// the form in which designed coefficients are handed to the decimator.
type CoefficientSet struct {
	// Coefficients are the real-valued taps, peak magnitude at most 1.0.
	Coefficients []float64

	// DecimationFactor is the output stride in input samples.
	DecimationFactor int
}

// Validate checks the constraints shared by both stages.
// Stage-1 block alignment is checked by NewStage1Filter.
func (s CoefficientSet) Validate() error {
	if err := validateCoefficients(s.Coefficients); err != nil {
		return err
	}
	return validateDecimation(s.DecimationFactor, len(s.Coefficients))
}

// TruncateToBlocks drops the tail of coefs so its length is a multiple of
// BlockSize. The result aliases coefs.
func TruncateToBlocks(coefs []float64) []float64 {
	return coefs[:len(coefs)-len(coefs)%BlockSize]
}

// NewTwoStageFromSets builds both stages and their composition.
// When truncateStage1 is set, the stage-1 taps are cut down to whole
// blocks first.
func NewTwoStageFromSets(stage1, stage2 CoefficientSet, truncateStage1 bool, opts ...Option) (*TwoStageFilter, error) {
	s1coefs := stage1.Coefficients
	if truncateStage1 {
		s1coefs = TruncateToBlocks(s1coefs)
	}

	s1, err := NewStage1Filter(s1coefs, stage1.DecimationFactor, opts...)
	if err != nil {
		return nil, fmt.Errorf("stage 1: %w", err)
	}

	s2, err := NewStage2Filter(stage2.Coefficients, stage2.DecimationFactor, opts...)
	if err != nil {
		return nil, fmt.Errorf("stage 2: %w", err)
	}

	return NewTwoStageFilter(s1, s2, opts...)
}

// validateCoefficients checks that coefs is non-empty, finite, and has a
// peak magnitude in (0, 1].
func validateCoefficients(coefs []float64) error {
	if len(coefs) == 0 {
		return fmt.Errorf("%w: coefficient set is empty", ErrShapeMismatch)
	}

	for i, c := range coefs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: coefficient %d is %v", ErrCoefficientRange, i, c)
		}
	}

	t := quant.PeakIndex(coefs)
	peak := math.Abs(coefs[t])
	if peak > 1.0 {
		return fmt.Errorf("%w: coefficient %d is %v", ErrCoefficientRange, t, coefs[t])
	}
	if peak == 0 {
		return fmt.Errorf("%w: all coefficients are zero", ErrCoefficientRange)
	}
	return nil
}

// validateDecimation checks that the left padding taps-q is non-negative.
func validateDecimation(q, taps int) error {
	if q < 1 || q > taps {
		return fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidDecimation, q, taps)
	}
	return nil
}
