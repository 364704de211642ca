// Package firmware exports the quantized form of a two-stage decimator:
// the values a device build needs, as JSON and as a C header.
package firmware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	decimator "github.com/tphakala/go-pdm-decimator"
)

// ErrInvalidArtifacts is returned when loaded artifacts are inconsistent.
var ErrInvalidArtifacts = errors.New("firmware: invalid artifacts")

// Stage1Artifacts holds the stage-1 values loaded by the device.
type Stage1Artifacts struct {
	DecimationFactor int      `json:"decimation_factor"`
	Scale            float64  `json:"scale"`
	Coefs            []int16  `json:"coefs"`
	Packed           []uint32 `json:"packed"`
}

// Stage2Artifacts holds the stage-2 values loaded by the device.
type Stage2Artifacts struct {
	DecimationFactor int     `json:"decimation_factor"`
	Scale            float64 `json:"scale"`
	Coefs            []int32 `json:"coefs"`
	Shr              int     `json:"shr"`
}

// Artifacts is everything a device build takes from a TwoStageFilter.
type Artifacts struct {
	Stage1 Stage1Artifacts `json:"stage1"`
	Stage2 Stage2Artifacts `json:"stage2"`
}

// NewArtifacts collects the artifacts of f.
func NewArtifacts(f *decimator.TwoStageFilter) Artifacts {
	s1, s2 := f.Stage1(), f.Stage2()
	return Artifacts{
		Stage1: Stage1Artifacts{
			DecimationFactor: s1.DecimationFactor(),
			Scale:            s1.ScaleInt16(),
			Coefs:            s1.CoefInt16(),
			Packed:           s1.ToXCoreCoefArray(),
		},
		Stage2: Stage2Artifacts{
			DecimationFactor: s2.DecimationFactor(),
			Scale:            s2.ScaleInt32(),
			Coefs:            s2.CoefInt32(),
			Shr:              s2.ShrInt32(),
		},
	}
}

// Validate checks the structural relations between the fields.
func (a Artifacts) Validate() error {
	taps := len(a.Stage1.Coefs)
	switch {
	case taps == 0 || taps%decimator.BlockSize != 0:
		return fmt.Errorf("%w: %d stage-1 taps", ErrInvalidArtifacts, taps)
	case len(a.Stage1.Packed) != taps/2:
		return fmt.Errorf("%w: %d packed words for %d taps", ErrInvalidArtifacts, len(a.Stage1.Packed), taps)
	case len(a.Stage2.Coefs) == 0:
		return fmt.Errorf("%w: no stage-2 taps", ErrInvalidArtifacts)
	case a.Stage1.DecimationFactor < 1 || a.Stage1.DecimationFactor > taps:
		return fmt.Errorf("%w: stage-1 decimation %d", ErrInvalidArtifacts, a.Stage1.DecimationFactor)
	case a.Stage2.DecimationFactor < 1 || a.Stage2.DecimationFactor > len(a.Stage2.Coefs):
		return fmt.Errorf("%w: stage-2 decimation %d", ErrInvalidArtifacts, a.Stage2.DecimationFactor)
	}
	return nil
}

// WriteJSON writes a as indented JSON.
func (a Artifacts) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("failed to encode artifacts: %w", err)
	}
	return nil
}

// ReadJSON reads and validates artifacts written by WriteJSON.
func ReadJSON(r io.Reader) (Artifacts, error) {
	var a Artifacts
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return Artifacts{}, fmt.Errorf("failed to decode artifacts: %w", err)
	}
	if err := a.Validate(); err != nil {
		return Artifacts{}, err
	}
	return a, nil
}
