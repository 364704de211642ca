package decimator

import "errors"

// Common errors returned by the decimator.
var (
	// ErrShapeMismatch indicates an empty coefficient set, a correlator
	// block of the wrong length, or ragged multi-channel input.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrBlockAlignment indicates a stage-1 tap count that is not a
	// positive multiple of BlockSize.
	ErrBlockAlignment = errors.New("coefficient count not block aligned")

	// ErrCoefficientRange indicates a peak coefficient magnitude outside
	// (0, 1], or a non-finite coefficient.
	ErrCoefficientRange = errors.New("coefficients must be scaled to the range [-1.0, 1.0]")

	// ErrInvalidDecimation indicates a decimation factor below one or
	// above the tap count.
	ErrInvalidDecimation = errors.New("invalid decimation factor")

	// ErrNotBinary indicates a correlator input value other than 0 or 1.
	ErrNotBinary = errors.New("value is not binary")

	// ErrNotBipolar indicates a PDM sample other than -1 or +1.
	ErrNotBipolar = errors.New("sample is not bipolar")

	// ErrInvalidConfig indicates an incomplete filter composition.
	ErrInvalidConfig = errors.New("invalid decimator configuration")
)
