package decimator

import (
	"math"

	"github.com/tphakala/go-pdm-decimator/internal/quant"
)

// Correlator geometry
const (
	BlockSize     = quant.BlockBits     // Taps per correlator block
	WordsPerBlock = quant.WordsPerBlock // 32-bit words per packed block
	BitPlanes     = quant.Planes        // Bit planes per stage-1 tap
)

// Fixed-point coefficient formats
const (
	Int16MaxCoefficient = 32766         // Peak stage-1 tap after quantization
	Int32MaxCoefficient = math.MaxInt32 // Peak stage-2 tap after quantization
)

// Stage parameters
const (
	// DefaultStage1DecimationFactor is the stage-1 factor used by the
	// hardware (3.072 MHz PDM -> 96 kHz).
	DefaultStage1DecimationFactor = 32

	stage1OutputShift    = 8          // Left shift applied to stage-1 output on device
	stage1MaxBlockOutput = 0x7FFFFF00 // Largest value a one-block stage-1 filter can output
	stage2FracBits       = 30         // Fractional bits of the stage-2 accumulator
)

// int32Limit bounds the rescaled stage-2 output before saturation.
const int32Limit = 1 << 31
