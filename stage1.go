package decimator

import (
	"fmt"
	"slices"

	"github.com/tphakala/go-pdm-decimator/internal/quant"
	"github.com/tphakala/go-pdm-decimator/internal/simdops"
)

// Stage1Filter is the first, PDM-rate decimation stage.
//
// Its taps are quantized to int16 and split into BitPlanes binary planes,
// one bit per tap per plane, which the hardware correlates block by block
// against the 1-bit PDM stream. All derived forms are computed once by
// NewStage1Filter; the filter is immutable and safe for concurrent use.
type Stage1Filter struct {
	decimation int
	coefs      []float64
	scaleInt16 float64
	coefsInt16 []int16
	bipolar    [][]int8  // taps × BitPlanes
	binary     [][]uint8 // BitPlanes × taps
	cfg        config
}

// NewStage1Filter quantizes coefs into a stage-1 filter.
//
// The tap count must be a positive multiple of BlockSize and the largest
// tap magnitude must not exceed 1.0. The hardware stage runs with
// DefaultStage1DecimationFactor.
func NewStage1Filter(coefs []float64, decimationFactor int, opts ...Option) (*Stage1Filter, error) {
	if len(coefs) == 0 {
		return nil, fmt.Errorf("%w: stage 1 coefficient set is empty", ErrShapeMismatch)
	}
	if len(coefs)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: stage 1 needs a multiple of %d coefficients, got %d",
			ErrBlockAlignment, BlockSize, len(coefs))
	}
	if err := validateCoefficients(coefs); err != nil {
		return nil, err
	}
	if err := validateDecimation(decimationFactor, len(coefs)); err != nil {
		return nil, err
	}

	f := &Stage1Filter{
		decimation: decimationFactor,
		coefs:      slices.Clone(coefs),
		scaleInt16: quant.ScaleFactor(coefs, Int16MaxCoefficient),
		cfg:        applyOptions(opts),
	}
	f.coefsInt16 = quant.Quantize[int16](f.coefs, f.scaleInt16)
	f.bipolar = quant.BipolarMatrix(f.coefsInt16)
	f.binary = quant.BinaryMatrix(f.bipolar)

	return f, nil
}

// DecimationFactor returns the input samples consumed per output sample.
func (f *Stage1Filter) DecimationFactor() int {
	return f.decimation
}

// TapCount returns the number of taps.
func (f *Stage1Filter) TapCount() int {
	return len(f.coefs)
}

// BlockCount returns the number of BlockSize correlator blocks.
func (f *Stage1Filter) BlockCount() int {
	return len(f.coefs) / BlockSize
}

// Coef returns a copy of the floating-point taps.
func (f *Stage1Filter) Coef() []float64 {
	return slices.Clone(f.coefs)
}

// CoefInt16 returns a copy of the quantized taps.
func (f *Stage1Filter) CoefInt16() []int16 {
	return slices.Clone(f.coefsInt16)
}

// ScaleInt16 returns the factor the float taps were multiplied by before
// rounding. It is negative when the peak tap is negative.
func (f *Stage1Filter) ScaleInt16() float64 {
	return f.scaleInt16
}

// CoefBipolar returns a copy of the taps × BitPlanes ±1 matrix.
// Row i satisfies sum(2^k * row[k]) == 2*CoefInt16()[i] + 1.
func (f *Stage1Filter) CoefBipolar() [][]int8 {
	out := make([][]int8, len(f.bipolar))
	for i, row := range f.bipolar {
		out[i] = slices.Clone(row)
	}
	return out
}

// CoefBinary returns a copy of the BitPlanes × taps {0,1} matrix,
// (1 - CoefBipolar()ᵀ) / 2.
func (f *Stage1Filter) CoefBinary() [][]uint8 {
	out := make([][]uint8, len(f.binary))
	for k, row := range f.binary {
		out[k] = slices.Clone(row)
	}
	return out
}

// OutputGain returns the ratio between FilterInt16 and FilterFloat output
// for the same input, ScaleInt16 * 2^8.
func (f *Stage1Filter) OutputGain() float64 {
	return f.scaleInt16 * (1 << stage1OutputShift)
}

// FilterFloat filters one channel with the floating-point taps.
//
// The input is preceded by TapCount-DecimationFactor samples of the
// alternating idle pattern, and output k is the dot product of the taps with
// padded input [Q·k, Q·k+TapCount). The output has len(signal)/Q samples.
func (f *Stage1Filter) FilterFloat(signal []float64) []float64 {
	taps, q := len(f.coefs), f.decimation
	padded := padAlternating(signal, taps-q)

	out := make([]float64, len(signal)/q)
	for k := range out {
		out[k] = simdops.Dot(padded[q*k:q*k+taps], f.coefs)
	}
	return out
}

// FilterFloatMulti applies FilterFloat to every channel of a
// channels × samples signal.
func (f *Stage1Filter) FilterFloatMulti(signal [][]float64) ([][]float64, error) {
	return processChannels(f.cfg, signal, infallible(f.FilterFloat))
}

// FilterInt16 filters one channel of ±1 PDM samples with the int16 taps,
// windowed like FilterFloat. Accumulation is 32-bit and the result is
// shifted left by 8 bits, as the device does after this stage.
func (f *Stage1Filter) FilterInt16(pdm []int8) []int32 {
	taps, q := len(f.coefs), f.decimation
	padded := padAlternating(pdm, taps-q)

	out := make([]int32, len(pdm)/q)
	for k := range out {
		window := padded[q*k : q*k+taps]
		var acc int32
		for i, c := range f.coefsInt16 {
			acc += int32(window[i]) * int32(c)
		}
		out[k] = acc << stage1OutputShift
	}
	return out
}

// FilterInt16Multi applies FilterInt16 to every channel.
func (f *Stage1Filter) FilterInt16Multi(pdm [][]int8) ([][]int32, error) {
	return processChannels(f.cfg, pdm, infallible(f.FilterInt16))
}

// FilterBitwise produces the FilterInt16 result the way the hardware does:
// every padded window is packed like ToXCoreCoefArray and correlated with
// each coefficient bit plane, block by block.
//
// With corr_k the plane-k correlation and corr_0 the correlation with an
// all-zero block, sum(c·x) = sum(2^k·corr_k) - corr_0 because every tap
// is stored as the odd value 2c+1.
//
// Samples must be -1 or +1.
func (f *Stage1Filter) FilterBitwise(pdm []int8) ([]int32, error) {
	for i, v := range pdm {
		if v != 1 && v != -1 {
			return nil, fmt.Errorf("%w: sample %d is %d", ErrNotBipolar, i, v)
		}
	}

	taps, q, blocks := len(f.coefs), f.decimation, f.BlockCount()
	words := f.ToXCoreCoefArray()
	padded := padAlternating(pdm, taps-q)

	bits := make([]uint8, BlockSize)
	var sig, zero [WordsPerBlock]uint32

	out := make([]int32, len(pdm)/q)
	for k := range out {
		var acc int32
		for b := range blocks {
			start := q*k + b*BlockSize
			for j, v := range padded[start : start+BlockSize] {
				bits[j] = uint8((1 - v) / 2)
			}
			quant.PackBlock(&sig, bits)

			for plane := range BitPlanes {
				off := (plane*blocks + b) * WordsPerBlock
				coef := (*[WordsPerBlock]uint32)(words[off : off+WordsPerBlock])
				acc += CorrelateWords(coef, &sig, 0) << plane
			}
			acc -= CorrelateWords(&zero, &sig, 0)
		}
		out[k] = acc << stage1OutputShift
	}
	return out, nil
}

// ToXCoreCoefArray packs the binary coefficient planes into the word layout
// the hardware correlator reads: plane by plane, block by block, each
// 256-bit block bit-reversed and packed MSB first. The result has
// TapCount/2 words and is rebuilt on every call.
func (f *Stage1Filter) ToXCoreCoefArray() []uint32 {
	return quant.PackMatrix(f.binary)
}
