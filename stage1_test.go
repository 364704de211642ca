package decimator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-pdm-decimator/internal/mathutil"
	"github.com/tphakala/go-pdm-decimator/internal/quant"
	"github.com/tphakala/go-pdm-decimator/internal/testutil"
)

const (
	testPadding = BlockSize - DefaultStage1DecimationFactor // 224
	allOnesWord = 0xFFFFFFFF
)

// singleTap returns n zero taps with tap j set to v.
func singleTap(n, j int, v float64) []float64 {
	coefs := make([]float64, n)
	coefs[j] = v
	return coefs
}

func constant(n int, v float64) []float64 {
	coefs := make([]float64, n)
	for i := range coefs {
		coefs[i] = v
	}
	return coefs
}

func newTestStage1(t *testing.T, coefs []float64, q int) *Stage1Filter {
	t.Helper()
	f, err := NewStage1Filter(coefs, q)
	require.NoError(t, err)
	return f
}

func TestNewStage1Filter_Errors(t *testing.T) {
	tooBig := constant(BlockSize, 0.5)
	tooBig[3] = 1.0001

	withNaN := constant(BlockSize, 0.5)
	withNaN[9] = math.NaN()

	tests := []struct {
		name  string
		coefs []float64
		q     int
		want  error
	}{
		{"empty", nil, DefaultStage1DecimationFactor, ErrShapeMismatch},
		{"short", constant(BlockSize-1, 0.5), DefaultStage1DecimationFactor, ErrBlockAlignment},
		{"unaligned", constant(BlockSize+44, 0.5), DefaultStage1DecimationFactor, ErrBlockAlignment},
		{"peak_above_one", tooBig, DefaultStage1DecimationFactor, ErrCoefficientRange},
		{"all_zero", constant(BlockSize, 0), DefaultStage1DecimationFactor, ErrCoefficientRange},
		{"nan", withNaN, DefaultStage1DecimationFactor, ErrCoefficientRange},
		{"zero_decimation", constant(BlockSize, 0.5), 0, ErrInvalidDecimation},
		{"decimation_above_taps", constant(BlockSize, 0.5), BlockSize + 1, ErrInvalidDecimation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewStage1Filter(tt.coefs, tt.q)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, f)
		})
	}
}

func TestStage1Filter_Properties(t *testing.T) {
	coefs := mathutil.KaiserLowpass(2*BlockSize, 0.008, 60)
	f := newTestStage1(t, coefs, DefaultStage1DecimationFactor)

	assert.Equal(t, DefaultStage1DecimationFactor, f.DecimationFactor())
	assert.Equal(t, 2*BlockSize, f.TapCount())
	assert.Equal(t, 2, f.BlockCount())
	assert.Equal(t, coefs, f.Coef())
	assert.Len(t, f.CoefInt16(), 2*BlockSize)
	assert.Len(t, f.CoefBipolar(), 2*BlockSize)
	assert.Len(t, f.CoefBinary(), BitPlanes)
	assert.InDelta(t, f.ScaleInt16()*256, f.OutputGain(), 1e-9)
}

func TestStage1Filter_PeakQuantizesToMax(t *testing.T) {
	positive := testutil.Stage1Coefficients()
	negative := make([]float64, len(positive))
	for i, c := range positive {
		negative[i] = -0.75 * c
	}

	for name, coefs := range map[string][]float64{"positive": positive, "negative": negative} {
		t.Run(name, func(t *testing.T) {
			f := newTestStage1(t, coefs, DefaultStage1DecimationFactor)
			peak := quant.PeakIndex(coefs)
			got := f.CoefInt16()[peak]
			assert.Equal(t, int16(Int16MaxCoefficient), max(got, -got))
		})
	}
}

func TestStage1Filter_NegativePeakFlipsIntegerSign(t *testing.T) {
	f := newTestStage1(t, constant(BlockSize, -1.0), DefaultStage1DecimationFactor)
	assert.Negative(t, f.ScaleInt16())
	for _, c := range f.CoefInt16() {
		require.Equal(t, int16(Int16MaxCoefficient), c)
	}
}

func TestStage1Filter_BipolarBinaryRoundTrip(t *testing.T) {
	f := newTestStage1(t, testutil.Stage1Coefficients(), DefaultStage1DecimationFactor)
	taps := f.CoefInt16()
	bipolar := f.CoefBipolar()
	binary := f.CoefBinary()

	assert.Equal(t, bipolar, quant.BipolarFromBinary(binary))

	for i, c := range taps {
		assert.Equal(t, c, quant.FromBipolar(bipolar[i]), "tap %d from bipolar", i)

		var bits uint16
		for k := range BitPlanes {
			bits |= uint16(binary[k][i]) << k
		}
		assert.Equal(t, c, quant.FromDualBits(bits), "tap %d from binary", i)
	}
}

func TestStage1Filter_GettersReturnCopies(t *testing.T) {
	f := newTestStage1(t, testutil.Stage1Coefficients(), DefaultStage1DecimationFactor)
	want := f.CoefInt16()[0]

	f.Coef()[0] = 42
	f.CoefInt16()[0] = 42
	f.CoefBipolar()[0][0] = 42
	f.CoefBinary()[0][0] = 42

	assert.Equal(t, want, f.CoefInt16()[0])
	assert.NotEqual(t, 42.0, f.Coef()[0])
	assert.NotEqual(t, int8(42), f.CoefBipolar()[0][0])
	assert.NotEqual(t, uint8(42), f.CoefBinary()[0][0])
}

func TestStage1Filter_OutputLength(t *testing.T) {
	f := newTestStage1(t, testutil.Stage1Coefficients(), DefaultStage1DecimationFactor)

	for _, n := range []int{0, 1, 31, 32, 33, 256, 1000, 4096} {
		assert.Len(t, f.FilterFloat(make([]float64, n)), n/DefaultStage1DecimationFactor, "n=%d", n)
		assert.Len(t, f.FilterInt16(make([]int8, n)), n/DefaultStage1DecimationFactor, "n=%d", n)
	}
}

func TestStage1Filter_ImpulseWindow(t *testing.T) {
	// With only the last tap set, output k reads padded sample 32k+255,
	// which is input sample 32k+31.
	f := newTestStage1(t, singleTap(BlockSize, BlockSize-1, 1.0), DefaultStage1DecimationFactor)

	const outIdx = 3
	pos := DefaultStage1DecimationFactor*outIdx + DefaultStage1DecimationFactor - 1

	signal := make([]float64, 512)
	signal[pos] = 1
	out := f.FilterFloat(signal)
	testutil.AssertOnlyNonZeroAt(t, out, outIdx)
	assert.InDelta(t, 1.0, out[outIdx], testutil.DefaultTolerance)

	pdm := make([]int8, 512)
	pdm[pos] = 1
	outInt := f.FilterInt16(pdm)
	testutil.AssertOnlyNonZeroAt(t, outInt, outIdx)
	assert.Equal(t, int32(Int16MaxCoefficient<<8), outInt[outIdx])
}

func TestStage1Filter_IdlePadding(t *testing.T) {
	// Tap 0 reads padded sample 32k: idle pattern (-1 at even index) until
	// the window reaches the input.
	even := newTestStage1(t, singleTap(BlockSize, 0, 1.0), DefaultStage1DecimationFactor)
	odd := newTestStage1(t, singleTap(BlockSize, 1, 1.0), DefaultStage1DecimationFactor)

	signal := make([]float64, 512)
	evenOut := even.FilterFloat(signal)
	oddOut := odd.FilterFloat(signal)

	firstReal := testPadding / DefaultStage1DecimationFactor
	for k := range evenOut {
		if k < firstReal {
			assert.InDelta(t, -1.0, evenOut[k], testutil.DefaultTolerance, "k=%d", k)
			assert.InDelta(t, 1.0, oddOut[k], testutil.DefaultTolerance, "k=%d", k)
		} else {
			assert.Zero(t, evenOut[k], "k=%d", k)
			assert.Zero(t, oddOut[k], "k=%d", k)
		}
	}

	intOut := even.FilterInt16(make([]int8, 512))
	assert.Equal(t, int32(-Int16MaxCoefficient<<8), intOut[0])
	assert.Zero(t, intOut[firstReal])
}

func TestStage1Filter_Int16TracksFloat(t *testing.T) {
	f := newTestStage1(t, testutil.Stage1Coefficients(), DefaultStage1DecimationFactor)
	pdm := testutil.RandomPDM(4096, 1)

	ref := f.FilterFloat(testutil.ToFloat(pdm))
	got := f.FilterInt16(pdm)

	// Each tap is off by at most half an LSB before the 8-bit shift.
	tolerance := 0.5 * float64(f.TapCount()) * 256
	testutil.AssertScaledMatch(t, ref, got, f.OutputGain(), tolerance)
}

func TestStage1Filter_ToXCoreCoefArray_Golden(t *testing.T) {
	// All taps quantize to 32766, whose dual bit pattern is 0x0001:
	// plane 0 is all ones, every other plane all zeros.
	for _, v := range []float64{1.0, -1.0} {
		f := newTestStage1(t, constant(BlockSize, v), DefaultStage1DecimationFactor)
		words := f.ToXCoreCoefArray()

		require.Len(t, words, BitPlanes*WordsPerBlock)
		for i, w := range words {
			if i < WordsPerBlock {
				assert.Equal(t, uint32(allOnesWord), w, "word %d", i)
			} else {
				assert.Zero(t, w, "word %d", i)
			}
		}
	}
}

func TestStage1Filter_ToXCoreCoefArray_ZeroTail(t *testing.T) {
	// Zero taps pack as 0x7FFF. The last 16 taps land in the upper half of
	// each plane's first word, as in the device coefficient tables.
	coefs := testutil.Stage1Coefficients()
	for i := BlockSize - 16; i < BlockSize; i++ {
		coefs[i] = 0
	}
	f := newTestStage1(t, coefs, DefaultStage1DecimationFactor)
	words := f.ToXCoreCoefArray()

	for plane := range BitPlanes {
		top := words[plane*WordsPerBlock] & 0xFFFF0000
		if plane == BitPlanes-1 {
			assert.Zero(t, top, "plane %d", plane)
		} else {
			assert.Equal(t, uint32(0xFFFF0000), top, "plane %d", plane)
		}
	}
}

func TestStage1Filter_ToXCoreCoefArray_Deterministic(t *testing.T) {
	f := newTestStage1(t, testutil.Stage1Coefficients(), DefaultStage1DecimationFactor)
	assert.Equal(t, f.ToXCoreCoefArray(), f.ToXCoreCoefArray())
	assert.Len(t, f.ToXCoreCoefArray(), f.TapCount()/2)
}

func TestStage1Filter_FilterBitwiseMatchesInt16(t *testing.T) {
	tests := []struct {
		name  string
		coefs []float64
		q     int
	}{
		{"one_block", testutil.Stage1Coefficients(), DefaultStage1DecimationFactor},
		{"two_blocks", mathutil.KaiserLowpass(2*BlockSize, 0.008, 60), DefaultStage1DecimationFactor},
		{"q16", testutil.Stage1Coefficients(), 16},
		{"golden", constant(BlockSize, 1.0), DefaultStage1DecimationFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestStage1(t, tt.coefs, tt.q)
			pdm := testutil.RandomPDM(2048, 7)

			got, err := f.FilterBitwise(pdm)
			require.NoError(t, err)
			assert.Equal(t, f.FilterInt16(pdm), got)
		})
	}
}

func TestStage1Filter_FilterBitwiseRejectsNonBipolar(t *testing.T) {
	f := newTestStage1(t, testutil.Stage1Coefficients(), DefaultStage1DecimationFactor)
	pdm := testutil.RandomPDM(64, 3)
	pdm[10] = 0

	_, err := f.FilterBitwise(pdm)
	assert.ErrorIs(t, err, ErrNotBipolar)
}

func TestStage1Filter_Multi(t *testing.T) {
	coefs := testutil.Stage1Coefficients()
	seq := newTestStage1(t, coefs, DefaultStage1DecimationFactor)
	par, err := NewStage1Filter(coefs, DefaultStage1DecimationFactor, WithParallel(true))
	require.NoError(t, err)

	pdm := [][]int8{testutil.RandomPDM(1024, 1), testutil.RandomPDM(1024, 2), testutil.RandomPDM(1024, 3)}

	outSeq, err := seq.FilterInt16Multi(pdm)
	require.NoError(t, err)
	outPar, err := par.FilterInt16Multi(pdm)
	require.NoError(t, err)
	assert.Equal(t, outSeq, outPar)

	for ch := range pdm {
		assert.Equal(t, seq.FilterInt16(pdm[ch]), outSeq[ch], "channel %d", ch)
	}

	floatIn := [][]float64{testutil.ToFloat(pdm[0]), testutil.ToFloat(pdm[1])}
	outFloat, err := par.FilterFloatMulti(floatIn)
	require.NoError(t, err)
	assert.Equal(t, seq.FilterFloat(floatIn[1]), outFloat[1])
}

func TestStage1Filter_MultiRejectsRaggedInput(t *testing.T) {
	f := newTestStage1(t, testutil.Stage1Coefficients(), DefaultStage1DecimationFactor)

	_, err := f.FilterInt16Multi([][]int8{make([]int8, 64), make([]int8, 63)})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = f.FilterFloatMulti(nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
