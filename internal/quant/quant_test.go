package quant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testInt16Max = 32766
	testInt32Max = math.MaxInt32
)

func TestPeakIndex(t *testing.T) {
	tests := []struct {
		name  string
		coefs []float64
		want  int
	}{
		{"single", []float64{0.5}, 0},
		{"positive_peak", []float64{0.1, 0.9, -0.3}, 1},
		{"negative_peak", []float64{0.1, 0.4, -0.8}, 2},
		{"first_of_ties", []float64{0.2, -0.7, 0.7}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PeakIndex(tt.coefs))
		})
	}
}

func TestScaleFactor_KeepsPeakSign(t *testing.T) {
	assert.InDelta(t, 2*testInt16Max, ScaleFactor([]float64{0.25, 0.5}, testInt16Max), 1e-9)
	assert.InDelta(t, -2*testInt16Max, ScaleFactor([]float64{0.25, -0.5}, testInt16Max), 1e-9)
}

func TestQuantize_PeakHitsMax(t *testing.T) {
	coefs := []float64{0.013, -0.25, 0.731, 0.5, -0.0001}

	q16 := Quantize[int16](coefs, ScaleFactor(coefs, testInt16Max))
	assert.Equal(t, int16(testInt16Max), q16[2])

	q32 := Quantize[int32](coefs, ScaleFactor(coefs, testInt32Max))
	assert.Equal(t, int32(testInt32Max), q32[2])
}

func TestQuantize_NegativePeakInvertsSet(t *testing.T) {
	coefs := []float64{0.5, -1.0}
	q := Quantize[int16](coefs, ScaleFactor(coefs, testInt16Max))
	assert.Equal(t, []int16{-16383, testInt16Max}, q)
}

func TestQuantize_RoundHalfEvenAndClip(t *testing.T) {
	q := Quantize[int16]([]float64{0.5, 1.5, 2.5, -0.5, 1e6, -1e6}, 1)
	assert.Equal(t, []int16{0, 2, 2, 0, math.MaxInt16, math.MinInt16}, q)
}

func TestDual_ZeroTapMatchesFirmwarePattern(t *testing.T) {
	assert.Equal(t, uint16(0x7FFF), DualBits(0))
	assert.Equal(t, uint16(0x0001), DualBits(testInt16Max))
	assert.Equal(t, uint16(0xFFFF), DualBits(math.MinInt16))
}

func TestDual_PlaneSumIsOddImage(t *testing.T) {
	for _, c := range []int16{0, 1, -1, 1234, -4321, testInt16Max, math.MinInt16, math.MaxInt16} {
		row := Bipolar(c)
		require.Len(t, row, Planes)

		var sum int32
		for k, b := range row {
			require.True(t, b == 1 || b == -1, "plane %d of %d is %d", k, c, b)
			sum += int32(b) << k
		}
		assert.Equal(t, 2*int32(c)+1, sum, "tap %d", c)
		assert.Equal(t, c, FromBipolar(row))
	}
}

func TestDual_BinaryRoundTrip(t *testing.T) {
	taps := []int16{0, 7, -7, 32766, -32768, 255, -256}
	bipolar := BipolarMatrix(taps)
	binary := BinaryMatrix(bipolar)

	require.Len(t, binary, Planes)
	for k := range Planes {
		require.Len(t, binary[k], len(taps))
	}

	for i, c := range taps {
		var bits uint16
		for k := range Planes {
			bits |= uint16(binary[k][i]) << k
		}
		assert.Equal(t, c, FromDualBits(bits), "tap %d", i)
	}

	assert.Equal(t, bipolar, BipolarFromBinary(binary))
}

func TestPackBlock_Layout(t *testing.T) {
	block := make([]uint8, BlockBits)
	block[0] = 1   // last word, bit 0
	block[31] = 1  // last word, bit 31
	block[224] = 1 // first word, bit 0
	block[255] = 1 // first word, bit 31

	var words [WordsPerBlock]uint32
	PackBlock(&words, block)

	assert.Equal(t, uint32(0x80000001), words[0])
	assert.Equal(t, uint32(0x80000001), words[WordsPerBlock-1])
	for r := 1; r < WordsPerBlock-1; r++ {
		assert.Zero(t, words[r])
	}

	back := make([]uint8, BlockBits)
	UnpackBlock(back, &words)
	assert.Equal(t, block, back)
}

func TestPackMatrix_RowMajorBlocks(t *testing.T) {
	rows := [][]uint8{
		make([]uint8, 2*BlockBits),
		make([]uint8, 2*BlockBits),
	}
	for j := range BlockBits {
		rows[1][BlockBits+j] = 1
	}

	words := PackMatrix(rows)
	require.Len(t, words, 4*WordsPerBlock)

	for i, w := range words {
		if i >= 3*WordsPerBlock {
			assert.Equal(t, uint32(0xFFFFFFFF), w, "word %d", i)
		} else {
			assert.Zero(t, w, "word %d", i)
		}
	}
}
