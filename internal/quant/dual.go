package quant

// Planes is the number of bit planes an int16 tap is split into.
const Planes = 16

// dualMask converts between a two's complement tap and its dual bit pattern.
const dualMask = 0x7FFF

// DualBits returns the bit pattern stored for tap c. Bit k is set when
// plane k carries -1 in the bipolar form.
//
// The planes satisfy sum(2^k * b[k]) == 2c+1, which gives
// bits == 0x7FFF - c == uint16(c) ^ 0x7FFF. A zero tap is 0x7FFF.
func DualBits(c int16) uint16 {
	return uint16(c) ^ dualMask
}

// FromDualBits is the inverse of DualBits.
func FromDualBits(bits uint16) int16 {
	return int16(bits ^ dualMask)
}

// Bipolar returns the ±1 plane values of tap c, least significant plane first.
func Bipolar(c int16) []int8 {
	bits := DualBits(c)
	row := make([]int8, Planes)
	for k := range Planes {
		row[k] = 1 - 2*int8(bits>>k&1)
	}
	return row
}

// FromBipolar recovers the tap encoded by a row of Planes ±1 values.
func FromBipolar(row []int8) int16 {
	var v int32
	for k := range Planes {
		v += int32(row[k]) << k
	}
	return int16((v - 1) / 2)
}

// BipolarMatrix expands every tap into its Planes-wide bipolar row.
// The result has len(taps) rows.
func BipolarMatrix(taps []int16) [][]int8 {
	m := make([][]int8, len(taps))
	for i, c := range taps {
		m[i] = Bipolar(c)
	}
	return m
}

// BinaryMatrix returns (1 - bipolar^T) / 2: Planes rows, one per bit plane,
// each holding one {0,1} entry per tap.
func BinaryMatrix(bipolar [][]int8) [][]uint8 {
	m := make([][]uint8, Planes)
	for k := range Planes {
		m[k] = make([]uint8, len(bipolar))
		for i, row := range bipolar {
			m[k][i] = uint8((1 - row[k]) / 2)
		}
	}
	return m
}

// BipolarFromBinary is the inverse of BinaryMatrix.
func BipolarFromBinary(binary [][]uint8) [][]int8 {
	if len(binary) == 0 {
		return nil
	}
	m := make([][]int8, len(binary[0]))
	for i := range m {
		m[i] = make([]int8, Planes)
		for k := range Planes {
			m[i][k] = 1 - 2*int8(binary[k][i])
		}
	}
	return m
}
