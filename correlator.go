package decimator

import (
	"fmt"
	"math/bits"
)

// Correlate models one hardware correlator block. a and b are {0,1}
// vectors of exactly BlockSize elements standing for ±1 values (0 is +1).
// It returns acc + (128 - popcount(a XOR b)): agreeing positions count
// +1/2, disagreeing positions -1/2, so the block term lies in [-128, 128].
func Correlate(a, b []uint8, acc int32) (int32, error) {
	if len(a) != BlockSize || len(b) != BlockSize {
		return 0, fmt.Errorf("%w: correlator inputs must have %d elements, got %d and %d",
			ErrShapeMismatch, BlockSize, len(a), len(b))
	}

	var diff int32
	for i := range a {
		if a[i] > 1 || b[i] > 1 {
			return 0, fmt.Errorf("%w: element %d is (%d, %d)", ErrNotBinary, i, a[i], b[i])
		}
		if a[i] != b[i] {
			diff++
		}
	}
	return acc + (BlockSize/2 - diff), nil
}

// CorrelateWords is Correlate over blocks already packed into words, the
// form the hardware consumes. Any consistent packing gives the same result.
func CorrelateWords(a, b *[WordsPerBlock]uint32, acc int32) int32 {
	diff := 0
	for i := range a {
		diff += bits.OnesCount32(a[i] ^ b[i])
	}
	return acc + int32(BlockSize/2-diff)
}
