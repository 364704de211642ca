package quant

// Correlator block layout.
const (
	BlockBits     = 256                 // Bits per correlator block
	WordBits      = 32                  // Bits per packed word
	WordsPerBlock = BlockBits / WordBits // Words per correlator block
)

// PackBlock packs one BlockBits-long {0,1} block into correlator words.
//
// The block is viewed as 8 rows of 32 bits, reversed along both axes, and
// every row is packed MSB first. The net effect is that word r holds
// elements (7-r)*32 .. (7-r)*32+31, with element (7-r)*32+c at bit c.
// Non-zero entries count as set bits.
func PackBlock(dst *[WordsPerBlock]uint32, block []uint8) {
	*dst = [WordsPerBlock]uint32{}
	for j, v := range block[:BlockBits] {
		if v == 0 {
			continue
		}
		r := WordsPerBlock - 1 - j/WordBits
		dst[r] |= 1 << (j % WordBits)
	}
}

// UnpackBlock is the inverse of PackBlock.
func UnpackBlock(dst []uint8, words *[WordsPerBlock]uint32) {
	for j := range BlockBits {
		r := WordsPerBlock - 1 - j/WordBits
		dst[j] = uint8(words[r] >> (j % WordBits) & 1)
	}
}

// PackMatrix packs a binary matrix row by row. Every row length must be a
// multiple of BlockBits; the flattened matrix is cut into consecutive
// blocks, so the output is ordered row first, block second.
func PackMatrix(binary [][]uint8) []uint32 {
	n := 0
	for _, row := range binary {
		n += len(row) / WordBits
	}
	out := make([]uint32, 0, n)

	var words [WordsPerBlock]uint32
	for _, row := range binary {
		for b := 0; b+BlockBits <= len(row); b += BlockBits {
			PackBlock(&words, row[b:b+BlockBits])
			out = append(out, words[:]...)
		}
	}
	return out
}
