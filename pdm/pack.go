package pdm

import (
	"errors"
	"fmt"
)

// Word layout constants.
const (
	WordBits = 32         // Samples per packed word
	IdleWord = 0x55555555 // Packed form of Idle(WordBits)
)

// Errors returned by Pack and Unpack.
var (
	ErrNotBipolar  = errors.New("pdm: sample is not ±1")
	ErrShortBuffer = errors.New("pdm: not enough packed words")
)

// Pack packs samples into 32-bit words, sample i at bit i%32 of word i/32.
// A trailing partial word is completed with the idle pattern.
func Pack(samples []int8) ([]uint32, error) {
	words := make([]uint32, (len(samples)+WordBits-1)/WordBits)
	for w := range words {
		words[w] = IdleWord
	}

	for i, s := range samples {
		bit := uint32(1) << (i % WordBits)
		switch s {
		case 1:
			words[i/WordBits] &^= bit
		case -1:
			words[i/WordBits] |= bit
		default:
			return nil, fmt.Errorf("%w: sample %d is %d", ErrNotBipolar, i, s)
		}
	}
	return words, nil
}

// Unpack expands the first n samples held in words.
func Unpack(words []uint32, n int) ([]int8, error) {
	if n < 0 || n > len(words)*WordBits {
		return nil, fmt.Errorf("%w: %d samples requested from %d words", ErrShortBuffer, n, len(words))
	}

	out := make([]int8, n)
	for i := range out {
		bit := words[i/WordBits] >> (i % WordBits) & 1
		out[i] = int8(1 - 2*int(bit))
	}
	return out, nil
}

// Density returns the mean sample value of a ±1 stream, the signal level
// it encodes.
func Density(samples []int8) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum int
	for _, s := range samples {
		sum += int(s)
	}
	return float64(sum) / float64(len(samples))
}
