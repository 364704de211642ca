// Package pdm generates and packs 1-bit pulse density modulated streams of
// the kind a digital MEMS microphone delivers to the decimator.
//
// Samples are represented as int8 values of +1 or -1. On the wire a sample
// of -1 is a set bit and +1 a clear bit, the same convention the stage-1
// coefficient planes use, so the idle pattern of alternating -1, +1
// samples packs to IdleWord.
package pdm

// Modulator is a second-order sigma-delta modulator. It keeps its
// integrator state between calls, so a long signal can be modulated in
// pieces.
type Modulator struct {
	integ1 float64
	integ2 float64
}

// NewModulator returns a modulator with zeroed integrators.
func NewModulator() *Modulator {
	return &Modulator{}
}

// Modulate converts samples in [-1, 1] to a ±1 stream of the same length.
// Input outside that range is clipped. Amplitudes above about 0.7 push a
// second-order loop towards overload.
func (m *Modulator) Modulate(signal []float64) []int8 {
	out := make([]int8, len(signal))
	for i, x := range signal {
		x = min(max(x, -1), 1)

		var y int8 = 1
		if m.integ2 < 0 {
			y = -1
		}
		fb := float64(y)

		m.integ1 += x - fb
		m.integ2 += m.integ1 - fb
		out[i] = y
	}
	return out
}

// Reset clears the integrator state.
func (m *Modulator) Reset() {
	m.integ1 = 0
	m.integ2 = 0
}

// Modulate runs a fresh Modulator over signal.
func Modulate(signal []float64) []int8 {
	return NewModulator().Modulate(signal)
}

// Idle returns n samples of the alternating -1, +1 pattern a silent
// microphone produces.
func Idle(n int) []int8 {
	out := make([]int8, n)
	for i := range out {
		out[i] = int8(2*(i%2) - 1)
	}
	return out
}
