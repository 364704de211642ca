package mathutil

import "math"

// KaiserWindow returns a Kaiser window of the given length.
// Lengths below one yield an empty window.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}
	if length == 1 {
		return []float64{1}
	}

	w := make([]float64, length)
	denom := BesselI0(beta)
	m := float64(length - 1)
	for n := range length {
		r := 2*float64(n)/m - 1
		w[n] = BesselI0(beta*math.Sqrt(1-r*r)) / denom
	}
	return w
}

// KaiserLowpass designs a linear-phase windowed-sinc lowpass filter.
//
// cutoff is normalized to the input sample rate (0 to 0.5). The result is
// scaled so its largest tap is exactly 1.0, the form the decimator stages
// expect.
func KaiserLowpass(taps int, cutoff, attenuation float64) []float64 {
	window := KaiserWindow(taps, KaiserBeta(attenuation))
	h := make([]float64, taps)
	center := float64(taps-1) / halfDivisor

	peak := 0.0
	for n := range taps {
		x := float64(n) - center
		var s float64
		if math.Abs(x) < sincZeroThreshold {
			s = halfDivisor * cutoff
		} else {
			s = math.Sin(halfDivisor*math.Pi*cutoff*x) / (math.Pi * x)
		}
		h[n] = s * window[n]
		peak = math.Max(peak, math.Abs(h[n]))
	}

	if peak > 0 {
		for n := range h {
			h[n] /= peak
		}
	}
	return h
}
