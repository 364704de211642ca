package decimator

import "math/bits"

// wideAccumulator sums int64 products into a 128-bit two's complement
// value, so a long run of worst-case products cannot wrap.
type wideAccumulator struct {
	hi int64
	lo uint64
}

func (a *wideAccumulator) add(v int64) {
	lo, carry := bits.Add64(a.lo, uint64(v), 0)
	a.hi += v>>63 + int64(carry)
	a.lo = lo
}

// float returns the accumulated value as float64. Sums that fit in int64
// convert exactly as an int64 would.
func (a *wideAccumulator) float() float64 {
	if a.hi == int64(a.lo)>>63 {
		return float64(int64(a.lo))
	}
	return float64(a.hi)*0x1p64 + float64(a.lo)
}
