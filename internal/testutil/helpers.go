// Package testutil provides reusable test helpers for decimator tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	FloatTolerance   = 1e-9
)

// Number covers the sample types flowing through the decimator.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float64
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertOnlyNonZeroAt verifies that s is zero everywhere except at index idx,
// which must be non-zero.
func AssertOnlyNonZeroAt[T Number](t *testing.T, s []T, idx int) bool {
	t.Helper()
	for i, v := range s {
		if i == idx {
			if v == 0 {
				return assert.Fail(t, "expected non-zero", "s[%d] is zero", i)
			}
			continue
		}
		if v != 0 {
			return assert.Fail(t, "unexpected non-zero",
				"s[%d]=%v, only s[%d] may be non-zero", i, v, idx)
		}
	}
	return true
}

// AssertScaledMatch verifies that fixed[i] ≈ gain*ref[i] within tolerance
// for every sample.
func AssertScaledMatch[T Number](t *testing.T, ref []float64, fixed []T, gain, tolerance float64) bool {
	t.Helper()
	if !assert.Len(t, fixed, len(ref)) {
		return false
	}
	for i := range ref {
		if !assert.InDelta(t, gain*ref[i], float64(fixed[i]), tolerance,
			"sample %d: fixed=%v, scaled reference=%f", i, fixed[i], gain*ref[i]) {
			return false
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}
