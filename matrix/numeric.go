// SPDX-License-Identifier: MIT

package matrix

import "math"

// IsNumericalZero reports whether |v| <= ZeroTolerance.
// Use it wherever an exact comparison with 0 would be fragile (row sums).
func IsNumericalZero(v float64) bool {
	return IsNumericalZeroTol(v, ZeroTolerance)
}

// IsNumericalZeroTol reports whether |v| <= tol. NaN is never zero.
func IsNumericalZeroTol(v, tol float64) bool {
	return math.Abs(v) <= tol
}
