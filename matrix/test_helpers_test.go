// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures for kernels.
//   - Force the generic (non-*Dense) code paths through the hide wrapper.

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/relgas/matrix"
	"github.com/stretchr/testify/require"
)

// hide wraps any Matrix to mask its concrete type, so kernels under test
// take the generic At/Set fallback instead of the *Dense fast-path.
type hide struct{ matrix.Matrix }

// NewFilledDense allocates an r×c *Dense and fills it row-major from vals.
func NewFilledDense(t *testing.T, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	require.Len(t, vals, r*c, "NewFilledDense: wrong value count")
	m, err := matrix.NewEmpty(r, c)
	require.NoError(t, err)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			require.NoError(t, m.Set(i, j, vals[i*c+j]))
		}
	}

	return m
}

// MustAt reads (i,j) or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// CompareClose asserts equal shapes and |a-b| <= atol + rtol*|b| element-wise.
func CompareClose(t *testing.T, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	require.Equal(t, b.Rows(), a.Rows(), "rows")
	require.Equal(t, b.Cols(), a.Cols(), "cols")
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			av, bv := MustAt(t, a, i, j), MustAt(t, b, i, j)
			if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
				t.Fatalf("(%d,%d): got %g, want %g", i, j, av, bv)
			}
		}
	}
}

// sliceClose asserts equal lengths and element-wise closeness.
func sliceClose(t *testing.T, got, want []float64, rtol, atol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.Abs(got[i]-want[i]) > atol+rtol*math.Abs(want[i]) {
			t.Fatalf("[%d]: got %g, want %g", i, got[i], want[i])
		}
	}
}
