// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// the matrix product and the inner product used by the relational distance
// formula. All functions perform strict fail-fast validation and return clear
// errors on dimension mismatches.
//
// Notes:
//   - Kernels use central validators and wrap failures via matrixErrorf.
//   - *Dense operands unlock flat-slice fast paths; other Matrix
//     implementations go through At/Set with identical loop order semantics.

package matrix

import "fmt"

// ZeroSum is the initial value for accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul       = "Mul"
	opDot       = "Dot"
	opScaleRows = "ScaleRows"
	opSubRows   = "SubRows"
	opRowSums   = "RowSums"
	opColMin    = "ColMin"
	opColArgMin = "ColArgMin"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
// Complexity: O(1).
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul returns the matrix product a × b as a new *Dense of shape a.Rows()×b.Cols().
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b).
//   - Stage 2: allocate the result (zero rows or cols are legal: a 0×N product
//     arises for a process owning no prototypes).
//   - Stage 3: Dense fast path in i→k→j order (row of a streams rows of b);
//     otherwise a generic i→j→k loop through At.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with opMul).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewEmpty(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	// Fast-path for two Dense matrices
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			// da.data layout: i*aCols + k
			// db.data layout: k*bCols + j
			var rowOffsetA, rowOffsetB, rowOffsetR int
			for i = 0; i < aRows; i++ {
				rowOffsetA = i * aCols
				rowOffsetR = i * bCols
				for k = 0; k < aCols; k++ {
					av = da.data[rowOffsetA+k]
					if av == 0 {
						continue // skip zero for performance
					}
					rowOffsetB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
					}
				}
			}

			return res, nil
		}
	}

	// Fallback: generic interface triple-loop (i-j-k)
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				av, err = a.At(i, k)
				if err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				if av == 0 {
					continue
				}
				bv, err = b.At(k, j)
				if err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				current += av * bv
			}
			if err = res.Set(i, j, current); err != nil {
				return nil, matrixErrorf(opMul, err)
			}
		}
	}

	return res, nil
}

// Dot returns the inner product Σ x[i]*y[i].
//
// Errors:
//   - ErrDimensionMismatch when len(x) != len(y).
//
// Complexity: O(n).
func Dot(x, y []float64) (float64, error) {
	if err := ValidateVecLen(y, len(x)); err != nil {
		return 0, matrixErrorf(opDot, err)
	}
	s := ZeroSum
	for i := range x {
		s += x[i] * y[i]
	}

	return s, nil
}
