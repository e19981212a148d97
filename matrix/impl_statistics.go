// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Row and column reductions: RowSums, ColMin, ColArgMin.
//
// Determinism:
//   - Fixed i→j traversal; ties in ColArgMin resolve to the lowest row index.

package matrix

import "math"

// RowSums returns s[i] = Σ_j X[i,j] (len = Rows()).
//
// Errors:
//   - ErrNilMatrix; wrapped At errors from the generic path.
//
// Complexity: O(r*c) time, O(r) space.
func RowSums(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	r, c := X.Rows(), X.Cols()
	sums := make([]float64, r)

	if d, ok := X.(*Dense); ok {
		for i := 0; i < r; i++ {
			s := ZeroSum
			for _, v := range d.data[i*c : (i+1)*c] {
				s += v
			}
			sums[i] = s
		}

		return sums, nil
	}

	for i := 0; i < r; i++ {
		s := ZeroSum
		for j := 0; j < c; j++ {
			v, err := X.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opRowSums, err)
			}
			s += v
		}
		sums[i] = s
	}

	return sums, nil
}

// ColMin returns m[j] = min_i X[i,j] (len = Cols()).
//
// Errors:
//   - ErrNilMatrix; ErrEmptyVector when X has zero rows but at least one column.
//
// Complexity: O(r*c) time, O(c) space.
func ColMin(X Matrix) ([]float64, error) {
	mins, _, err := colMinArg(X, opColMin)

	return mins, err
}

// ColArgMin returns idx[j] = argmin_i X[i,j] (len = Cols()).
// Ties resolve to the lowest row index, which equals taking rank 0 of a
// stable ascending RankIndex of the column.
//
// Errors:
//   - ErrNilMatrix; ErrEmptyVector when X has zero rows but at least one column.
//
// Complexity: O(r*c) time, O(c) space.
func ColArgMin(X Matrix) ([]int, error) {
	_, idx, err := colMinArg(X, opColArgMin)

	return idx, err
}

// colMinArg is the shared column-minimum scan. It walks rows in increasing
// order and only replaces the current best on a strictly smaller value.
func colMinArg(X Matrix, tag string) ([]float64, []int, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(tag, err)
	}
	r, c := X.Rows(), X.Cols()
	if r == 0 && c > 0 {
		return nil, nil, matrixErrorf(tag, ErrEmptyVector)
	}
	mins := make([]float64, c)
	idx := make([]int, c)
	for j := range mins {
		mins[j] = math.Inf(1)
	}

	var (
		i, j int
		v    float64
		err  error
	)
	d, dense := X.(*Dense)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if dense {
				v = d.data[i*c+j]
			} else if v, err = X.At(i, j); err != nil {
				return nil, nil, matrixErrorf(tag, err)
			}
			if i == 0 || v < mins[j] {
				mins[j] = v
				idx[j] = i
			}
		}
	}

	return mins, idx, nil
}
