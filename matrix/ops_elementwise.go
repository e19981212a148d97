// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide row-broadcast kernels used by row normalization and by the
//     relational bias correction (subtract one scalar per row).
//   - Keep all loops deterministic and cache-friendly with Dense fast-paths.
//
// Determinism & Performance:
//   - Fixed loop orders (i→j).
//   - Dense fast-path operates on a single flat buffer (row-major).
//   - One output allocation; the input is never mutated.

package matrix

// ScaleRows computes out[i,j] = X[i,j] * scale[i].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(scale) != Rows()).
//
// Complexity: O(r*c) time and space.
func ScaleRows(X Matrix, scale []float64) (*Dense, error) {
	return broadcastRows(X, scale, opScaleRows, func(v, s float64) float64 { return v * s })
}

// SubRows computes out[i,j] = X[i,j] - shift[i].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(shift) != Rows()).
//
// Complexity: O(r*c) time and space.
func SubRows(X Matrix, shift []float64) (*Dense, error) {
	return broadcastRows(X, shift, opSubRows, func(v, s float64) float64 { return v - s })
}

// broadcastRows applies f(X[i,j], vec[i]) into a fresh Dense.
func broadcastRows(X Matrix, vec []float64, tag string, f func(v, s float64) float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	r, c := X.Rows(), X.Cols()
	if err := ValidateVecLen(vec, r); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	out, err := NewEmpty(r, c)
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}

	// Dense fast-path.
	if d, ok := X.(*Dense); ok {
		out.validateNaNInf = d.validateNaNInf
		for i := 0; i < r; i++ {
			base := i * c
			s := vec[i]
			for j := 0; j < c; j++ {
				out.data[base+j] = f(d.data[base+j], s)
			}
		}

		return out, nil
	}

	// Generic fallback.
	for i := 0; i < r; i++ {
		s := vec[i]
		for j := 0; j < c; j++ {
			v, e := X.At(i, j)
			if e != nil {
				return nil, matrixErrorf(tag, e)
			}
			if e = out.Set(i, j, f(v, s)); e != nil {
				return nil, matrixErrorf(tag, e)
			}
		}
	}

	return out, nil
}
