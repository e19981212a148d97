package neuralgas

import (
	"fmt"

	"github.com/katalvlaran/relgas/matrix"
)

// AdaptationMatrix computes the relational distances between prototypes and
// objects:
//
//	A = α·D,  A[n][j] -= 0.5 · (α[n] · A[n])
//
// which is ‖x_j − w_n‖² for prototypes that are convex combinations of the
// objects. α may have zero rows; the result is then 0×D.Cols().
//
// Errors: matrix.ErrNilMatrix, matrix.ErrDimensionMismatch (α.Cols != D.Rows).
func AdaptationMatrix(alpha *matrix.Dense, D matrix.Matrix) (*matrix.Dense, error) {
	A, err := matrix.Mul(alpha, D)
	if err != nil {
		return nil, fmt.Errorf("AdaptationMatrix: %w", err)
	}
	bias := make([]float64, A.Rows())
	var a, r []float64
	for n := range bias {
		if a, err = alpha.Row(n); err != nil {
			return nil, fmt.Errorf("AdaptationMatrix: %w", err)
		}
		if r, err = A.Row(n); err != nil {
			return nil, fmt.Errorf("AdaptationMatrix: %w", err)
		}
		if bias[n], err = matrix.Dot(a, r); err != nil {
			return nil, fmt.Errorf("AdaptationMatrix: %w", err)
		}
		bias[n] *= 0.5
	}
	if A, err = matrix.SubRows(A, bias); err != nil {
		return nil, fmt.Errorf("AdaptationMatrix: %w", err)
	}

	return A, nil
}

// QuantizationError returns 0.5 · Σ_j min_i A[i][j]: half the summed distance
// of every object to its closest prototype. A must be the adaptation matrix
// before the rank transform.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrEmptyVector (A has no rows).
func QuantizationError(A matrix.Matrix) (float64, error) {
	mins, err := matrix.ColMin(A)
	if err != nil {
		return 0, fmt.Errorf("QuantizationError: %w", err)
	}
	sum := 0.0
	for _, m := range mins {
		sum += m
	}

	return 0.5 * sum, nil
}
