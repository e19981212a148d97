package neuralgas

import (
	"context"
	"fmt"

	"github.com/katalvlaran/relgas/matrix"
)

// Use maps objects to their nearest prototypes. D holds the dissimilarities
// between the N reference objects (rows) and the objects to assign (columns);
// it need not be square. The result has one prototype index in [0, K) per
// column of D, the lowest index winning ties.
//
// Use is a pure function of α and D.
//
// Errors: ErrNoPrototypes, ErrNilData, ErrDimensionMismatch (D.Rows() != N).
func (g *NeuralGas) Use(D matrix.Matrix) ([]int, error) {
	idx, err := assign(g.protos.alpha, g.Count(), D)
	if err != nil {
		err = opError(componentNeuralGas, "Use", err)
	}
	g.logger.LogUse(context.Background(), len(idx), err)

	return idx, err
}

// assign validates and computes argmin_i (α·D)[i][j] for every column j.
func assign(alpha *matrix.Dense, k int, D matrix.Matrix) ([]int, error) {
	if err := validateUse(k, alpha.Cols(), D); err != nil {
		return nil, err
	}
	A, err := matrix.Mul(alpha, D)
	if err != nil {
		return nil, err
	}

	return matrix.ColArgMin(A)
}

func validateUse(k, n int, D matrix.Matrix) error {
	if k <= 0 {
		return ErrNoPrototypes
	}
	if matrix.ValidateNotNil(D) != nil {
		return ErrNilData
	}
	if D.Rows() != n {
		return fmt.Errorf("%w: data has %d rows, prototypes %d columns", ErrDimensionMismatch, D.Rows(), n)
	}

	return nil
}
