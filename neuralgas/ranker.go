package neuralgas

import (
	"fmt"
	"math"

	"github.com/katalvlaran/relgas/matrix"
)

// RankerExact is the registered name of ExactRanker.
const RankerExact = "exact"

// Ranker turns the adapted distances of all prototypes to one object into
// neighborhood ranks. Rank must return a slice of the same length holding a
// permutation of 0..len-1 (0 = closest) and must not retain or modify its input.
type Ranker interface {
	Rank(distances []float64) []float64
}

// ExactRanker ranks by a stable ascending sort: the lower prototype index wins ties.
type ExactRanker struct{}

// Rank implements Ranker.
func (ExactRanker) Rank(distances []float64) []float64 { return matrix.Rank(distances) }

// RankerByName resolves a configured ranker name. The empty name selects
// the exact ranker.
func RankerByName(name string) (Ranker, error) {
	switch name {
	case "", RankerExact:
		return ExactRanker{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRanker, name)
	}
}

// applyNeighborhood replaces every column of A by exp(-rank/lambda).
// Each column is read as a copy and written back whole, so no column ever
// observes a partially transformed neighbour.
func applyNeighborhood(A *matrix.Dense, r Ranker, lambda float64) error {
	k := A.Rows()
	for j := 0; j < A.Cols(); j++ {
		col, err := A.Col(j)
		if err != nil {
			return err
		}
		ranks := r.Rank(col)
		if len(ranks) != k {
			return fmt.Errorf("%w: got %d ranks for %d prototypes", ErrRankerContract, len(ranks), k)
		}
		w := make([]float64, k)
		for i, rank := range ranks {
			w[i] = math.Exp(-rank / lambda)
		}
		if err = A.SetCol(j, w); err != nil {
			return err
		}
	}

	return nil
}

// annealedLambda is the temperature of iteration i out of n: it decays
// geometrically from lambda toward 0.01.
func annealedLambda(lambda float64, i, n int) float64 {
	return lambda * math.Pow(0.01/lambda, float64(i)/float64(n))
}

// DefaultLambda is the initial temperature used by Train: half the prototype count.
func DefaultLambda(prototypes int) float64 { return 0.5 * float64(prototypes) }
