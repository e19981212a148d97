package neuralgas_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/relgas/matrix"
	"github.com/katalvlaran/relgas/neuralgas"
	"github.com/stretchr/testify/require"
)

func TestUse_LengthRangeAndPurity(t *testing.T) {
	t.Parallel()

	D := threeClusters(t)
	g, err := neuralgas.New(4, 9, neuralgas.WithSeed(3))
	require.NoError(t, err)
	_, err = g.Train(context.Background(), D, 10)
	require.NoError(t, err)

	first, err := g.Use(D)
	require.NoError(t, err)
	require.Len(t, first, D.Cols())
	for _, i := range first {
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, g.Count())
	}

	again, err := g.Use(D)
	require.NoError(t, err)
	require.Equal(t, first, again)
}

// TestUse_NonSquare assigns new objects given their dissimilarities to the
// four reference objects.
func TestUse_NonSquare(t *testing.T) {
	t.Parallel()

	g, err := neuralgas.NewFromPrototypes(skewedStart(t))
	require.NoError(t, err)
	_, err = g.Train(context.Background(), twoClusters(t), 20)
	require.NoError(t, err)
	ref, err := g.Use(twoClusters(t))
	require.NoError(t, err)

	// Two new objects: one next to {0,1}, one next to {2,3}.
	D := mustDense(t, [][]float64{
		{0.05, 5},
		{0.05, 5},
		{5, 0.05},
		{5, 0.05},
	})
	idx, err := g.Use(D)
	require.NoError(t, err)
	require.Equal(t, []int{ref[0], ref[2]}, idx)
}

func TestUse_TiesPickLowestIndex(t *testing.T) {
	t.Parallel()

	g, err := neuralgas.NewFromPrototypes(mustDense(t, [][]float64{
		{0.5, 0.5},
		{0.5, 0.5},
	}))
	require.NoError(t, err)

	idx, err := g.Use(mustDense(t, [][]float64{{0, 1}, {1, 0}}))
	require.NoError(t, err)
	require.Equal(t, []int{0, 0}, idx)
}

func TestUse_Errors(t *testing.T) {
	t.Parallel()

	empty, err := neuralgas.New(0, 3)
	require.NoError(t, err)
	_, err = empty.Use(mustDense(t, [][]float64{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}}))
	require.ErrorIs(t, err, neuralgas.ErrNoPrototypes)

	g, err := neuralgas.New(2, 3)
	require.NoError(t, err)
	_, err = g.Use(nil)
	require.ErrorIs(t, err, neuralgas.ErrNilData)

	_, err = g.Use(mustDense(t, [][]float64{{0, 1}, {1, 0}}))
	require.ErrorIs(t, err, neuralgas.ErrDimensionMismatch)
	require.ErrorIs(t, err, neuralgas.ErrPrecondition)
}

func TestAdaptationMatrixAndQuantizationError(t *testing.T) {
	t.Parallel()

	alpha := mustDense(t, [][]float64{{1, 0}, {0.5, 0.5}})
	D := mustDense(t, [][]float64{{0, 2}, {2, 0}})

	A, err := neuralgas.AdaptationMatrix(alpha, D)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0, 2}, {0.5, 0.5}}, rowsOf(t, A))

	qe, err := neuralgas.QuantizationError(A)
	require.NoError(t, err)
	require.Equal(t, 0.25, qe)

	_, err = neuralgas.AdaptationMatrix(alpha, mustDense(t, [][]float64{{0, 1, 2}}))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	empty, err := matrix.NewEmpty(0, 2)
	require.NoError(t, err)
	_, err = neuralgas.QuantizationError(empty)
	require.ErrorIs(t, err, matrix.ErrEmptyVector)
}

func TestRankerByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", neuralgas.RankerExact} {
		r, err := neuralgas.RankerByName(name)
		require.NoError(t, err)
		require.Equal(t, []float64{2, 0, 1}, r.Rank([]float64{3, 1, 2}))
	}

	_, err := neuralgas.RankerByName("k-approximation")
	require.ErrorIs(t, err, neuralgas.ErrUnknownRanker)
	require.ErrorIs(t, err, neuralgas.ErrUnknownConfiguration)

	require.Panics(t, func() { neuralgas.WithRanker(nil) })
}

// shortRanker violates the Ranker contract by dropping one rank.
type shortRanker struct{}

func (shortRanker) Rank(d []float64) []float64 { return make([]float64, len(d)-1) }

func TestTrain_RankerContract(t *testing.T) {
	t.Parallel()

	g, err := neuralgas.NewFromPrototypes(skewedStart(t), neuralgas.WithRanker(shortRanker{}))
	require.NoError(t, err)
	_, err = g.Train(context.Background(), twoClusters(t), 3)
	require.ErrorIs(t, err, neuralgas.ErrRankerContract)
}

// reverseRanker ranks the farthest prototype first.
type reverseRanker struct{}

func (reverseRanker) Rank(d []float64) []float64 {
	r := matrix.Rank(d)
	for i := range r {
		r[i] = float64(len(r)-1) - r[i]
	}

	return r
}

func TestTrain_CustomRankerIsConsulted(t *testing.T) {
	t.Parallel()

	exact, err := neuralgas.NewFromPrototypes(skewedStart(t))
	require.NoError(t, err)
	custom, err := neuralgas.NewFromPrototypes(skewedStart(t), neuralgas.WithRanker(reverseRanker{}))
	require.NoError(t, err)

	_, err = exact.Train(context.Background(), twoClusters(t), 5)
	require.NoError(t, err)
	_, err = custom.Train(context.Background(), twoClusters(t), 5)
	require.NoError(t, err)
	require.NotEqual(t, rowsOf(t, exact.Prototypes()), rowsOf(t, custom.Prototypes()))
}
