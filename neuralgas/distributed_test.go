package neuralgas_test

import (
	"context"
	"sync"
	"testing"

	"github.com/katalvlaran/relgas/cluster"
	"github.com/katalvlaran/relgas/matrix"
	"github.com/katalvlaran/relgas/neuralgas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splitRows cuts m into consecutive row blocks of the given sizes.
func splitRows(t *testing.T, m *matrix.Dense, sizes ...int) []*matrix.Dense {
	t.Helper()
	rows := rowsOf(t, m)
	out := make([]*matrix.Dense, len(sizes))
	at := 0
	for i, k := range sizes {
		b, err := matrix.NewEmpty(k, m.Cols())
		require.NoError(t, err)
		for r := 0; r < k; r++ {
			require.NoError(t, b.SetRow(r, rows[at+r]))
		}
		out[i] = b
		at += k
	}

	return out
}

func TestShard_MatchesSingleProcess(t *testing.T) {
	t.Parallel()

	D := threeClusters(t)
	const iterations = 15

	seeded, err := neuralgas.New(5, 9, neuralgas.WithSeed(21))
	require.NoError(t, err)
	start := seeded.Prototypes()
	single, err := neuralgas.NewFromPrototypes(start, neuralgas.WithLogging(true))
	require.NoError(t, err)
	want, err := single.Train(context.Background(), D, iterations)
	require.NoError(t, err)
	wantIdx, err := single.Use(D)
	require.NoError(t, err)

	// Blocks of 2, 0 and 3 prototypes; the empty member still takes part.
	blocks := splitRows(t, start, 2, 0, 3)
	final := make([]*matrix.Dense, len(blocks))
	qerrs := make([][]float64, len(blocks))
	assigned := make([][]int, len(blocks))
	counts := make([]int, len(blocks))

	err = cluster.Run(context.Background(), len(blocks), func(ctx context.Context, c cluster.Coordinator) error {
		s, err := neuralgas.NewShardFromPrototypes(c, blocks[c.Rank()], neuralgas.WithLogging(true))
		if err != nil {
			return err
		}
		if counts[c.Rank()], err = s.GlobalCount(ctx); err != nil {
			return err
		}
		hist, err := s.Train(ctx, D, iterations)
		if err != nil {
			return err
		}
		qerrs[c.Rank()] = hist.QuantizationErrors
		if assigned[c.Rank()], err = s.Use(ctx, D); err != nil {
			return err
		}
		final[c.Rank()] = s.Prototypes()

		return nil
	})
	require.NoError(t, err)

	var joined [][]float64
	for r := range final {
		require.Equal(t, 5, counts[r])
		require.Equal(t, want.QuantizationErrors, qerrs[r])
		require.Equal(t, wantIdx, assigned[r])
		joined = append(joined, rowsOf(t, final[r])...)
	}
	require.Equal(t, rowsOf(t, single.Prototypes()), joined)
}

func TestShard_PreconditionsAgreed(t *testing.T) {
	t.Parallel()

	good := threeClusters(t)
	bad, err := matrix.NewDense(9, 3)
	require.NoError(t, err)

	var mu sync.Mutex
	errs := make(map[int]error)
	_ = cluster.Run(context.Background(), 3, func(ctx context.Context, c cluster.Coordinator) error {
		s, err := neuralgas.NewShard(c, 1, 9)
		if err != nil {
			return err
		}
		D := matrix.Matrix(good)
		if c.Rank() == 1 {
			D = bad
		}
		before := s.Prototypes()
		_, err = s.Train(ctx, D, 5)
		mu.Lock()
		errs[c.Rank()] = err
		mu.Unlock()
		assert.Equal(t, before, s.Prototypes())

		return nil
	})

	require.ErrorIs(t, errs[1], neuralgas.ErrDimensionMismatch)
	require.ErrorIs(t, errs[0], neuralgas.ErrPeerRejected)
	require.ErrorIs(t, errs[2], neuralgas.ErrPeerRejected)
	for _, err := range errs {
		require.ErrorIs(t, err, neuralgas.ErrPrecondition)
	}
}

func TestShard_NoPrototypesAnywhere(t *testing.T) {
	t.Parallel()

	D := twoClusters(t)
	errs := make([]error, 2)
	_ = cluster.Run(context.Background(), 2, func(ctx context.Context, c cluster.Coordinator) error {
		s, err := neuralgas.NewShard(c, 0, 4)
		if err != nil {
			return err
		}
		_, errs[c.Rank()] = s.Train(ctx, D, 3)

		return nil
	})
	for _, err := range errs {
		require.ErrorIs(t, err, neuralgas.ErrNoPrototypes)
	}
}

func TestShard_DistinctStreamsPerRank(t *testing.T) {
	t.Parallel()

	protos := make([]*matrix.Dense, 2)
	err := cluster.Run(context.Background(), 2, func(ctx context.Context, c cluster.Coordinator) error {
		s, err := neuralgas.NewShard(c, 2, 4, neuralgas.WithSeed(5))
		if err != nil {
			return err
		}
		protos[c.Rank()] = s.Prototypes()

		return nil
	})
	require.NoError(t, err)
	require.NotEqual(t, rowsOf(t, protos[0]), rowsOf(t, protos[1]))
}
