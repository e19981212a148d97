package cluster_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/relgas/cluster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroup_InvalidSize(t *testing.T) {
	t.Parallel()

	_, err := cluster.NewGroup(0)
	require.ErrorIs(t, err, cluster.ErrInvalidSize)

	g, err := cluster.NewGroup(2)
	require.NoError(t, err)
	_, err = g.Member(2)
	require.ErrorIs(t, err, cluster.ErrInvalidRank)

	require.ErrorIs(t, cluster.Run(context.Background(), -1, nil), cluster.ErrInvalidSize)
}

func TestRun_Collectives(t *testing.T) {
	t.Parallel()

	const size = 4
	sums := make([]float64, size)
	counts := make([]int, size)
	gathered := make([][][]float64, size)

	err := cluster.Run(context.Background(), size, func(ctx context.Context, c cluster.Coordinator) error {
		assert.Equal(t, size, c.Size())
		var err error
		if sums[c.Rank()], err = c.AllReduceSum(ctx, float64(c.Rank())+0.5); err != nil {
			return err
		}
		if counts[c.Rank()], err = c.AllReduceSumInt(ctx, c.Rank()); err != nil {
			return err
		}
		part := make([]float64, c.Rank()) // rank 0 sends nothing
		for i := range part {
			part[i] = float64(c.Rank())
		}
		gathered[c.Rank()], err = c.AllGather(ctx, part)

		return err
	})
	require.NoError(t, err)

	want := [][]float64{nil, {1}, {2, 2}, {3, 3, 3}}
	for r := 0; r < size; r++ {
		assert.Equal(t, 8.0, sums[r])
		assert.Equal(t, 6, counts[r])
		assert.Equal(t, want, gathered[r])
	}
}

func TestAllGather_ResultsArePrivate(t *testing.T) {
	t.Parallel()

	out := make([][][]float64, 2)
	err := cluster.Run(context.Background(), 2, func(ctx context.Context, c cluster.Coordinator) error {
		parts, err := c.AllGather(ctx, []float64{float64(c.Rank())})
		if err != nil {
			return err
		}
		parts[0][0] = 100 + float64(c.Rank())
		out[c.Rank()] = parts

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, out[0][0][0])
	require.Equal(t, 101.0, out[1][0][0])
}

func TestGroup_MismatchBreaksGroup(t *testing.T) {
	t.Parallel()

	g, err := cluster.NewGroup(2)
	require.NoError(t, err)
	m0, err := g.Member(0)
	require.NoError(t, err)
	m1, err := g.Member(1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = m0.AllReduceSum(context.Background(), 1)
	}()
	go func() {
		defer wg.Done()
		// Let member 0 open the round first.
		time.Sleep(20 * time.Millisecond)
		_, errs[1] = m1.AllReduceSumInt(context.Background(), 1)
	}()
	wg.Wait()

	for _, err := range errs {
		require.ErrorIs(t, err, cluster.ErrCollectiveMismatch)
	}
	require.ErrorIs(t, errs[0], cluster.ErrGroupBroken)
	require.ErrorIs(t, g.Err(), cluster.ErrGroupBroken)

	// Every later call fails immediately.
	_, err = m0.AllGather(context.Background(), nil)
	require.ErrorIs(t, err, cluster.ErrGroupBroken)
}

func TestRun_FailingMemberReleasesPeers(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := cluster.Run(context.Background(), 3, func(ctx context.Context, c cluster.Coordinator) error {
		if c.Rank() == 2 {
			return boom
		}
		_, err := c.AllReduceSum(ctx, 1)

		return err
	})
	require.ErrorIs(t, err, boom)
}

func TestGroup_ContextCancel(t *testing.T) {
	t.Parallel()

	g, err := cluster.NewGroup(2)
	require.NoError(t, err)
	m0, err := g.Member(0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m0.AllReduceSumInt(ctx, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, g.Err(), cluster.ErrGroupBroken)
}
