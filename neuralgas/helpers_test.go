package neuralgas_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/relgas/matrix"
	"github.com/stretchr/testify/require"
)

// twoClusters is the 4-object fixture: {0,1} and {2,3} are tight pairs
// (0.1 apart), every cross pair is 5.0 apart.
func twoClusters(t *testing.T) *matrix.Dense {
	t.Helper()

	return mustDense(t, [][]float64{
		{0, 0.1, 5, 5},
		{0.1, 0, 5, 5},
		{5, 5, 0, 0.1},
		{5, 5, 0.1, 0},
	})
}

// threeClusters is a 9-object fixture with three groups of three.
func threeClusters(t *testing.T) *matrix.Dense {
	t.Helper()
	const n = 9
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			switch {
			case i == j:
			case i/3 == j/3:
				rows[i][j] = 0.2 + 0.01*float64((i+j)%3)
			default:
				rows[i][j] = 6
			}
		}
	}

	return mustDense(t, rows)
}

// skewedStart is a fixed, asymmetric initial α for the two-cluster fixture.
func skewedStart(t *testing.T) *matrix.Dense {
	t.Helper()

	return mustDense(t, [][]float64{
		{0.4, 0.3, 0.2, 0.1},
		{0.1, 0.2, 0.3, 0.4},
	})
}

func mustDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// rowsOf extracts all rows of m.
func rowsOf(t *testing.T, m *matrix.Dense) [][]float64 {
	t.Helper()
	out := make([][]float64, m.Rows())
	for i := range out {
		row, err := m.Row(i)
		require.NoError(t, err)
		out[i] = row
	}

	return out
}

// requireStochasticRows asserts every row sums to 1 or to a numerical zero;
// rows of starved prototypes are left unnormalized.
func requireStochasticRows(t *testing.T, m *matrix.Dense) {
	t.Helper()
	for i, row := range rowsOf(t, m) {
		sum := 0.0
		for _, v := range row {
			require.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		require.False(t, math.IsNaN(sum))
		if matrix.IsNumericalZero(sum) {
			continue
		}
		require.InDeltaf(t, 1.0, sum, 1e-12, "row %d", i)
	}
}

// requireRowsClose compares two row sets element-wise within 1e-12.
func requireRowsClose(t *testing.T, want, got [][]float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Len(t, got[i], len(want[i]))
		for j := range want[i] {
			require.InDeltaf(t, want[i][j], got[i][j], 1e-12, "row %d col %d", i, j)
		}
	}
}
