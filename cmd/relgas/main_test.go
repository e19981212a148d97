package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/relgas/internal/config"
	"github.com/katalvlaran/relgas/matrix"
	"github.com/stretchr/testify/require"
)

const pairsCSV = `# two tight pairs
0, 0.1, 5, 5
0.1, 0, 5, 5
5, 5, 0, 0.1
5, 5, 0.1, 0
`

func TestReadDissimilarities(t *testing.T) {
	D, err := readDissimilarities(strings.NewReader(pairsCSV), ',', '#')
	require.NoError(t, err)
	require.Equal(t, 4, D.Rows())
	require.Equal(t, 4, D.Cols())
	v, err := D.At(2, 3)
	require.NoError(t, err)
	require.Equal(t, 0.1, v)

	_, err = readDissimilarities(strings.NewReader("0,x\n1,0\n"), ',', 0)
	require.Error(t, err)

	_, err = readDissimilarities(strings.NewReader("0;1\n1;0;2\n"), ';', 0)
	require.Error(t, err)

	_, err = readDissimilarities(strings.NewReader(""), ',', 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func writeConfig(t *testing.T, shards int) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "pairs.csv")
	require.NoError(t, os.WriteFile(data, []byte(pairsCSV), 0o644))

	cfgPath := filepath.Join(dir, "relgas.yaml")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Data.Path = data
	cfg.Training.Prototypes = 2
	cfg.Training.Iterations = 10
	cfg.Training.Shards = shards
	cfg.Training.History = true
	cfg.Log.Level = "error"

	return cfg
}

func TestRun(t *testing.T) {
	for _, shards := range []int{1, 2} {
		cfg := writeConfig(t, shards)
		var out bytes.Buffer
		require.NoError(t, run(context.Background(), cfg, &out))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 4+10, "four assignments and ten history lines")
		require.True(t, strings.HasPrefix(lines[0], "0\t"))
		require.True(t, strings.HasPrefix(lines[4], "# iteration 0 "))
	}
}

func TestRun_Errors(t *testing.T) {
	cfg := writeConfig(t, 1)
	cfg.Data.Path = ""
	require.Error(t, run(context.Background(), cfg, &bytes.Buffer{}))

	cfg = writeConfig(t, 1)
	cfg.Training.Ranker = "approximate"
	require.Error(t, run(context.Background(), cfg, &bytes.Buffer{}))

	cfg = writeConfig(t, 1)
	cfg.Training.Prototypes = 9
	require.Error(t, run(context.Background(), cfg, &bytes.Buffer{}))
}
