// Command relgas clusters objects given a CSV matrix of pairwise
// dissimilarities with batch relational neural gas and prints the prototype
// index of every object.
//
// Usage:
//
//	relgas [-config relgas.yaml] [-data matrix.csv] [-k 3] [-iterations 200] [-shards 2]
//	relgas -write-config relgas.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/katalvlaran/relgas/cluster"
	"github.com/katalvlaran/relgas/internal/config"
	"github.com/katalvlaran/relgas/matrix"
	"github.com/katalvlaran/relgas/neuralgas"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to config YAML (default $"+config.PathEnv+" or "+config.DefaultPath+")")
	dataPath := flag.String("data", "", "CSV dissimilarity matrix (overrides data.path)")
	k := flag.Int("k", 0, "Number of prototypes (overrides training.prototypes)")
	iterations := flag.Int("iterations", 0, "Training iterations (overrides training.iterations)")
	shards := flag.Int("shards", 0, "Split prototypes across this many in-process members")
	writeCfg := flag.String("write-config", "", "Write the effective configuration to this path and exit")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*cfgPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}
	if *k > 0 {
		cfg.Training.Prototypes = *k
	}
	if *iterations > 0 {
		cfg.Training.Iterations = *iterations
	}
	if *shards > 0 {
		cfg.Training.Shards = *shards
	}

	if *writeCfg != "" {
		if err := config.Save(*writeCfg, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write config: %v\n", err)
			os.Exit(1)
		}

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// result is what one training run reports.
type result struct {
	assignments []int
	qerrs       []float64
}

func run(ctx context.Context, cfg *config.AppConfig, out io.Writer) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if cfg.Data.Path == "" {
		return errors.New("no dissimilarity matrix: set data.path or -data")
	}
	D, err := loadMatrix(cfg)
	if err != nil {
		return err
	}
	if err := matrix.ValidateSymmetric(D, matrix.WithEpsilon(cfg.Data.SymmetryEpsilon)); err != nil {
		logger.Warn("dissimilarity matrix is not symmetric", "path", cfg.Data.Path, "error", err)
	}
	ranker, err := neuralgas.RankerByName(cfg.Training.Ranker)
	if err != nil {
		return err
	}
	opts := []neuralgas.Option{
		neuralgas.WithSeed(cfg.Training.Seed),
		neuralgas.WithLogging(cfg.Training.History),
		neuralgas.WithRanker(ranker),
		neuralgas.WithLogger(logger),
	}

	var res *result
	if cfg.Training.Shards > 1 {
		res, err = trainSharded(ctx, cfg, D, opts)
	} else {
		res, err = trainSingle(ctx, cfg, D, opts)
	}
	if err != nil {
		return err
	}

	for obj, proto := range res.assignments {
		fmt.Fprintf(out, "%d\t%d\n", obj, proto)
	}
	for i, q := range res.qerrs {
		fmt.Fprintf(out, "# iteration %d quantization error %g\n", i, q)
	}

	return nil
}

func trainSingle(ctx context.Context, cfg *config.AppConfig, D *matrix.Dense, opts []neuralgas.Option) (*result, error) {
	g, err := neuralgas.New(cfg.Training.Prototypes, D.Cols(), opts...)
	if err != nil {
		return nil, err
	}
	var hist *neuralgas.Log
	if cfg.Training.Lambda > 0 {
		hist, err = g.TrainLambda(ctx, D, cfg.Training.Iterations, cfg.Training.Lambda)
	} else {
		hist, err = g.Train(ctx, D, cfg.Training.Iterations)
	}
	if err != nil {
		return nil, err
	}
	idx, err := g.Use(D)
	if err != nil {
		return nil, err
	}

	return &result{assignments: idx, qerrs: hist.QuantizationErrors}, nil
}

// trainSharded spreads the prototypes as evenly as possible over the members;
// every member ends with the same assignments, rank 0 reports them.
func trainSharded(ctx context.Context, cfg *config.AppConfig, D *matrix.Dense, opts []neuralgas.Option) (*result, error) {
	var (
		mu  sync.Mutex
		res *result
	)
	size := cfg.Training.Shards
	err := cluster.Run(ctx, size, func(ctx context.Context, c cluster.Coordinator) error {
		local := cfg.Training.Prototypes / size
		if c.Rank() < cfg.Training.Prototypes%size {
			local++
		}
		s, err := neuralgas.NewShard(c, local, D.Cols(), opts...)
		if err != nil {
			return err
		}
		var hist *neuralgas.Log
		if cfg.Training.Lambda > 0 {
			hist, err = s.TrainLambda(ctx, D, cfg.Training.Iterations, cfg.Training.Lambda)
		} else {
			hist, err = s.Train(ctx, D, cfg.Training.Iterations)
		}
		if err != nil {
			return err
		}
		idx, err := s.Use(ctx, D)
		if err != nil {
			return err
		}
		if c.Rank() == 0 {
			mu.Lock()
			res = &result{assignments: idx, qerrs: hist.QuantizationErrors}
			mu.Unlock()
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func loadMatrix(cfg *config.AppConfig) (*matrix.Dense, error) {
	f, err := os.Open(cfg.Data.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var comment rune
	if cfg.Data.Comment != "" {
		comment = []rune(cfg.Data.Comment)[0]
	}
	D, err := readDissimilarities(f, []rune(cfg.Data.Delimiter)[0], comment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Data.Path, err)
	}

	return D, nil
}

func newLogger(cfg *config.AppConfig) (*neuralgas.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if cfg.Log.Format == "json" {
		return neuralgas.NewJSONLogger(level), nil
	}

	return neuralgas.NewTextLogger(level), nil
}
