package neuralgas

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/relgas/cluster"
	"github.com/katalvlaran/relgas/matrix"
)

// Shard is one member of a relational neural gas whose prototypes are split
// across the members of a cluster.Coordinator. Every member holds the full
// dissimilarity matrix and a disjoint block of prototype rows; the global
// prototype order is the concatenation of the blocks in rank order.
//
// All methods taking a context are collective: every member must call them
// with the same arguments (apart from its own prototypes) in the same order.
// Concatenating the shard coefficients after training gives the same α as a
// single NeuralGas trained from the concatenated initial coefficients.
type Shard struct {
	coord   cluster.Coordinator
	protos  *PrototypeSet
	ranker  Ranker
	logger  *Logger
	logging bool
	last    *Log
}

// NewShard creates a shard owning k randomly initialized prototypes over n
// objects. The stream is derived from the seed and the member rank, so
// members never share initial coefficients. k may be 0.
func NewShard(c cluster.Coordinator, k, n int, opts ...Option) (*Shard, error) {
	o := gatherOptions(opts...)
	p, err := newPrototypeSet(k, n, rngFromSeed(deriveSeed(o.seed, uint64(c.Rank()))))
	if err != nil {
		return nil, err
	}

	return newShard(c, p, o), nil
}

// NewShardFromPrototypes creates a shard starting from a copy of its local
// block of coefficients (k×N, k may be 0).
func NewShardFromPrototypes(c cluster.Coordinator, alpha matrix.Matrix, opts ...Option) (*Shard, error) {
	p, err := NewPrototypeSetFrom(alpha)
	if err != nil {
		return nil, err
	}

	return newShard(c, p, gatherOptions(opts...)), nil
}

func newShard(c cluster.Coordinator, p *PrototypeSet, o options) *Shard {
	return &Shard{
		coord:   c,
		protos:  p,
		ranker:  o.ranker,
		logger:  o.logger.WithShard(c.Rank()),
		logging: o.logging,
		last:    &Log{},
	}
}

// Count returns the number of prototypes owned by this shard.
func (s *Shard) Count() int { return s.protos.Count() }

// Dimension returns the prototype dimension N.
func (s *Shard) Dimension() int { return s.protos.Dimension() }

// Prototypes returns a copy of the local coefficient block.
func (s *Shard) Prototypes() *matrix.Dense { return s.protos.Prototypes() }

// SetLogging switches history logging for subsequent Train calls.
func (s *Shard) SetLogging(on bool) { s.logging = on }

// Logging reports whether history logging is enabled.
func (s *Shard) Logging() bool { return s.logging }

// LoggedPrototypes returns copies of the local α snapshots of the last Train call.
func (s *Shard) LoggedPrototypes() []*matrix.Dense { return s.last.clone().Prototypes }

// LoggedQuantizationErrors returns the global quantization errors of the last Train call.
func (s *Shard) LoggedQuantizationErrors() []float64 {
	return append([]float64(nil), s.last.QuantizationErrors...)
}

// GlobalCount returns the number of prototypes across all members. Collective.
func (s *Shard) GlobalCount(ctx context.Context) (int, error) {
	k, err := s.coord.AllReduceSumInt(ctx, s.Count())
	if err != nil {
		return 0, opError(componentShard, "GlobalCount", err)
	}

	return k, nil
}

// Train runs TrainLambda with the default temperature 0.5·K, K being the
// global prototype count. When no member owns a prototype the temperature
// falls back to the smallest positive float64, leaving ErrNoPrototypes as
// the reported failure. Collective.
func (s *Shard) Train(ctx context.Context, D matrix.Matrix, iterations int) (*Log, error) {
	k, err := s.GlobalCount(ctx)
	if err != nil {
		return nil, err
	}
	lambda := DefaultLambda(k)
	if lambda == 0 {
		lambda = math.SmallestNonzeroFloat64
	}

	return s.TrainLambda(ctx, D, iterations, lambda)
}

// TrainLambda is the sharded counterpart of NeuralGas.TrainLambda. Each
// iteration computes the local adaptation rows, gathers the global K×N
// adaptation matrix, ranks it column-wise and keeps the local rows as the
// new coefficients. Quantization errors are global and identical on every
// member. Collective.
//
// Preconditions are checked against the global count and agreed on by all
// members before any of them mutates: a member whose own arguments were
// valid reports ErrPeerRejected.
func (s *Shard) TrainLambda(ctx context.Context, D matrix.Matrix, iterations int, lambda float64) (*Log, error) {
	const op = "Train"
	start := time.Now()
	k, err := s.GlobalCount(ctx)
	if err != nil {
		return nil, err
	}
	if err = s.agree(ctx, validateTraining(k, s.Dimension(), D, iterations, lambda)); err != nil {
		err = opError(componentShard, op, err)
		s.logger.LogTrain(ctx, k, iterations, time.Since(start), err)

		return nil, err
	}

	hist := newLog(s.logging, iterations)
	s.last = hist
	for i := 0; i < iterations; i++ {
		if err = ctx.Err(); err != nil {
			err = opError(componentShard, op, fmt.Errorf("iteration %d: %w", i, err))
			s.logger.LogTrain(ctx, k, i, time.Since(start), err)

			return hist.clone(), err
		}

		li := annealedLambda(lambda, i, iterations)
		local, err := AdaptationMatrix(s.protos.alpha, D)
		if err != nil {
			return hist.clone(), opError(componentShard, op, err)
		}
		global, offset, err := s.gatherRows(ctx, local)
		if err != nil {
			return hist.clone(), opError(componentShard, op, err)
		}
		var attrs []any
		if s.logging {
			qe, err := QuantizationError(global)
			if err != nil {
				return hist.clone(), opError(componentShard, op, err)
			}
			hist.QuantizationErrors = append(hist.QuantizationErrors, qe)
			attrs = append(attrs, "qerr", qe)
		}
		if err = applyNeighborhood(global, s.ranker, li); err != nil {
			return hist.clone(), opError(componentShard, op, err)
		}
		own, err := sliceRows(global, offset, s.Count())
		if err == nil {
			err = matrix.ValidateSameShape(own, s.protos.alpha)
		}
		if err != nil {
			return hist.clone(), opError(componentShard, op, err)
		}
		s.protos.replace(own)
		if s.logging {
			hist.Prototypes = append(hist.Prototypes, s.protos.Snapshot())
		}
		s.logger.LogIteration(ctx, i, li, attrs...)
	}
	s.logger.LogTrain(ctx, k, iterations, time.Since(start), nil)

	return hist.clone(), nil
}

// Use assigns every column of D to its nearest prototype across all members
// and returns global prototype indices. Every member returns the same
// slice. Collective.
func (s *Shard) Use(ctx context.Context, D matrix.Matrix) ([]int, error) {
	const op = "Use"
	k, err := s.GlobalCount(ctx)
	if err != nil {
		return nil, err
	}
	if err = s.agree(ctx, validateUse(k, s.Dimension(), D)); err != nil {
		err = opError(componentShard, op, err)
		s.logger.LogUse(ctx, 0, err)

		return nil, err
	}
	local, err := matrix.Mul(s.protos.alpha, D)
	if err != nil {
		return nil, opError(componentShard, op, err)
	}
	global, _, err := s.gatherRows(ctx, local)
	if err != nil {
		return nil, opError(componentShard, op, err)
	}
	idx, err := matrix.ColArgMin(global)
	if err != nil {
		return nil, opError(componentShard, op, err)
	}
	s.logger.LogUse(ctx, len(idx), nil)

	return idx, nil
}

// agree makes every member see a failure if any member failed locally.
// It always issues exactly one collective, whatever localErr is.
func (s *Shard) agree(ctx context.Context, localErr error) error {
	failed := 0
	if localErr != nil {
		failed = 1
	}
	n, err := s.coord.AllReduceSumInt(ctx, failed)
	if err != nil {
		return err
	}
	if localErr != nil {
		return localErr
	}
	if n > 0 {
		return fmt.Errorf("%w: %d of %d members", ErrPeerRejected, n, s.coord.Size())
	}

	return nil
}

// gatherRows all-gathers the local rows of m (k×C) into the global matrix
// and returns it with the global index of this member's first row.
func (s *Shard) gatherRows(ctx context.Context, m *matrix.Dense) (*matrix.Dense, int, error) {
	cols := m.Cols()
	flat := make([]float64, 0, m.Rows()*cols)
	for i := 0; i < m.Rows(); i++ {
		row, err := m.Row(i)
		if err != nil {
			return nil, 0, err
		}
		flat = append(flat, row...)
	}
	parts, err := s.coord.AllGather(ctx, flat)
	if err != nil {
		return nil, 0, err
	}

	rows, offset := 0, 0
	for r, p := range parts {
		if cols == 0 || len(p)%cols != 0 {
			if len(p) == 0 {
				continue
			}
			return nil, 0, fmt.Errorf("%w: member %d sent %d values for %d columns", ErrDimensionMismatch, r, len(p), cols)
		}
		if r == s.coord.Rank() {
			offset = rows
		}
		rows += len(p) / cols
	}
	global, err := matrix.NewEmpty(rows, cols)
	if err != nil {
		return nil, 0, err
	}
	i := 0
	for _, p := range parts {
		for start := 0; start+cols <= len(p) && cols > 0; start += cols {
			if err = global.SetRow(i, p[start:start+cols]); err != nil {
				return nil, 0, err
			}
			i++
		}
	}

	return global, offset, nil
}

// sliceRows copies rows [offset, offset+k) of m.
func sliceRows(m *matrix.Dense, offset, k int) (*matrix.Dense, error) {
	out, err := matrix.NewEmpty(k, m.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < k; i++ {
		row, err := m.Row(offset + i)
		if err != nil {
			return nil, err
		}
		if err = out.SetRow(i, row); err != nil {
			return nil, err
		}
	}

	return out, nil
}
