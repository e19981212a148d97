package neuralgas

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/relgas/matrix"
)

// Log is the opt-in history of one Train call, in iteration order.
// Both slices have one entry per completed iteration when logging is on and
// are empty otherwise.
type Log struct {
	Prototypes         []*matrix.Dense // α after each iteration
	QuantizationErrors []float64       // quantization error before each update
}

func newLog(enabled bool, iterations int) *Log {
	if !enabled {
		return &Log{}
	}

	return &Log{
		Prototypes:         make([]*matrix.Dense, 0, iterations),
		QuantizationErrors: make([]float64, 0, iterations),
	}
}

// clone deep-copies the log so callers never share snapshots with the instance.
func (l *Log) clone() *Log {
	out := &Log{
		Prototypes:         make([]*matrix.Dense, len(l.Prototypes)),
		QuantizationErrors: append([]float64(nil), l.QuantizationErrors...),
	}
	for i, p := range l.Prototypes {
		out.Prototypes[i] = p.Copy()
	}

	return out
}

// NeuralGas is a batch relational neural gas: a PrototypeSet plus the
// training configuration. It is not safe for concurrent use.
type NeuralGas struct {
	protos  *PrototypeSet
	ranker  Ranker
	logger  *Logger
	logging bool
	last    *Log // history of the last accepted Train call
}

// New creates a NeuralGas with k randomly initialized prototypes over n objects.
//
// Errors: see NewPrototypeSet.
func New(k, n int, opts ...Option) (*NeuralGas, error) {
	o := gatherOptions(opts...)
	p, err := newPrototypeSet(k, n, rngFromSeed(o.seed))
	if err != nil {
		return nil, err
	}

	return newNeuralGas(p, o), nil
}

// NewFromPrototypes creates a NeuralGas starting from a copy of alpha (K×N).
//
// Errors: see NewPrototypeSetFrom.
func NewFromPrototypes(alpha matrix.Matrix, opts ...Option) (*NeuralGas, error) {
	p, err := NewPrototypeSetFrom(alpha)
	if err != nil {
		return nil, err
	}

	return newNeuralGas(p, gatherOptions(opts...)), nil
}

func newNeuralGas(p *PrototypeSet, o options) *NeuralGas {
	return &NeuralGas{
		protos:  p,
		ranker:  o.ranker,
		logger:  o.logger,
		logging: o.logging,
		last:    &Log{},
	}
}

// Count returns the number of prototypes K.
func (g *NeuralGas) Count() int { return g.protos.Count() }

// Dimension returns the prototype dimension N.
func (g *NeuralGas) Dimension() int { return g.protos.Dimension() }

// Prototypes returns a copy of the current coefficient matrix α.
func (g *NeuralGas) Prototypes() *matrix.Dense { return g.protos.Prototypes() }

// SetLogging switches history logging for subsequent Train calls.
func (g *NeuralGas) SetLogging(on bool) { g.logging = on }

// Logging reports whether history logging is enabled.
func (g *NeuralGas) Logging() bool { return g.logging }

// LoggedPrototypes returns copies of the α snapshots of the last Train call.
func (g *NeuralGas) LoggedPrototypes() []*matrix.Dense { return g.last.clone().Prototypes }

// LoggedQuantizationErrors returns the quantization errors of the last Train call.
func (g *NeuralGas) LoggedQuantizationErrors() []float64 {
	return append([]float64(nil), g.last.QuantizationErrors...)
}

// Train runs iterations batch steps with the default temperature 0.5·K.
// See TrainLambda.
func (g *NeuralGas) Train(ctx context.Context, D matrix.Matrix, iterations int) (*Log, error) {
	return g.TrainLambda(ctx, D, iterations, DefaultLambda(g.Count()))
}

// TrainLambda runs iterations batch steps over the N×N dissimilarity matrix D
// starting at temperature lambda. Training continues from the current α.
//
// Every precondition is checked before α or the stored log change:
// ErrNoPrototypes, ErrNilData, ErrTooFewObjects, ErrZeroIterations,
// ErrDimensionMismatch, ErrNonPositiveLambda, ErrNonSquare.
//
// ctx is checked before each iteration. On cancellation α holds the last
// completed iteration and the returned Log its history; the error wraps ctx.Err().
func (g *NeuralGas) TrainLambda(ctx context.Context, D matrix.Matrix, iterations int, lambda float64) (*Log, error) {
	const op = "Train"
	start := time.Now()
	if err := validateTraining(g.Count(), g.Dimension(), D, iterations, lambda); err != nil {
		err = opError(componentNeuralGas, op, err)
		g.logger.LogTrain(ctx, g.Count(), iterations, time.Since(start), err)

		return nil, err
	}

	hist := newLog(g.logging, iterations)
	g.last = hist
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			err = opError(componentNeuralGas, op, fmt.Errorf("iteration %d: %w", i, err))
			g.logger.LogTrain(ctx, g.Count(), i, time.Since(start), err)

			return hist.clone(), err
		}

		li := annealedLambda(lambda, i, iterations)
		A, err := AdaptationMatrix(g.protos.alpha, D)
		if err != nil {
			return hist.clone(), opError(componentNeuralGas, op, err)
		}
		var attrs []any
		if g.logging {
			qe, err := QuantizationError(A)
			if err != nil {
				return hist.clone(), opError(componentNeuralGas, op, err)
			}
			hist.QuantizationErrors = append(hist.QuantizationErrors, qe)
			attrs = append(attrs, "qerr", qe)
		}
		if err = applyNeighborhood(A, g.ranker, li); err != nil {
			return hist.clone(), opError(componentNeuralGas, op, err)
		}
		g.protos.replace(A)
		if g.logging {
			hist.Prototypes = append(hist.Prototypes, g.protos.Snapshot())
		}
		g.logger.LogIteration(ctx, i, li, attrs...)
	}
	g.logger.LogTrain(ctx, g.Count(), iterations, time.Since(start), nil)

	return hist.clone(), nil
}

// validateTraining checks the Train preconditions in their documented order.
// k is the (global) prototype count and n the prototype dimension.
func validateTraining(k, n int, D matrix.Matrix, iterations int, lambda float64) error {
	if k <= 0 {
		return ErrNoPrototypes
	}
	if matrix.ValidateNotNil(D) != nil {
		return ErrNilData
	}
	if D.Rows() < k {
		return fmt.Errorf("%w: %d objects, %d prototypes", ErrTooFewObjects, D.Rows(), k)
	}
	if iterations <= 0 {
		return ErrZeroIterations
	}
	if D.Cols() != n {
		return fmt.Errorf("%w: data has %d columns, prototypes %d", ErrDimensionMismatch, D.Cols(), n)
	}
	if !(lambda > 0) || math.IsInf(lambda, 1) {
		return fmt.Errorf("%w: got %v", ErrNonPositiveLambda, lambda)
	}
	if matrix.ValidateSquare(D) != nil {
		return fmt.Errorf("%w: %dx%d", ErrNonSquare, D.Rows(), D.Cols())
	}

	return nil
}
