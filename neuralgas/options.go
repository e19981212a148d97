// SPDX-License-Identifier: MIT

// Package neuralgas: functional configuration for NeuralGas, Shard and
// PrototypeSet construction.
//
// Notes:
//   - Defaults: seed 0 (⇒ fixed default stream), logging off, exact ranking,
//     no-op logger.
//   - Constructors panic only on nonsensical values (programmer error).
package neuralgas

const (
	// DefaultLogging is the initial history-logging flag.
	DefaultLogging = false

	panicNilRanker = "neuralgas: WithRanker: ranker must not be nil"
)

// Option mutates internal options. Setters are applied in order (last wins).
type Option func(*options)

type options struct {
	seed    int64
	logging bool
	ranker  Ranker
	logger  *Logger
}

// WithSeed sets the seed of the initialization stream. 0 selects the fixed default.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithLogging enables or disables per-iteration history logging
// (prototype snapshots and quantization errors).
func WithLogging(on bool) Option {
	return func(o *options) { o.logging = on }
}

// WithRanker replaces the exact neighborhood ranker.
//
// Panics when r is nil.
func WithRanker(r Ranker) Option {
	if r == nil {
		panic(panicNilRanker)
	}

	return func(o *options) { o.ranker = r }
}

// WithLogger attaches a structured logger. nil restores the no-op logger.
func WithLogger(l *Logger) Option {
	return func(o *options) { o.logger = l }
}

func gatherOptions(user ...Option) options {
	o := options{
		logging: DefaultLogging,
		ranker:  ExactRanker{},
	}
	for _, set := range user {
		set(&o)
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}

	return o
}
