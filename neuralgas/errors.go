// SPDX-License-Identifier: MIT

package neuralgas

import (
	"errors"
	"fmt"
)

// Error kinds. Every sentinel below wraps exactly one kind, so callers can
// match either the precise condition or its category:
//
//	errors.Is(err, ErrZeroIterations) // precise
//	errors.Is(err, ErrPrecondition)   // category
var (
	// ErrInvalidConstruction marks a PrototypeSet that cannot be built.
	ErrInvalidConstruction = errors.New("neuralgas: invalid construction")

	// ErrPrecondition marks a Train/Use call rejected before any mutation.
	ErrPrecondition = errors.New("neuralgas: precondition violation")

	// ErrUnknownConfiguration marks an unrecognized or misbehaving extension
	// (neighborhood ranker).
	ErrUnknownConfiguration = errors.New("neuralgas: unknown configuration")
)

// Construction errors.
var (
	ErrZeroDimension = fmt.Errorf("%w: prototype size must be greater than zero", ErrInvalidConstruction)
	ErrNegativeCount = fmt.Errorf("%w: number of prototypes must not be negative", ErrInvalidConstruction)
	ErrNilPrototypes = fmt.Errorf("%w: prototype matrix is nil", ErrInvalidConstruction)
)

// Precondition errors, listed in the order Train checks them.
var (
	ErrNoPrototypes      = fmt.Errorf("%w: number of prototypes must be greater than zero", ErrPrecondition)
	ErrNilData           = fmt.Errorf("%w: dissimilarity matrix is nil", ErrPrecondition)
	ErrTooFewObjects     = fmt.Errorf("%w: number of datapoints are less than prototypes", ErrPrecondition)
	ErrZeroIterations    = fmt.Errorf("%w: iterations must be greater than zero", ErrPrecondition)
	ErrDimensionMismatch = fmt.Errorf("%w: data and prototype dimension are not equal", ErrPrecondition)
	ErrNonPositiveLambda = fmt.Errorf("%w: lambda must be greater than zero", ErrPrecondition)
	ErrNonSquare         = fmt.Errorf("%w: matrix must be square", ErrPrecondition)

	// ErrPeerRejected is returned by a shard whose own arguments were valid
	// while another member of the group rejected the same collective call.
	ErrPeerRejected = fmt.Errorf("%w: call rejected by a peer process", ErrPrecondition)
)

// Configuration errors.
var (
	ErrUnknownRanker  = fmt.Errorf("%w: unknown neighborhood ranker", ErrUnknownConfiguration)
	ErrRankerContract = fmt.Errorf("%w: ranker must return one rank per prototype", ErrUnknownConfiguration)
)

// Component identifiers reported through Error.Component.
const (
	componentPrototypeSet = "PrototypeSet"
	componentNeuralGas    = "NeuralGas"
	componentShard        = "Shard"
)

// Error carries the failing operation and, when known, the component that
// raised it. The wrapped sentinel stays reachable through errors.Is.
type Error struct {
	Op        string // operation, e.g. "Train"
	Component string // offending component; may be empty
	Err       error  // underlying sentinel or wrapped cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s.%s: %v", e.Component, e.Op, e.Err)
}

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// opError wraps err with op and component. Use only when err != nil.
func opError(component, op string, err error) error {
	return &Error{Op: op, Component: component, Err: err}
}
