// Package cluster provides the collective operations a group of cooperating
// processes needs to train one prototype model split across them.
//
// Every member must issue the same collective calls in the same order; a
// member that diverges breaks the whole group instead of deadlocking it.
//
// Group is an in-process implementation with goroutine members. Other
// transports only need to satisfy Coordinator.
package cluster

import (
	"context"
	"errors"
)

var (
	// ErrInvalidSize is returned by NewGroup/Run for a non-positive size.
	ErrInvalidSize = errors.New("cluster: group size must be greater than zero")

	// ErrInvalidRank is returned by Group.Member for a rank outside [0, size).
	ErrInvalidRank = errors.New("cluster: rank out of range")

	// ErrCollectiveMismatch signals members issuing different collectives in
	// the same round, or one member calling twice in a round.
	ErrCollectiveMismatch = errors.New("cluster: collective call mismatch")

	// ErrGroupBroken is returned by every collective once the group failed.
	// It wraps the original cause.
	ErrGroupBroken = errors.New("cluster: group is broken")
)

// Coordinator is one member's view of the group.
type Coordinator interface {
	// Rank is this member's index in [0, Size()).
	Rank() int
	// Size is the number of members.
	Size() int
	// AllReduceSum returns the sum of v over all members (rank order).
	AllReduceSum(ctx context.Context, v float64) (float64, error)
	// AllReduceSumInt returns the sum of v over all members.
	AllReduceSumInt(ctx context.Context, v int) (int, error)
	// AllGather returns every member's part indexed by rank. The result is a
	// private copy; part may be empty.
	AllGather(ctx context.Context, part []float64) ([][]float64, error)
}
