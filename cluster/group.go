package cluster

import (
	"context"
	"fmt"
	"sync"
)

// Operation names used to detect diverging members.
const (
	opAllReduceSum    = "AllReduceSum"
	opAllReduceSumInt = "AllReduceSumInt"
	opAllGather       = "AllGather"
)

// Group is an in-process set of members exchanging data in lock-step rounds.
// A round completes when all members have contributed to it.
type Group struct {
	size int

	mu     sync.Mutex
	cur    *round // open round, nil between rounds
	broken error
	down   chan struct{} // closed when broken is set
}

type round struct {
	op      string
	parts   []any
	arrived []bool
	count   int
	done    chan struct{}
}

// NewGroup creates a group of size members.
func NewGroup(size int) (*Group, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	return &Group{size: size, down: make(chan struct{})}, nil
}

// Size returns the number of members.
func (g *Group) Size() int { return g.size }

// Member returns the Coordinator for rank. Each rank must be driven by
// exactly one goroutine.
func (g *Group) Member(rank int) (*Member, error) {
	if rank < 0 || rank >= g.size {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidRank, rank, g.size)
	}

	return &Member{g: g, rank: rank}, nil
}

// Err returns the error that broke the group, or nil.
func (g *Group) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.broken
}

// breakLocked marks the group broken once. g.mu must be held.
func (g *Group) breakLocked(cause error) {
	if g.broken != nil {
		return
	}
	g.broken = fmt.Errorf("%w: %w", ErrGroupBroken, cause)
	close(g.down)
}

// exchange contributes part to the current round of op and waits for the
// other members. It returns the parts of all members indexed by rank.
func (g *Group) exchange(ctx context.Context, rank int, op string, part any) ([]any, error) {
	g.mu.Lock()
	if g.broken != nil {
		err := g.broken
		g.mu.Unlock()

		return nil, err
	}
	r := g.cur
	if r == nil {
		r = &round{
			op:      op,
			parts:   make([]any, g.size),
			arrived: make([]bool, g.size),
			done:    make(chan struct{}),
		}
		g.cur = r
	}
	if r.op != op || r.arrived[rank] {
		err := fmt.Errorf("%w: rank %d called %s during %s", ErrCollectiveMismatch, rank, op, r.op)
		g.breakLocked(err)
		g.mu.Unlock()

		return nil, err
	}
	r.parts[rank] = part
	r.arrived[rank] = true
	r.count++
	if r.count == g.size {
		g.cur = nil
		close(r.done)
	}
	g.mu.Unlock()

	select {
	case <-r.done:
		return r.parts, nil
	default:
	}
	select {
	case <-r.done:
		return r.parts, nil
	case <-g.down:
		return nil, g.Err()
	case <-ctx.Done():
		g.mu.Lock()
		g.breakLocked(ctx.Err())
		g.mu.Unlock()

		return nil, ctx.Err()
	}
}

// Member is one rank of a Group. It implements Coordinator.
type Member struct {
	g    *Group
	rank int
}

var _ Coordinator = (*Member)(nil)

// Rank implements Coordinator.
func (m *Member) Rank() int { return m.rank }

// Size implements Coordinator.
func (m *Member) Size() int { return m.g.size }

// AllReduceSum implements Coordinator.
func (m *Member) AllReduceSum(ctx context.Context, v float64) (float64, error) {
	parts, err := m.g.exchange(ctx, m.rank, opAllReduceSum, v)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, p := range parts {
		sum += p.(float64)
	}

	return sum, nil
}

// AllReduceSumInt implements Coordinator.
func (m *Member) AllReduceSumInt(ctx context.Context, v int) (int, error) {
	parts, err := m.g.exchange(ctx, m.rank, opAllReduceSumInt, v)
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, p := range parts {
		sum += p.(int)
	}

	return sum, nil
}

// AllGather implements Coordinator.
func (m *Member) AllGather(ctx context.Context, part []float64) ([][]float64, error) {
	parts, err := m.g.exchange(ctx, m.rank, opAllGather, append([]float64(nil), part...))
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(parts))
	for i, p := range parts {
		out[i] = append([]float64(nil), p.([]float64)...)
	}

	return out, nil
}
