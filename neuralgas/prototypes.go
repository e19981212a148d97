package neuralgas

import (
	"math/rand"

	"github.com/katalvlaran/relgas/matrix"
)

// PrototypeSet owns the K×N coefficient matrix α. Row i expresses prototype i
// as a convex combination over the N objects; each row sums to 1 unless its
// sum is numerically zero, in which case it is left unnormalized.
//
// Only the trainer mutates α; accessors hand out copies.
type PrototypeSet struct {
	alpha *matrix.Dense
}

// NewPrototypeSet creates k prototypes over n objects with uniform [0,1)
// coefficients drawn from a seeded stream (WithSeed), then row-normalizes.
// k == 0 yields an empty set, which Train and Use reject later.
//
// Errors: ErrZeroDimension (n <= 0), ErrNegativeCount (k < 0).
func NewPrototypeSet(k, n int, opts ...Option) (*PrototypeSet, error) {
	o := gatherOptions(opts...)

	return newPrototypeSet(k, n, rngFromSeed(o.seed))
}

// NewPrototypeSetFrom copies alpha (K×N, K may be 0) and row-normalizes the copy.
//
// Errors: ErrNilPrototypes, ErrZeroDimension (alpha has no columns).
func NewPrototypeSetFrom(alpha matrix.Matrix) (*PrototypeSet, error) {
	const op = "NewPrototypeSetFrom"
	if matrix.ValidateNotNil(alpha) != nil {
		return nil, opError(componentPrototypeSet, op, ErrNilPrototypes)
	}
	k, n := alpha.Rows(), alpha.Cols()
	if n <= 0 {
		return nil, opError(componentPrototypeSet, op, ErrZeroDimension)
	}
	a, err := matrix.NewEmpty(k, n)
	if err != nil {
		return nil, opError(componentPrototypeSet, op, err)
	}
	var v float64
	for i := 0; i < k; i++ {
		for j := 0; j < n; j++ {
			if v, err = alpha.At(i, j); err != nil {
				return nil, opError(componentPrototypeSet, op, err)
			}
			if err = a.Set(i, j, v); err != nil {
				return nil, opError(componentPrototypeSet, op, err)
			}
		}
	}
	p := &PrototypeSet{alpha: a}
	p.RowNormalize()

	return p, nil
}

func newPrototypeSet(k, n int, rng *rand.Rand) (*PrototypeSet, error) {
	const op = "NewPrototypeSet"
	if n <= 0 {
		return nil, opError(componentPrototypeSet, op, ErrZeroDimension)
	}
	if k < 0 {
		return nil, opError(componentPrototypeSet, op, ErrNegativeCount)
	}
	a, err := matrix.NewEmpty(k, n)
	if err != nil {
		return nil, opError(componentPrototypeSet, op, err)
	}
	// rng.Float64 is always finite, so Apply cannot fail.
	_ = a.Apply(func(_, _ int, _ float64) float64 { return rng.Float64() })

	p := &PrototypeSet{alpha: a}
	p.RowNormalize()

	return p, nil
}

// RowNormalize divides every row by its sum, leaving rows whose sum is
// numerically zero untouched.
func (p *PrototypeSet) RowNormalize() {
	p.alpha = normalizeRows(p.alpha)
}

// normalizeRows returns m with each row scaled to unit sum (numerically-zero
// rows keep scale 1).
func normalizeRows(m *matrix.Dense) *matrix.Dense {
	// m is a non-nil *Dense and the scale vector matches its rows, so neither
	// kernel can fail here.
	sums, _ := matrix.RowSums(m)
	for i, s := range sums {
		if matrix.IsNumericalZero(s) {
			sums[i] = 1
			continue
		}
		sums[i] = 1 / s
	}
	out, _ := matrix.ScaleRows(m, sums)

	return out
}

// Snapshot returns a deep copy of α, independent of later training.
func (p *PrototypeSet) Snapshot() *matrix.Dense { return p.alpha.Copy() }

// Prototypes returns a copy of the current α.
func (p *PrototypeSet) Prototypes() *matrix.Dense { return p.alpha.Copy() }

// Count returns the number of prototypes K.
func (p *PrototypeSet) Count() int { return p.alpha.Rows() }

// Dimension returns the prototype dimension N (the number of objects).
func (p *PrototypeSet) Dimension() int { return p.alpha.Cols() }

// replace installs A as the new α and normalizes it.
func (p *PrototypeSet) replace(A *matrix.Dense) {
	p.alpha = normalizeRows(A)
}
