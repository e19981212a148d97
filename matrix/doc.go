// Package matrix offers the dense linear-algebra primitives used by the
// relational neural gas.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked accessors,
//     copy-out row/column extraction (Row, Col) and write-back (SetRow, SetCol).
//   - Kernels: Mul, Transpose, Scale, MatVec, Dot, row broadcasts (ScaleRows,
//     SubRows) and reductions (RowSums, ColMin, ColArgMin).
//   - The ranking primitive Rank (0-based ascending ranks, stable on ties)
//     and its index form RankIndex.
//   - The numerically-zero predicate IsNumericalZero with a fixed tolerance.
//
// All kernels validate eagerly and return sentinel errors (see errors.go);
// callers match them with errors.Is. Loop orders are fixed, so results are
// reproducible bit for bit for identical inputs.
package matrix
