// SPDX-License-Identifier: MIT

// Package neuralgas implements batch Relational Neural Gas (RNG): prototype
// based clustering of objects known only through a matrix of pairwise
// dissimilarities.
//
// What:
//
//   - A prototype is a convex combination of the N objects. K prototypes are
//     stored as the K×N coefficient matrix α (PrototypeSet), each row summing
//     to 1 unless its sum is numerically zero.
//   - Training (NeuralGas.TrainLambda) repeats, for i = 0..iterations-1:
//
//     λ_i = λ·(0.01/λ)^(i/iterations)
//     A   = α·D, then A[n][·] -= 0.5·(α[n]·A[n])     (AdaptationMatrix)
//     A[·][j] = exp(-rank(A[·][j]) / λ_i)             (per object j)
//     α   = A, row-normalized
//
//     Train uses λ = 0.5·K.
//   - Use maps objects to the prototype with the smallest raw α·D entry.
//   - QuantizationError(A) = 0.5·Σ_j min_i A[i][j] tracks the fit.
//
// Why relational:
//
//   - D may come from any dissimilarity (edit distances, compression
//     distances, graph distances); no coordinates are needed. For a D of
//     squared Euclidean distances RNG reproduces classic neural gas.
//
// Options:
//
//   - WithSeed: initialization stream (0 ⇒ fixed default).
//   - WithLogging: keep per-iteration α snapshots and quantization errors.
//   - WithRanker: neighborhood ranking strategy (ExactRanker by default).
//   - WithLogger: structured slog-based logger (no-op by default).
//
// Errors:
//
//   - ErrInvalidConstruction, ErrPrecondition and ErrUnknownConfiguration are
//     kinds; every specific sentinel wraps one. Rejected calls never mutate α.
//
// Distribution:
//
//   - Shard splits the prototypes across the members of a cluster.Coordinator
//     and reproduces single-process training exactly.
//
// Complexity per iteration: O(K·N²) for α·D, O(N·K log K) for ranking.
//
// Concurrency: NeuralGas and Shard are not safe for concurrent use.
package neuralgas
