// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Ranking primitive: per vector, the 0-based ascending rank of each element.
//   - RankIndex exposes the underlying stable argsort.
//
// Contract:
//   - The result of Rank is always a permutation of 0..len(x)-1.
//   - Ties keep their original order: the lower index receives the lower rank.
//   - NaN sorts after every number (treated as +Inf for ordering) so the
//     permutation property holds for any input.

package matrix

import (
	"math"
	"sort"
)

// RankIndex returns the indices of x in stable ascending order of value.
// idx[0] is the index of the smallest element (lowest index on ties).
//
// Complexity: O(n log n) time, O(n) space. x is not modified.
func RankIndex(x []float64) []int {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return rankLess(x[idx[a]], x[idx[b]])
	})

	return idx
}

// Rank returns r where r[i] is the 0-based ascending rank of x[i].
// Ranks are stored as float64 so they feed element-wise transforms directly.
//
// Example: Rank([]float64{3, 1, 2, 1}) == []float64{3, 0, 2, 1}.
//
// Complexity: O(n log n) time, O(n) space. x is not modified.
func Rank(x []float64) []float64 {
	ranks := make([]float64, len(x))
	for r, i := range RankIndex(x) {
		ranks[i] = float64(r)
	}

	return ranks
}

// rankLess orders NaN last.
func rankLess(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}

	return a < b
}
