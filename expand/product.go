// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package expand

import "iter"

// Product yields the Cartesian product of the given slots. The leftmost
// slot varies slowest, so Product([]bool{true, false}, []bool{true, false})
// yields (T,T), (T,F), (F,T), (F,F).
//
// Each yielded slice is freshly allocated and may be retained. An empty slot
// makes the product empty; no slots at all yield a single empty combination.
func Product[T any](slots ...[]T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for _, s := range slots {
			if len(s) == 0 {
				return
			}
		}

		idx := make([]int, len(slots))
		for {
			combo := make([]T, len(slots))
			for i, s := range slots {
				combo[i] = s[idx[i]]
			}
			if !yield(combo) {
				return
			}

			// Advance like an odometer, rightmost slot first.
			i := len(slots) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(slots[i]) {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

// ProductCount returns the number of combinations Product yields.
func ProductCount[T any](slots ...[]T) int {
	n := 1
	for _, s := range slots {
		n *= len(s)
	}
	return n
}
