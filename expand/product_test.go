// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package expand

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductOrder(t *testing.T) {
	neg := []string{" ", "~"}
	got := slices.Collect(Product(neg, neg, neg))

	want := [][]string{
		{" ", " ", " "},
		{" ", " ", "~"},
		{" ", "~", " "},
		{" ", "~", "~"},
		{"~", " ", " "},
		{"~", " ", "~"},
		{"~", "~", " "},
		{"~", "~", "~"},
	}
	assert.Equal(t, want, got, "leftmost slot varies slowest")
}

func TestProductCounts(t *testing.T) {
	bits := []bool{false, true}
	for k := 0; k <= 6; k++ {
		slots := make([][]bool, k)
		for i := range slots {
			slots[i] = bits
		}
		assert.Len(t, slices.Collect(Product(slots...)), 1<<k, "k=%d", k)
		assert.Equal(t, 1<<k, ProductCount(slots...))
	}

	assert.Empty(t, slices.Collect(Product([]int{1, 2}, []int{})))
	assert.Equal(t, 6, ProductCount([]int{1, 2}, []int{1, 2, 3}))
}

func TestProductCombinationsAreIndependent(t *testing.T) {
	var kept [][]int
	for c := range Product([]int{1, 2}, []int{3, 4}) {
		kept = append(kept, c)
	}
	kept[0][0] = 99
	assert.Equal(t, []int{1, 4}, kept[1])
}

func TestProductStop(t *testing.T) {
	n := 0
	for range Product([]int{1, 2, 3}, []int{1, 2, 3}) {
		n++
		if n == 4 {
			break
		}
	}
	assert.Equal(t, 4, n)
}
