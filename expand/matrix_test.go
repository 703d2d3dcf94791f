// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package expand

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellsCounts(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for _, shape := range []Shape{Full, Upper, StrictLower} {
			got := len(slices.Collect(Cells(n, shape)))
			assert.Equal(t, CellCount(n, shape), got, "n=%d shape=%v", n, shape)
		}
		if n > 0 {
			assert.Equal(t, n*n, CellCount(n, Full))
			assert.Equal(t, n*(n+1)/2, CellCount(n, Upper))
			assert.Equal(t, n*(n-1)/2, CellCount(n, StrictLower))
		}
	}
	assert.Zero(t, CellCount(-3, Full))
}

func TestCellsOrder(t *testing.T) {
	assert.Equal(t,
		[]Cell{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 2}, {2, 2}},
		slices.Collect(Cells(3, Upper)))
	assert.Equal(t,
		[]Cell{{1, 0}, {2, 0}, {2, 1}},
		slices.Collect(Cells(3, StrictLower)))
	assert.Equal(t,
		[]Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		slices.Collect(Cells(2, Full)))
}

func TestCellsStop(t *testing.T) {
	n := 0
	for range Cells(4, Full) {
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)
}

func TestRect(t *testing.T) {
	cells := slices.Collect(Rect(3, 4))
	assert.Len(t, cells, 12)
	assert.Equal(t, Cell{0, 3}, cells[3])
	assert.Equal(t, Cell{1, 0}, cells[4])
	for i, c := range cells {
		assert.Equal(t, i, c.Index(4))
	}
}

func TestCellHelpers(t *testing.T) {
	c := Cell{Row: 1, Col: 2}
	assert.Equal(t, "r1c2", c.Name())
	assert.Equal(t, 5, c.Index(3))
	assert.Equal(t, Cell{Row: 2, Col: 1}, c.Transpose())
	assert.Equal(t, "strict-lower", StrictLower.String())
	assert.Equal(t, "Shape(9)", Shape(9).String())
}
