// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package expand

import (
	"fmt"
	"iter"
)

// Shape selects which cells of a square matrix are enumerated.
type Shape uint8

const (
	// Full enumerates every cell: row in [0,N), col in [0,N).
	Full Shape = iota

	// Upper enumerates the upper triangle including the diagonal:
	// col in [row,N).
	Upper

	// StrictLower enumerates the lower triangle without the diagonal:
	// col in [0,row).
	StrictLower
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case Full:
		return "full"
	case Upper:
		return "upper"
	case StrictLower:
		return "strict-lower"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// Cell is one (row, col) position of an unrolled matrix.
type Cell struct {
	Row, Col int
}

// Name returns the conventional scalar name for the cell, e.g. "r1c2".
func (c Cell) Name() string {
	return fmt.Sprintf("r%dc%d", c.Row, c.Col)
}

// Index returns the row-major linear index of the cell in a matrix with the
// given number of columns.
func (c Cell) Index(cols int) int {
	return c.Row*cols + c.Col
}

// Transpose returns the mirrored cell.
func (c Cell) Transpose() Cell {
	return Cell{Row: c.Col, Col: c.Row}
}

// Cells yields the cells of an n x n matrix selected by shape, in row-major
// order. A non-positive n yields nothing; callers validate dimensions before
// expanding.
func Cells(n int, shape Shape) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for row := 0; row < n; row++ {
			lo, hi := 0, n
			switch shape {
			case Upper:
				lo = row
			case StrictLower:
				hi = row
			}
			for col := lo; col < hi; col++ {
				if !yield(Cell{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}

// Rect yields every cell of a rows x cols matrix in row-major order.
func Rect(rows, cols int) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				if !yield(Cell{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}

// CellCount returns how many cells Cells(n, shape) yields.
func CellCount(n int, shape Shape) int {
	if n <= 0 {
		return 0
	}
	switch shape {
	case Upper:
		return n * (n + 1) / 2
	case StrictLower:
		return n * (n - 1) / 2
	default:
		return n * n
	}
}
