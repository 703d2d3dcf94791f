// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package expand

import (
	"fmt"
	"iter"
	"strings"
)

// Offset is a signed 2D displacement from a centre pixel, with an optional
// integer weight.
type Offset struct {
	X, Y int

	// W is the sample weight. Tables without weights leave it zero.
	W int
}

// Add returns the component-wise sum of two offsets. The weight of o is kept.
func (o Offset) Add(d Offset) Offset {
	return Offset{X: o.X + d.X, Y: o.Y + d.Y, W: o.W}
}

// Name encodes the coordinates as an identifier fragment. Each coordinate is
// padded to two columns, then '-' becomes 'm' and ' ' becomes 'p', so
// (-7, 3) is "m7p3".
func (o Offset) Name() string {
	return coordName(o.X) + coordName(o.Y)
}

func coordName(v int) string {
	s := fmt.Sprintf("%2d", v)
	s = strings.ReplaceAll(s, "-", "m")
	return strings.ReplaceAll(s, " ", "p")
}

// Table is an ordered, read-only list of offsets.
type Table []Offset

// Enumerate yields (index, offset) pairs in table order, with index starting
// at base. Templates choose the base: some name their samples p00..p15,
// others p01..p16.
func (t Table) Enumerate(base int) iter.Seq2[int, Offset] {
	return func(yield func(int, Offset) bool) {
		for i, o := range t {
			if !yield(base+i, o) {
				return
			}
		}
	}
}

// Weight returns the sum of all weights in the table.
func (t Table) Weight() int {
	total := 0
	for _, o := range t {
		total += o.W
	}
	return total
}

// Translate returns a copy of the table with every offset moved by d.
func (t Table) Translate(d Offset) Table {
	out := make(Table, len(t))
	for i, o := range t {
		out[i] = o.Add(d)
	}
	return out
}

// Range returns start, start+step, ... up to but excluding stop.
// A zero step returns nil.
func Range(start, stop, step int) []int {
	if step == 0 {
		return nil
	}
	var out []int
	for v := start; (step > 0 && v < stop) || (step < 0 && v > stop); v += step {
		out = append(out, v)
	}
	return out
}

// RowMajor builds a grid with y in the outer loop and x in the inner loop,
// so neighbouring entries differ in x.
func RowMajor(xs, ys []int) Table {
	out := make(Table, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			out = append(out, Offset{X: x, Y: y})
		}
	}
	return out
}

// ColumnMajor builds a grid with x in the outer loop and y in the inner loop.
func ColumnMajor(xs, ys []int) Table {
	out := make(Table, 0, len(xs)*len(ys))
	for _, x := range xs {
		for _, y := range ys {
			out = append(out, Offset{X: x, Y: y})
		}
	}
	return out
}

// MustLen panics unless t has exactly n entries. Templates call it when a
// table is declared so that a miscounted table fails at init, not in the
// generated kernel.
func MustLen(t Table, n int) Table {
	if len(t) != n {
		panic(fmt.Sprintf("expand: table has %d entries, want %d", len(t), n))
	}
	return t
}
