// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	"fmt"

	"github.com/gogpu/clgen/expand"
)

// fastRing is the 16-pixel Bresenham circle of radius 3 used by FAST,
// clockwise from the top. It matches the offsets in fast_9_detect.cxx.
var fastRing = expand.MustLen(expand.Table{
	{X: 0, Y: 3},
	{X: 1, Y: 3},
	{X: 2, Y: 2},
	{X: 3, Y: 1},
	{X: 3, Y: 0},
	{X: 3, Y: -1},
	{X: 2, Y: -2},
	{X: 1, Y: -3},
	{X: 0, Y: -3},
	{X: -1, Y: -3},
	{X: -2, Y: -2},
	{X: -3, Y: -1},
	{X: -3, Y: 0},
	{X: -3, Y: 1},
	{X: -2, Y: 2},
	{X: -1, Y: 3},
}, 16)

// fastCross is the 4-pixel subset of fastRing on the axes.
var fastCross = expand.MustLen(expand.Table{
	{X: 0, Y: 3},
	{X: 3, Y: 0},
	{X: 0, Y: -3},
	{X: -3, Y: 0},
}, 4)

// square3 is the 3x3 neighbourhood including the centre, row by row.
var square3 = expand.MustLen(expand.RowMajor(expand.Range(-1, 2, 1), expand.Range(-1, 2, 1)), 9)

// blurRing is the 3x3 binomial kernel; its weights sum to 16.
var blurRing = expand.MustLen(expand.Table{
	// Top row.
	{X: -1, Y: -1, W: 1},
	{X: 0, Y: -1, W: 2},
	{X: 1, Y: -1, W: 1},
	// Middle row.
	{X: -1, Y: 0, W: 2},
	{X: 0, Y: 0, W: 4},
	{X: 1, Y: 0, W: 2},
	// Bottom row.
	{X: -1, Y: 1, W: 1},
	{X: 0, Y: 1, W: 2},
	{X: 1, Y: 1, W: 1},
}, 9)

// hipsGrid is the 8x8 sparse grid of odd offsets in [-7, 7], row by row.
var hipsGrid = expand.MustLen(expand.RowMajor(expand.Range(-7, 8, 2), expand.Range(-7, 8, 2)), 64)

// hipsBlendGrid is every pixel in the 17x17 square around the corner,
// column by column.
var hipsBlendGrid = expand.MustLen(expand.ColumnMajor(expand.Range(-8, 9, 1), expand.Range(-8, 9, 1)), 289)

// hipsRichRing is four concentric 16-sample rings, grouped by direction:
// every row of four holds one angle at radius 3, 6, 8 and 9.
var hipsRichRing = expand.MustLen(expand.Table{
	{X: 3, Y: 0}, {X: 6, Y: -1}, {X: 8, Y: 0}, {X: 9, Y: -2},
	{X: 3, Y: -1}, {X: 5, Y: -3}, {X: 7, Y: -3}, {X: 8, Y: -5},
	{X: 2, Y: -2}, {X: 3, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: -8},
	{X: 1, Y: -3}, {X: 1, Y: -6}, {X: 3, Y: -7}, {X: 2, Y: -9},

	{X: 0, Y: -3}, {X: -1, Y: -6}, {X: 0, Y: -8}, {X: -2, Y: -9},
	{X: -1, Y: -3}, {X: -3, Y: -5}, {X: -3, Y: -7}, {X: -5, Y: -8},
	{X: -2, Y: -2}, {X: -5, Y: -3}, {X: -5, Y: -5}, {X: -8, Y: -5},
	{X: -3, Y: -1}, {X: -6, Y: -1}, {X: -7, Y: -3}, {X: -9, Y: -2},

	{X: -3, Y: 0}, {X: -6, Y: 1}, {X: -8, Y: 0}, {X: -9, Y: 2},
	{X: -3, Y: 1}, {X: -5, Y: 3}, {X: -7, Y: 3}, {X: -8, Y: 5},
	{X: -2, Y: 2}, {X: -3, Y: 5}, {X: -5, Y: 5}, {X: -5, Y: 8},
	{X: -1, Y: 3}, {X: -1, Y: 6}, {X: -3, Y: 7}, {X: -2, Y: 9},

	{X: 0, Y: 3}, {X: 1, Y: 6}, {X: 0, Y: 8}, {X: 2, Y: 9},
	{X: 1, Y: 3}, {X: 3, Y: 5}, {X: 3, Y: 7}, {X: 5, Y: 8},
	{X: 2, Y: 2}, {X: 5, Y: 3}, {X: 5, Y: 5}, {X: 8, Y: 5},
	{X: 3, Y: 1}, {X: 6, Y: 1}, {X: 7, Y: 3}, {X: 9, Y: 2},
}, 64)

// terms formats one chain term per index in [0, n).
func terms(n int, term func(i int) string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = term(i)
	}
	return out
}

// tableTerms formats one chain term per table entry, indexed from base.
func tableTerms(t expand.Table, base int, term func(i int, o expand.Offset) string) []string {
	out := make([]string, 0, len(t))
	for i, o := range t.Enumerate(base) {
		out = append(out, term(i, o))
	}
	return out
}

// samples formats one chain term per table entry from a pattern taking the
// entry index, e.g. "        p%02d".
func samples(t expand.Table, base int, format string) []string {
	return tableTerms(t, base, func(i int, _ expand.Offset) string {
		return fmt.Sprintf(format, i)
	})
}
