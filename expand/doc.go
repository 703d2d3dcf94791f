// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package expand unrolls small geometric and combinatorial domains into
// ordered lines of kernel source text.
//
// Kernel templates in this module never loop at run time on the GPU. Instead
// every iteration is written out at generation time, and this package
// provides the enumerations those templates share:
//   - Offset tables: fixed (dx, dy[, weight]) tuples, enumerated with a
//     per-template index base of 0 or 1.
//   - Matrix cells: (row, col) pairs of an N x N matrix, either the full
//     square, the upper triangle including the diagonal, or the strict lower
//     triangle.
//   - Cartesian products: every combination of a few per-slot alternatives,
//     leftmost slot varying slowest.
//
// All enumerations are range-over-func iterators. They are lazy, finite and
// restartable, and they never depend on map order, so a template expanded
// twice produces byte-identical text.
//
// # Writing
//
// A [Writer] streams lines to an io.Writer as they are produced:
//
//	w := expand.NewWriter(os.Stdout)
//	for i, o := range ring.Enumerate(1) {
//	    w.Line("    int  const p%02d = read(xy + (int2)(%2d, %2d));", i, o.X, o.Y)
//	}
//	w.Chain("|", terms)
//	w.Text(tail) // verbatim, '%' is not a verb
//	return w.Err()
//
// Nothing is buffered, so output written before a failure stays visible to
// the caller, and the first write error is kept and reported by [Writer.Err].
package expand
