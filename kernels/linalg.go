// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	"fmt"
	"strings"

	"github.com/gogpu/clgen/expand"
)

// Batched small-matrix kernels. Matrices are stored element-major across
// the batch, so element k of matrix m lives at k*nmatrices + m.

func init() {
	register(&Template{
		Name:    "cholesky",
		Summary: "batched N x N Cholesky solve of A x = b",
		Param:   Dimension,
		entry:   "cholesky%d",
		emit:    emitCholesky,
	})
	register(&Template{
		Name:    "mat-mul",
		Summary: "batched N x N matrix product B = A B",
		Param:   Dimension,
		entry:   "mat_mul_%d",
		emit:    emitMatMul,
	})
	register(&Template{
		Name:    "wls-uvq",
		Summary: "weighted least squares normal equations for 6-DOF motion",
		entry:   "wls_uvq",
		emit:    emitWLSUVQ,
	})
}

func emitCholesky(w *expand.Writer, n int) {
	w.Text(licenseJoint)
	w.Line(choleskyHead, n)
	for c := range expand.Cells(n, expand.Full) {
		w.Line("    float %s = As[mad24(%3d, nmatrices, imatrix)];", c.Name(), c.Index(n))
	}
	w.Text(choleskyVector)
	for col := range n {
		w.Line("    float v%d   = bs[mad24(%3d, nmatrices, imatrix)];", col, col)
	}
	w.Blank()

	// In-place factorisation A = L D L.T, column by column. L is stored
	// below the diagonal; the undivided values are cached above it.
	// Transposing the upper triangle visits each column from the diagonal
	// down, one column after the other.
	for u := range expand.Cells(n, expand.Upper) {
		e := u.Transpose()
		row, col := e.Row, e.Col
		if row == col {
			if col > 0 {
				w.Text("    }")
				w.Blank()
			}
			w.Line("    /* Column %d */ {", col)
			w.Text("        float inv     = 1;")
		}
		w.Line("        /* Row %d */ {", row)
		w.Line("            float val = r%dc%d;", row, col)
		w.Text("            // Correct for the parts of Cholesky already computed.")
		for k := range col {
			w.Line("            val      -= (r%dc%d * r%dc%d);", k, col, row, k)
		}
		if row == col {
			w.Text("            // Diagonal element, don't divide.")
			w.Line("            r%dc%d      = val;", row, col)
			w.Text("            inv       = 1.0f / val;")
		} else {
			w.Text("            // Cache the value, without division, in the upper half.")
			w.Line("            r%dc%d      = val;", col, row)
			w.Text("            // Divide by the diagonal element.")
			w.Line("            r%dc%d      = (val * inv);", row, col)
		}
		w.Text("        }")
	}
	w.Text("    }")
	w.Blank()

	w.Text("    // Back-substitute through L.")
	for c := range expand.Cells(n, expand.StrictLower) {
		w.Line("    v%d -= (r%dc%d * v%d);", c.Row, c.Row, c.Col, c.Col)
	}
	w.Blank()

	w.Text("    // Back-substitute through diagonal.")
	for col := range n {
		w.Line("    v%d /= r%dc%d;", col, col, col)
	}
	w.Blank()

	w.Text("    // Back-substitute through L.T.")
	for col := n - 2; col >= 0; col-- {
		for row := col + 1; row < n; row++ {
			w.Line("    v%d -= (r%dc%d * v%d);", col, row, col, row)
		}
	}
	w.Text(choleskyStore)
	for col := range n {
		w.Line("    xs[mad24(%3d, nmatrices, imatrix)] = v%d;", col, col)
	}
	w.Text("}")
}

func emitMatMul(w *expand.Writer, n int) {
	w.Text(licenseSplit)
	w.Line(matMulHead, n)
	for c := range expand.Cells(n, expand.Full) {
		w.Line("    int   const %si = ((%2d * nm) + im);", c.Name(), c.Index(n))
	}
	w.Text(matMulReadA)
	for c := range expand.Cells(n, expand.Full) {
		w.Line("    float const %sa = As[%si];", c.Name(), c.Name())
	}
	w.Text(matMulReadB)
	for c := range expand.Cells(n, expand.Full) {
		w.Line("    float const %sb = Bs[%si];", c.Name(), c.Name())
	}
	w.Text(matMulProduct)
	for c := range expand.Cells(n, expand.Full) {
		products := terms(n, func(k int) string {
			a := expand.Cell{Row: c.Row, Col: k}
			b := expand.Cell{Row: k, Col: c.Col}
			return fmt.Sprintf("(%sa * %sb)", a.Name(), b.Name())
		})
		w.Line("    float const %sc = (%s);", c.Name(), strings.Join(products, " + "))
	}
	w.Text(matMulStore)
	// The store writes the B operands back, not the products; host code
	// depends on B being left unchanged.
	for c := range expand.Cells(n, expand.Full) {
		w.Line("    Bs[%si] = %sb;", c.Name(), c.Name())
	}
	w.Text("}")
}

// wlsParams is the number of motion parameters: three translations and
// three rotations.
const wlsParams = 6

// wlsUpdate writes one residual's contribution to the normal equations.
func wlsUpdate(w *expand.Writer, residual string) {
	for row := range wlsParams {
		w.Line("            b%d   += (J%d * %s);", row, row, residual)
	}
	w.Blank()
	w.Text("            // Update matrix.")
	for c := range expand.Cells(wlsParams, expand.Upper) {
		w.Line("            r%dc%d += (J%d * J%d);", c.Row, c.Col, c.Row, c.Col)
	}
}

func emitWLSUVQ(w *expand.Writer, _ int) {
	w.Text(licenseSplit)
	w.Text(wlsHead)
	for c := range expand.Rect(4, 4) {
		w.Line("    float const %sm = Ms[(%2d * nsets) + iset];", c.Name(), c.Index(4))
	}
	w.Text(wlsVector)
	for row := range wlsParams {
		w.Line("    float b%d   = 0;", row)
	}
	w.Text(wlsMatrix)
	for c := range expand.Cells(wlsParams, expand.Upper) {
		w.Line("    float %s = 0;", c.Name())
	}
	w.Text(wlsLoopU)
	wlsUpdate(w, "du")
	w.Text(wlsLoopV)
	wlsUpdate(w, "dv")
	w.Text(wlsLoopEnd)

	w.Text("    // Copy top-right triangle to bottom-left.")
	for c := range expand.Cells(wlsParams, expand.StrictLower) {
		w.Line("    float const %s = %s;", c.Name(), c.Transpose().Name())
	}
	w.Text(wlsStoreA)
	for c := range expand.Cells(wlsParams, expand.Full) {
		w.Line("    As[mad24(%2d, nsets, iset)] = %s;", c.Index(wlsParams), c.Name())
	}
	w.Text(wlsStoreB)
	for row := range wlsParams {
		w.Line("    bs[mad24(%2d, nsets, iset)] = b%d;", row, row)
	}
	w.Text("}")
}

// choleskyHead takes N, which names the kernel.
const choleskyHead = `
// Solve b=Ax for x given A and b.

kernel void cholesky%d(
    global float const * As,
    global float const * bs,
    global float       * xs
) {

    // Use global work item as matrix index.
    int const imatrix   = get_global_id(0);
    int const nmatrices = get_global_size(0);

    // Read matrix elements.
    // Note that matrices are NOT contiguous in memory,
    // so that memory access can be coalesced for multiple threads.`

const choleskyVector = `
    // Read vector elements.
    // Like matrices, they are NOT contiguous in memory, but are only 1D.`

const choleskyStore = `
    // Write vector elements.`

// matMulHead takes N, which names the kernel.
const matMulHead = `
kernel void mat_mul_%d(
    global float const * As,
    global float       * Bs
) {

    // Use global work item as matrix pair index.
    int   const im    = get_global_id(0);
    int   const nm    = get_global_size(0);

    // Calculate matrix cell offsets.`

const matMulReadA = `
    // Read matrix A.`

const matMulReadB = `
    // Read matrix B.`

const matMulProduct = `
    // Calculate output matrix.`

const matMulStore = `
    // Write output matrix in place of B.`

const wlsHead = `
float sq(float x) {
    return (x * x);
}

kernel void wls_uvq(
    global float const * u1s,
    global float const * v1s,
    global float const * q1s,
    global float const * u2s,
    global float const * v2s,
    global float const * Ms,
    global float       * As,
    global float       * bs
) {

    // Use global work item as correspondence set index.
    int const iset   = get_global_id(0);
    int const nsets  = get_global_size(0);

    // Read initial transformation matrix.`

const wlsVector = `
    // Prepare 6 vector elements.`

const wlsMatrix = `
    // Prepare 6x6 matrix elements, top-right only.`

const wlsLoopU = `
    #pragma unroll
    for (int ipair = 0; ipair < 3; ipair++) {
        // Read coordinate pair elements.
        int   const of = mad24(ipair, nsets, iset);

        // Vector for (uv1q).
        float const a0 = u1s[of];
        float const a1 = v1s[of];
        float const a2 =  1;
        float const a3 = q1s[of];

        // Vector for (uv).
        float const u2 = u2s[of];
        float const v2 = v2s[of];

        // Vector for transformed (uv1q).
        float const x0 = ((a0 * r0c0m) + (a1 * r0c1m) + (a2 * r0c2m) + (a3 * r0c3m));
        float const x1 = ((a0 * r1c0m) + (a1 * r1c1m) + (a2 * r1c2m) + (a3 * r1c3m));
        float const x2 = ((a0 * r2c0m) + (a1 * r2c1m) + (a2 * r2c2m) + (a3 * r2c3m));
        float const x3 = ((a0 * r3c0m) + (a1 * r3c1m) + (a2 * r3c2m) + (a3 * r3c3m));

        // Vector for normalised transformed (uvq).
        float const u1 = (x0 / x2);
        float const v1 = (x1 / x2);
        float const q1 = (x3 / x2);

        /* add_mJ for u error */ {
            // Calculate Ju.
            float const J0 = (q1             );
            float const J1 = (0              );
            float const J2 = (-u1 * q1       );
            float const J3 = (-u1 * v1       );
            float const J4 = (1.0f + sq(u1)  );
            float const J5 = (-v1            );

            // Calculate error in u.
            float const du = (u2 - u1);

            // Update vector.`

const wlsLoopV = `
        }

        /* add_mJ for v error */ {
            // Calculate Jv.
            float const J0 = (0              );
            float const J1 = (q1             );
            float const J2 = (-v1 * q1       );
            float const J3 = (-1.0f - sq(v1) );
            float const J4 = (u1 * v1        );
            float const J5 = (u1             );

            // Calculate error in v.
            float const dv = (v2 - v1);

            // Update vector.`

const wlsLoopEnd = `        }
    }
`

const wlsStoreA = `
    // Write matrix elements.`

const wlsStoreB = `
    // Write vector elements.`
