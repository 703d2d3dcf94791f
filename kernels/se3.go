// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import "github.com/gogpu/clgen/expand"

func init() {
	register(&Template{
		Name:    "se3-run1",
		Summary: "transform correspondence sets by one SE(3) matrix",
		entry:   "se3_run1",
		emit: func(w *expand.Writer, _ int) {
			emitSE3(w, licenseSplit, se3Run1Head, se3Run1Tail)
		},
	})
	register(&Template{
		Name:    "se3-score",
		Summary: "score each SE(3) matrix against all correspondence sets",
		entry:   "se3_score",
		emit: func(w *expand.Writer, _ int) {
			emitSE3(w, licenseJoint, se3ScoreHead, se3ScoreTail)
		},
	})
}

// se3Rows and se3Cols give the shape of a rigid transform stored without
// its constant bottom row.
const (
	se3Rows = 3
	se3Cols = 4
)

// emitSE3 reads one 3x4 matrix per work item. The matrices are stored
// element-major: element k of every matrix, then element k+1.
func emitSE3(w *expand.Writer, license, head, tail string) {
	w.Text(license)
	w.Text(head)
	for c := range expand.Rect(se3Rows, se3Cols) {
		w.Line("    float const %s = mats[mad24(%2d, nmatrices, imatrix)];", c.Name(), c.Index(se3Cols))
	}
	w.Text(tail)
}

const se3Run1Head = `
kernel void se3_run1(
    global float const * u1s,
    global float const * v1s,
    global float const * q1s,
    global float const * mats,
    global float2      * uv2s,
           int   const   nmatrices,
           int   const   imatrix
) {

    // Use global work item as correspondence set index.
    int const iset  = get_global_id(0);
    int const nsets = get_global_size(0);

    // Read entire matrix.`

const se3Run1Tail = `

    // Read out correspondence set elements.
    // Prepare 4-vector for uv1q.
    float const a0 = u1s[iset];
    float const a1 = v1s[iset];
    float const a2 =  1;
    float const a3 = q1s[iset];

    // Multiply through matrix.
    float const b0 = ((a0 * r0c0) + (a1 * r0c1) + (a2 * r0c2) + (a3 * r0c3));
    float const b1 = ((a0 * r1c0) + (a1 * r1c1) + (a2 * r1c2) + (a3 * r1c3));
    float const b2 = ((a0 * r2c0) + (a1 * r2c1) + (a2 * r2c2) + (a3 * r2c3));
    // Last row is unused.

    // Divide transformed (u,v).
    float const u3 = (b0 / b2);
    float const v3 = (b1 / b2);

    // Record transformed (u,v).
    uv2s[iset] = (float2)(u3, v3);
}
`

const se3ScoreHead = `
#define THRESHOLD  (0.01f)
#define THRESHOLD2 (THRESHOLD * THRESHOLD)

float sq(float x) {
    return (x * x);
}

kernel void se3_score(
    global float const * u1s,
    global float const * v1s,
    global float const * q1s,
    global float const * u2s,
    global float const * v2s,
    global float const * mats,
    global float       * scores,
           int   const   nsets
) {

    // Use global work item as matrix index.
    int const imatrix   = get_global_id(0);
    int const nmatrices = get_global_size(0);

    // Read entire matrix.`

const se3ScoreTail = `
    // Keep score for a single matrix.
    float score = 0;

    // Loop over all correspondence sets.
    for (int iset = 0; iset < nsets; iset++) {
        // Read out correspondence set elements.
        float const u1 = u1s[iset];
        float const v1 = v1s[iset];
        float const q1 = q1s[iset];
        float const u2 = u2s[iset];
        float const v2 = v2s[iset];

        // Prepare 4-vector for uvq.
        float const a0 = u1;
        float const a1 = v1;
        float const a2 =  1;
        float const a3 = q1;

        // Multiply through matrix.
        float const b0 = ((a0 * r0c0) + (a1 * r0c1) + (a2 * r0c2) + (a3 * r0c3));
        float const b1 = ((a0 * r1c0) + (a1 * r1c1) + (a2 * r1c2) + (a3 * r1c3));
        float const b2 = ((a0 * r2c0) + (a1 * r2c1) + (a2 * r2c2) + (a3 * r2c3));
        // Last row is unused.

        // Divide transformed (u,v).
        float const u3 = (b0 / b2);
        float const v3 = (b1 / b2);

        // Calculate error from actual transformed (u,v).
        float const error = (sq(u3 - u2) + sq(v3 - v2));

        // Contribute error towards score.
        score += max((1.0f - (error / THRESHOLD2)), 0.0f);
    }

    // Record matrix score.
    scores[imatrix] = score;
}
`
