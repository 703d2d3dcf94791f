// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	"fmt"

	"github.com/gogpu/clgen/expand"
)

func init() {
	register(&Template{
		Name:    "blur-rich",
		Summary: "3x3 binomial blur of a colour image",
		entry:   "blur_rich",
		emit:    emitBlurRich,
	})
}

func emitBlurRich(w *expand.Writer, _ int) {
	w.Text(licenseJoint)
	w.Text(blurRichHead)
	w.Chain("+", tableTerms(blurRing, 0, func(_ int, o expand.Offset) string {
		return fmt.Sprintf("        (read_imageui(imageI, sampler, xy + (int2)(%2d, %2d)) * %d)", o.X, o.Y, o.W)
	}))
	w.Line(blurRichTail, blurRing.Weight())
}

const blurRichHead = `
kernel void blur_rich(
    read_only  image2d_t   imageI,
    write_only image2d_t   imageO
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as 2D image coordinates.
    int    const x   = get_global_id(0);
    int    const y   = get_global_id(1);
    int2   const xy  = (int2)(x, y);

    // Read a ring of pixels, forming a blurred pixel.
    uint4  const mix = (`

// blurRichTail takes the sum of weights as its only operand.
const blurRichTail = `    ) / %d;

    // Write blurred pixel to output image.
    write_imageui(imageO, xy, mix);
}
`
