// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	"fmt"

	"github.com/gogpu/clgen/expand"
)

// FAST corner detection kernels. All of them sample a ring of pixels around
// a candidate and name the samples p01.., with p00 the candidate itself.

func init() {
	register(&Template{
		Name:    "fast",
		Summary: "FAST-9 on a grayscale image with a fixed threshold and rotated masks",
		entry:   "fast_gray_9",
		emit:    emitFast,
	})
	register(&Template{
		Name:    "fast-gray",
		Summary: "FAST on listed grayscale corners, writing max-difference scores",
		entry:   "fast_gray",
		emit:    emitFastGray,
	})
	register(&Template{
		Name:    "fast-rich",
		Summary: "FAST on listed colour corners using vector distance",
		entry:   "fast_rich",
		emit:    emitFastRich,
	})
	register(&Template{
		Name:    "fast-best",
		Summary: "keep corners whose unsigned score is a 3x3 local maximum",
		entry:   "fast_best",
		emit:    emitFastBest,
	})
	register(&Template{
		Name:    "filt",
		Summary: "keep corners whose signed score is a 3x3 local maximum",
		entry:   "fast_filter",
		emit:    emitFilt,
	})
	register(&Template{
		Name:    "prefast-gray",
		Summary: "cheap 4-point FAST pre-test over a whole image",
		entry:   "prefast_gray",
		emit:    emitPrefastGray,
	})
	register(&Template{
		Name:    "fast2-gray",
		Summary: "CUDA fragment: ring reads and threshold pattern for FAST",
		Lang:    CUDA,
		emit:    emitFast2Gray,
	})
}

// ringThreshold returns the 16 terms that pack one thresholded difference
// per bit, bit i holding sample i+1.
func ringThreshold(format string) []string {
	return terms(len(fastRing), func(shift int) string {
		return fmt.Sprintf(format, shift+1, shift)
	})
}

func emitFast(w *expand.Writer, _ int) {
	w.Text(licenseJoint)
	w.Text(fastHead)
	for i, o := range fastRing.Enumerate(1) {
		w.Line("    int  const p%02d = read_imagei(image, sampler, xy + (int2)(%2d, %2d)).x;", i, o.X, o.Y)
	}
	w.Blank()

	w.Text("    // Threshold the absolute difference of each circle pixel.")
	w.Text("    int  const sum = (")
	w.Chain("|", ringThreshold("        ((abs(p%02d - p00) > THRESH) << %2d)"))
	w.Text("    );")
	w.Blank()

	w.Text("    // Check if at least one mask applies entirely.")
	w.Text("    int  const yes = (")
	w.Chain("||", terms(16, func(shift int) string {
		return fmt.Sprintf("        ((sum & MASK(%2d)) == MASK(%2d))", shift, shift)
	}))
	w.Text("    );")
	w.Text(fastTail)
}

func emitFastGray(w *expand.Writer, _ int) {
	w.Text(licenseJoint)
	w.Text(fastGrayHead)
	w.Text("    // Read other pixels in a circle around the candidate pixel.")
	for i, o := range fastRing.Enumerate(1) {
		w.Line("    int  const p%02d = read_imageui(image, sampler, xy + (int2)(%2d, %2d)).x;", i, o.X, o.Y)
	}
	w.Blank()

	w.Text("    // Calculate the absolute difference of each circle pixel.")
	for i := range fastRing.Enumerate(1) {
		w.Line("    int  const d%02d = abs(p%02d - p00);", i, i)
	}
	w.Blank()

	w.Text("    // Select the maximum difference.")
	w.Text("    int        sco = 0;")
	for i := range fastRing.Enumerate(1) {
		w.Line("               sco = max(sco, d%02d);", i)
	}
	w.Blank()

	w.Text("    // Record maximum difference as score.")
	w.Text("    write_imageui(scores, xy, (uint4)(sco, 0, 0, 0));")
	w.Blank()

	w.Text("    // Threshold the absolute difference of each circle pixel.")
	w.Text("    int  const sum = (")
	w.Chain("|", ringThreshold("        ((d%02d > FAST_THRESH) << %2d)"))
	w.Text("    );")
	w.Blank()
	w.Text(fastGrayTail)
}

func emitFastRich(w *expand.Writer, _ int) {
	w.Text(licenseJoint)
	w.Text(fastRichHead)
	w.Text("    // Read other pixels in a circle around the candidate pixel.")
	for i, o := range fastRing.Enumerate(1) {
		w.Line("    uint4  const p%02d = read_imageui(image, sampler, xy + (int2)(%2d, %2d));", i, o.X, o.Y)
	}
	w.Blank()

	w.Text("    // Calculate the absolute difference of each circle pixel.")
	for i := range fastRing.Enumerate(1) {
		w.Line("    float  const d%02d = dist4(p%02d, p00);", i, i)
	}
	w.Blank()

	w.Text("    // Select the maximum difference.")
	w.Text("    float        sco = 0;")
	for i := range fastRing.Enumerate(1) {
		w.Line("                 sco = max(sco, d%02d);", i)
	}
	w.Blank()

	w.Text("    // Record maximum difference as score.")
	w.Text("    write_imageui(scores, xy, (uint4)((uint) sco, 0, 0, 0));")
	w.Blank()

	w.Text("    // Threshold the absolute difference of each circle pixel.")
	w.Text("    int    const sum = (")
	w.Chain("|", ringThreshold("        ((d%02d > FAST_THRESH) << %2d)"))
	w.Text("    );")
	w.Blank()

	w.Text("    // Check if at least one mask applies entirely.")
	w.Text("    int    const yes = (")
	w.Chain("||", terms(16, func(shift int) string {
		return fmt.Sprintf("        mask_test(sum, 9, 16, %2d)", shift)
	}))
	w.Text("    );")
	w.Text(fastRichTail)
}

// emitLocalMax writes the 3x3 maximum filter shared by fast-best and filt.
// read is the image read function for the score image.
func emitLocalMax(w *expand.Writer, read string) {
	for i, o := range square3.Enumerate(1) {
		w.Line("    int  const p%02d = %s(scores, sampler, xy + (int2)(%2d, %2d)).x;", i, read, o.X, o.Y)
	}
	w.Blank()

	w.Text("    // Select the maximum score.")
	w.Text("    int        sco = p00;")
	for i := range square3.Enumerate(1) {
		w.Line("               sco = max(sco, p%02d);", i)
	}
	w.Text(localMaxTail)
}

func emitFastBest(w *expand.Writer, _ int) {
	w.Text(licenseSplit)
	w.Text(fastBestHead)
	emitLocalMax(w, "read_imageui")
}

func emitFilt(w *expand.Writer, _ int) {
	w.Text(filtHead)
	emitLocalMax(w, "read_imagei")
}

func emitPrefastGray(w *expand.Writer, _ int) {
	w.Text(licenseSplit)
	w.Text(prefastGrayHead)
	w.Text("    // Read other pixels in a circle around the candidate pixel.")
	for i, o := range fastCross.Enumerate(1) {
		w.Line("    int  const p%02d = read_imageui(image, sampler, xy + (int2)(%2d, %2d)).x;", i, o.X, o.Y)
	}
	w.Blank()

	w.Text("    // Check the absolute difference of each circle pixel.")
	for i := range fastCross.Enumerate(1) {
		w.Line("    int  const d%02d = (abs(p%02d - p00) > FAST_THRESH);", i, i)
	}
	w.Blank()

	// Each sample pairs with its clockwise neighbour, wrapping to d01.
	w.Text("    // Check if any two adjacent circle pixels have a high absolute difference.")
	w.Text("    int  const yes = (")
	w.Chain("||", tableTerms(fastCross, 0, func(shift int, _ expand.Offset) string {
		return fmt.Sprintf("        (d%02d && d%02d)", shift+1, (shift+1)%len(fastCross)+1)
	}))
	w.Text(prefastGrayTail)
}

func emitFast2Gray(w *expand.Writer, _ int) {
	for i, o := range fastRing.Enumerate(1) {
		w.Line("    int const p%02d = tex2D(testImage, x + %2d, y + %2d).x;", i, o.X, o.Y)
	}
	w.Blank()

	w.Text("    // Check the absolute difference of each circle pixel.")
	for i := range fastRing.Enumerate(1) {
		w.Line("    int const d%02d = abs(p%02d - p00);", i, i)
	}
	w.Blank()

	w.Text("    // Threshold the absolute difference of each circle pixel.")
	w.Text("    uint const pattern = (")
	w.Chain("|", ringThreshold("        ((d%02d > FAST_THRESH) << %2d)"))
	w.Text("    );")
	w.Blank()
}

const fastHead = `
// Enable OpenCL 32-bit integer atomic functions.
#pragma OPENCL EXTENSION cl_khr_global_int32_base_atomics : enable

// Specify a threshold for pixel difference.
#define THRESH  60

// Create a bitwise mask with the given rotation, modulo 16.
#define MASK(x) ((((1 << 9) - 1) << (x)) | (((1 << 9) - 1) >> (15 - (x))))

kernel void fast_gray_9(
    read_only image2d_t   image,
    global    int2      * corners,
    global    int       * icorner
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as 2D image coordinates.
    int  const x   = get_global_id(0);
    int  const y   = get_global_id(1);
    int2 const xy  = (int2)(x, y);

    // Read the candidate pixel.
    int  const p00 = read_imagei(image, sampler, xy).x;

    // Read other pixels in a circle around the candidate pixel.`

const fastTail = `
    if (yes) {
        // Atomically append to corner buffer.
        corners[atom_inc(icorner)] = xy;
    }
}
`

const fastGrayHead = `
// Enable OpenCL 32-bit integer atomic functions.
#pragma OPENCL EXTENSION cl_khr_global_int32_base_atomics : enable

int mask_test(uint x16) {
    // Duplicate bit pattern to simulate barrel shift.
    uint const x = (x16 | (x16 << 16));

    // Accumulator.
    uint x1 = x;

    // AND against down-shifts.
    #pragma unroll
    for (uint i = 1; i < FAST_RING; i++)
        x1 &= (x >> i);

    // Return of 1 here proves that FAST_RING
    // consecutive bits were 1.
    return (x1 > 0);
}

kernel void fast_gray(
    read_only  image2d_t   image,
    write_only image2d_t   scores,
    global     int2      * corners,
    global     int2      * filtered,
    global     int       * icorner,
               uint        ncorners
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as corner index.
    int  const ic  = get_global_id(0);
    if (ic >= ncorners)
        return;

    int2 const xy  = corners[ic];

    // Read the candidate pixel.
    int  const p00 = read_imageui(image, sampler, xy).x;
`

const fastGrayTail = `
    if (mask_test(sum)) {
        // Atomically append to corner buffer.
        int const icorn = atom_inc(icorner);
        if (icorn < FAST_COUNT)
            filtered[icorn] = xy;
    }
}
`

const fastRichHead = `
// Enable OpenCL 32-bit integer atomic functions.
#pragma OPENCL EXTENSION cl_khr_global_int32_base_atomics : enable

// Calculate vector distance as a float.
float dist4(uint4 a, uint4 b) {
    return distance(convert_float4(a), convert_float4(b));
}

// Generate bitwise mask of n bits.
int mask(int n) {
    return ((1 << n) - 1);
}

// Create a bitwise mask of n bits, rotated by r bits, in a ring of w bits.
int mask_turn(int n, int w, int r) {
    int const m = mask(n);
    return (((m << r) | (m >> (w - r))) & mask(w));
}

// Test a value x against a bitwise mask of n bits, rotated by r bits, in a ring of w bits.
int mask_test(int x, int n, int w, int r) {
    int const m = mask_turn(n, w, r);
    return ((x & m) == m);
}

kernel void fast_rich(
    read_only  image2d_t   image,
    write_only image2d_t   scores,
    global     int2      * corners,
    global     int2      * filtered,
    global     int       * icorner,
               uint        ncorners
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as corner index.
    int    const ic  = get_global_id(0);
    if (ic >= ncorners)
        return;

    int2   const xy  = corners[ic];

    // Read the candidate pixel.
    uint4  const p00 = read_imageui(image, sampler, xy);
`

const fastRichTail = `
    if (yes) {
        // Atomically append to corner buffer.
        int const icorn = atom_inc(icorner);
        if (icorn < FAST_COUNT)
            filtered[icorn] = xy;
    }
}
`

const fastBestHead = `
// Enable OpenCL 32-bit integer atomic functions.
#pragma OPENCL EXTENSION cl_khr_global_int32_base_atomics : enable

kernel void fast_best(
    read_only  image2d_t   scores,
    global     int2      * corners,
    global     int2      * filtered,
    global     int       * icorner
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as 1D offset into corners.
    int  const ic  = get_global_id(0);
    int2 const xy  = corners[ic];

    // Read the candidate score.
    int  const p00 = read_imageui(scores, sampler, xy).x;

    // Read other scores in a tight square around the candidate score.`

const filtHead = `
kernel void fast_filter(
    read_only  image2d_t   scores,
    global     int2      * corners,
    global     int2      * filtered,
    global     int       * icorner
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as 1D offset into corners.
    int  const ic  = get_global_id(0);
    int2 const xy  = corners[ic];

    // Read the candidate score.
    int  const p00 = read_imagei(scores, sampler, xy).x;

    // Read other scores in a tight square around the candidate score.`

const localMaxTail = `
    // Keep this score if it is as good as the maximum.
    if (p00 >= sco) {
        // Atomically append to filtered corner buffer.
        filtered[atom_inc(icorner)] = xy;
    }
}
`

const prefastGrayHead = `
// Enable OpenCL 32-bit integer atomic functions.
#pragma OPENCL EXTENSION cl_khr_global_int32_base_atomics : enable

kernel void prefast_gray(
    read_only  image2d_t   image,
    global     int2      * corners,
    global     int       * icorner
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as 2D image coordinates.
    int  const x   = get_global_id(0);
    int  const y   = get_global_id(1);
    int2 const xy  = (int2)(x, y);

    // Read the candidate pixel.
    int  const p00 = read_imageui(image, sampler, xy).x;
`

const prefastGrayTail = `    );

    if (yes) {
        // Atomically append to corner buffer.
        int const icorn = atom_inc(icorner);
        if (icorn < FAST_COUNT)
            corners[icorn] = xy;
    }
}
`
