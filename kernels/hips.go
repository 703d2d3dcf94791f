// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	"fmt"
	"strings"

	"github.com/gogpu/clgen/expand"
)

// HIPS (histogrammed intensity patches) descriptor kernels. Each corner is
// described by 4 x 64 bits: one bit per sample and intensity bin.

func init() {
	register(&Template{
		Name:    "hips-gray",
		Summary: "HIPS descriptor from an 8x8 sparse grayscale grid",
		entry:   "hips_gray",
		emit:    emitHipsGray,
	})
	register(&Template{
		Name:    "hips-rich",
		Summary: "HIPS-like descriptor from 64 colour samples on four rings",
		entry:   "hips_rich",
		emit:    emitHipsRich,
	})
	register(&Template{
		Name:    "hips-blend-gray",
		Summary: "HIPS descriptor with each bit blended over a 3x3 box",
		entry:   "hips_blend_gray",
		emit:    emitHipsBlendGray,
	})
}

// hipsBin is one of the four intensity bins of a HIPS descriptor.
type hipsBin struct {
	comment string
	name    string
	test    string // comparison applied to a sample
}

// hipsGrayBins is in emission order; the kernel tail relies on the names.
var hipsGrayBins = []hipsBin{
	{"Bin all values lower than a standard deviation from the mean.", "b1", "< dev1"},
	{"Bin all values higher than a standard deviation from the mean.", "b4", "> dev2"},
	{"Bin all values lower than the mean but not a standard deviation.", "b2", "< mean"},
	{"Bin all values higher than the mean but not a standard deviation.", "b3", "> mean"},
}

func emitHipsGray(w *expand.Writer, _ int) {
	n := len(hipsGrid)

	w.Text(licenseJoint)
	w.Text(hipsGrayHead)
	for i, o := range hipsGrid.Enumerate(1) {
		w.Line("    int   const p%02d = read_imageui(image, sampler, xy + (int2)(%2d, %2d)).x;", i, o.X, o.Y)
	}
	w.Blank()

	w.Text("    // Calculate the sum of the pixel values.")
	w.Text("    float const sum1 = (")
	w.Chain("+", samples(hipsGrid, 1, "        p%02d"))
	w.Text("    );")
	w.Blank()

	w.Text("    // Calculate the mean of the pixel values.")
	w.Line("    float const mean = (sum1 / %d);", n)
	w.Blank()

	w.Text("    // Calculate the sum of squares of differences of the pixel values.")
	w.Text("    float const sum2 = (")
	w.Chain("+", samples(hipsGrid, 1, "        sq(p%02d)"))
	w.Text("    );")
	w.Blank()

	w.Text("    // Calculate the standard deviation of the pixel values.")
	w.Line("    float const dev  = (FACTOR * sqrt((sum2 / %d) - (sum1 / %d)));", n, n*n)
	w.Blank()
	w.Text("    // Calculate thresholds for standard deviation bins.")
	w.Text("    int   const dev1 = (int)(mean - dev);")
	w.Text("    int   const dev2 = (int)(mean + dev);")

	for _, bin := range hipsGrayBins {
		w.Blank()
		w.Line("    // %s", bin.comment)
		w.Line("    ulong const  %s  = (", bin.name)
		w.Chain("|", tableTerms(hipsGrid, 0, func(shift int, _ expand.Offset) string {
			return fmt.Sprintf("        (L(p%02d %s) << L(%2d))", shift+1, bin.test, shift)
		}))
		w.Text("    );")
	}
	w.Text(hipsGrayTail)
}

// negations are the two per-channel alternatives of hips-rich: keep the
// greaterness row or complement it.
var negations = []string{" ", "~"}

// hipsRichWords is the number of (gx, gy, gz) sign combinations stored in
// the ulong4 descriptor. The other four of the eight do not fit.
const hipsRichWords = 4

func emitHipsRich(w *expand.Writer, _ int) {
	w.Text(licenseSplit)
	w.Text(hipsRichHead)
	for i, o := range hipsRichRing.Enumerate(1) {
		w.Line("    uint4  const p%02d = read_imageui(image, sampler, xy + (int2)(%2d, %2d));", i, o.X, o.Y)
	}
	w.Blank()

	w.Text("    // Calculate the sum of the pixel values.")
	w.Text("    uint4  const sum  = (")
	w.Chain("+", samples(hipsRichRing, 1, "        p%02d"))
	w.Text("    );")
	w.Blank()

	w.Text("    // Calculate the mean of the pixel values.")
	w.Line("    uint4  const mean = (sum / %d);", len(hipsRichRing))
	w.Blank()

	w.Text("    // Pack a 'greaterness' row per colour element.")
	for _, c := range []string{"x", "y", "z"} {
		w.Line("    ulong g%s = (", c)
		w.Chain("|", tableTerms(hipsRichRing, 1, func(i int, _ expand.Offset) string {
			return fmt.Sprintf("        (L(p%02d.%s > mean.%s) << L(%2d))", i, c, c, i-1)
		}))
		w.Text("    );")
		w.Blank()
	}

	w.Text("    // Populate elements of the output descriptor from the 8 (g.x, g.y, g.z) combinations.")
	w.Text("    ulong4 hash;")
	word := 0
	for choice := range expand.Product(negations, negations, negations) {
		if word == hipsRichWords {
			break
		}
		w.Line("    hash.s%d = ((%sgx) & (%sgy) & (%sgz));", word, choice[0], choice[1], choice[2])
		word++
	}
	w.Text(hipsRichTail)
}

func emitHipsBlendGray(w *expand.Writer, _ int) {
	n := len(hipsBlendGrid)

	w.Text(licenseJoint)
	w.Text(hipsBlendGrayHead)
	for _, o := range hipsBlendGrid {
		w.Line("    int   const v_%s = read_imageui(image, sampler, xy + (int2)(%2d, %2d)).x;", o.Name(), o.X, o.Y)
	}
	w.Blank()

	w.Text("    // Calculate the sum of the pixel values.")
	w.Text("    int   const sum1 = (")
	w.Chain("+", tableTerms(hipsBlendGrid, 0, func(_ int, o expand.Offset) string {
		return "        v_" + o.Name()
	}))
	w.Text("    );")
	w.Blank()

	w.Text("    // Calculate the mean of the pixel values.")
	w.Line("    int   const mean = (sum1 / %d);", n)
	w.Blank()

	w.Text("    // Calculate the sum of squares of differences of the pixel values.")
	w.Text("    float const sum2 = (")
	w.Chain("+", tableTerms(hipsBlendGrid, 0, func(_ int, o expand.Offset) string {
		return "        sq(v_" + o.Name() + " - mean)"
	}))
	w.Text("    );")
	w.Blank()

	w.Text("    // Calculate the standard deviation of the pixel values.")
	w.Line("    float const dev  = (FACTOR * sqrt(sum2 / %d));", n)
	w.Blank()
	w.Text("    // Calculate thresholds for standard deviation bins.")
	w.Text("    int   const dev1 = (int)(mean - dev);")
	w.Text("    int   const dev2 = (int)(mean + dev);")
	w.Blank()

	w.Text("    // Select one bit per pixel.")
	for _, o := range hipsBlendGrid {
		f := expand.Fields{"n": o.Name()}
		w.Fields("    int   const b1_{n} =  (v_{n} < dev1);", f)
		w.Fields("    int   const b4_{n} =  (v_{n} > dev2);", f)
		w.Fields("    int   const b2_{n} = ((v_{n} < mean) &~ b1_{n});", f)
		w.Fields("    int   const b3_{n} = ((v_{n} > mean) &~ b4_{n});", f)
	}
	w.Blank()

	// A descriptor bit is set when any pixel in the 3x3 box around the
	// grid sample falls in the bin.
	w.Text("    // Combine grids of pixels by offsets.")
	for _, o := range hipsGrid {
		box := square3.Translate(o)
		for bin := 1; bin <= 4; bin++ {
			parts := tableTerms(box, 0, func(_ int, p expand.Offset) string {
				return fmt.Sprintf("b%d_%s", bin, p.Name())
			})
			w.Line("    int   const o%d_%s = (%s);", bin, o.Name(), strings.Join(parts, " | "))
		}
	}
	w.Blank()

	w.Text("    // Combine into 64-bit integers.")
	for bin := 1; bin <= 4; bin++ {
		w.Line("    ulong const l%d = (", bin)
		w.Chain("|", tableTerms(hipsGrid, 0, func(shift int, o expand.Offset) string {
			return fmt.Sprintf("        (L(o%d_%s) << L(%2d))", bin, o.Name(), shift)
		}))
		w.Text("    );")
		w.Blank()
	}
	w.Text(hipsBlendGrayTail)
}

const hipsGrayHead = `
// Square an integer, for standard deviation calculation.
int sq(int x) {
    return (x * x);
}

// Shorthand for ulong cast.
#define L(x) ((ulong)(x))

#define FACTOR (0.675)

kernel void hips_gray(
    read_only image2d_t   image,
    global    int2      * corners,
    global    ulong4    * bins
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as corner index.
    int  const ic  = get_global_id(0);
    int2 const xy  = corners[ic];

    // Read pixels in a grid around the corner pixel.`

const hipsGrayTail = `
    // Record in output buffer.
    // Use and-not to exclude known overlaps.
    bins[ic] = (ulong4)(b1, b2 & ~b1, b3 & ~b4, b4);
}
`

const hipsRichHead = `
// Shorthand for ulong cast.
#define L(x) ((ulong)(x))

kernel void hips_rich(
    read_only image2d_t   image,
    global    int2      * corners,
    global    ulong4    * bins,
              int2        offset
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as corner index.
    int    const ic  = get_global_id(0);
    int2   const xy  = corners[ic];

    // Read pixels in a grid around the corner pixel.`

const hipsRichTail = `
    // Record in output buffer.
    bins[ic] = hash;
}
`

const hipsBlendGrayHead = `
// Enable OpenCL 32-bit integer atomic functions.
#pragma OPENCL EXTENSION cl_khr_global_int32_base_atomics : enable

// Parallel bit counting magic adapted from
// http://graphics.stanford.edu/~seander/bithacks.html#CountBitsSetParallel
uint bitcount8(uint8 v) {
    v = (v - ((v >> 1) & 0x55555555));
    v = ((v & 0x33333333) + ((v >> 2) & 0x33333333));
    v = (((v + (v >> 4) & 0xF0F0F0F) * 0x1010101) >> 24);
    return (v.s0 + v.s1 + v.s2 + v.s3 + v.s4 + v.s5 + v.s6 + v.s7);
}

// Square an integer, for standard deviation calculation.
int sq(int x) {
    return (x * x);
}

// Shorthand for ulong cast.
#define L(x) ((ulong)(x))

#define FACTOR (0.675f)

// Maximum bits set in descriptor.
#define MAXBITS (100)

kernel void hips_blend_gray(
    read_only image2d_t   image,
    global    int2      * corners,
    global    ulong4    * bins,
    global    int       * ibin,
              int         nbins
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as corner index.
    int  const ic  = get_global_id(0);
    int2 const xy  = corners[ic];

    // Read pixels in a grid around the corner pixel.`

const hipsBlendGrayTail = `    // Combine into 4-vector.
    ulong4 const vec = (ulong4)(l1, l2, l3, l4);

    // Count bits.
    if (bitcount8(as_uint8(vec)) <= MAXBITS) {
        int const i = atom_inc(ibin);
        if (i < nbins)
            bins[i] = vec;
    }
}`
