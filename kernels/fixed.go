// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import "github.com/gogpu/clgen/expand"

// Kernels whose source has no generated part. They live here so that the
// host build embeds every kernel the same way.

func init() {
	fixed("find", "HIPS descriptor matcher, table bit counting", "hips_find", licenseJoint, findSource)
	fixed("hips-find", "HIPS descriptor matcher with bit-error threshold", "hips_find", licenseJoint, hipsFindSource)
	fixed("hips-clip", "compact matched HIPS descriptors", "hips_clip", licenseSplit, hipsClipSource)
	fixed("hips-tfind", "HIPS matcher over an image-backed search forest", "hips_tree_find", licenseJoint, hipsTFindSource)
	fixed("hips-tree-find", "HIPS matcher over a constant-buffer search forest", "hips_tree_find", licenseJoint, hipsTreeFindSource)
	fixed("clip-depth", "drop corners without valid depth", "clip_depth", licenseJoint, clipDepthSource)
	fixed("random-int", "per-work-item integer random numbers", "random_int", licenseJoint, randomIntSource)
	fixed("to-uvquv", "sample u, v, q maps at matched corner pairs", "to_uvquv", licenseSplit, toUVQUVSource)
	fixed("se3-exp", "SE(3) exponential map of motion vectors", "se3_exp", licenseJoint, se3ExpSource)
}

// fixed registers a template that writes license then body verbatim.
func fixed(name, summary, entry, license, body string) {
	register(&Template{
		Name:    name,
		Summary: summary,
		entry:   entry,
		emit: func(w *expand.Writer, _ int) {
			w.Text(license)
			w.Text(body)
		},
	})
}

const findSource = `
int bitcount(ulong x) {
    // http://graphics.stanford.edu/~seander/bithacks.html#CountBitsSetTable
    uchar const bits[256] = {
#   define B2(n)     n,     n+1,     n+1,     n+2
#   define B4(n)  B2(n), B2(n+1), B2(n+1), B2(n+2)
#   define B6(n)  B4(n), B4(n+1), B4(n+1), B4(n+2)
    B6(0), B6(1), B6(1), B6(2)
    };

    uchar8 const uc = as_uchar8(x);

    return (
        bits[uc.s0] +
        bits[uc.s1] +
        bits[uc.s2] +
        bits[uc.s3] +
        bits[uc.s4] +
        bits[uc.s5] +
        bits[uc.s6] +
        bits[uc.s7]
    );
}

int bitcount4(ulong4 v) {
    return (
        bitcount(v.x) +
        bitcount(v.y) +
        bitcount(v.z) +
        bitcount(v.w)
    );
}

kernel void hips_find(
    global    ulong4   * hashes1,  // T
    global    ulong4   * hashes2,  // R
    global    int      * ihashes2  // For each hash1, index of best hash2.
) {

    // Prepare local memory for error and ihash2.
    local  int   errors  [512];
    local  int   ihashes [512];

    // Use global work item as hash1, hash2 index.
    int    const ihash1  = get_global_id(0);
    int    const ihash2  = get_global_id(1);

    // Use local work item for indexing into errors and hashes.
    int    const ithread = get_local_id(1);

    // Cache first hash.
    local  ulong4 hash1;
    if (ithread == 0) {
        hash1            = hashes1[ihash1];
    }

    // Synchronise work group.
    barrier(CLK_LOCAL_MEM_FENCE);

    // Take hash2 for comparison.
    ulong4 const hash2   = hashes2[ihash2];

    // Calculate number of bits in error.
    int    const error   = bitcount4(hash1 & ~hash2);

    // Initialise local memory.
    errors  [ithread]    = error;
    ihashes [ithread]    = ihash2;

    // Synchronise work group.
    barrier(CLK_LOCAL_MEM_FENCE);

    // Prepare state for parallel reduction.
    int te1              = error;
    int ti1              = ihash2;

    // Perform parallel reduction.
    for (int width = 256; width > 1; width >>= 1) {
        if (ithread < width) {
            int const te2  = errors  [ithread + width];
            int const ti2  = ihashes [ithread + width];

            if (te2 < te1) {
                // Update with lower error.
                errors  [ithread] = te1 = te2;
                ihashes [ithread] = ti1 = ti2;
            }
        }

        // Synchronise after this round of reduction.
        barrier(CLK_LOCAL_MEM_FENCE);
    }

    if (ithread == 0) {
        ihashes2[ihash1] = ti1;
    }
}
`

const hipsFindSource = `
// Enable OpenCL 32-bit integer atomic functions.
#pragma OPENCL EXTENSION cl_khr_global_int32_base_atomics : enable

#define THRESHOLD 10

// Parallel bit counting magic adapted from
// http://graphics.stanford.edu/~seander/bithacks.html#CountBitsSetParallel
uint bitcount8(uint8 v) {
    v = (v - ((v >> 1) & 0x55555555));
    v = ((v & 0x33333333) + ((v >> 2) & 0x33333333));
    v = (((v + (v >> 4) & 0xF0F0F0F) * 0x1010101) >> 24);
    return (v.s0 + v.s1 + v.s2 + v.s3 + v.s4 + v.s5 + v.s6 + v.s7);
}

kernel void hips_find(
    // N.B.: These uint8 are actually ulong4.
    global uint8  const * hashes1,  // T
    global uint8  const * hashes2,  // R
    global int2         * matches,  // Pairs of indices into hashes1 and hashes2.
    global int          * imatch,   // Output number of hash1 matches.
           int    const   nhash2    // Number of hashes2.
) {

    // Prepare local memory for hash caching.
    local uint8  cache1  [16];
    local uint8  cache2  [16];
    local int    errors [256];
    local int    idxs   [256];
    local int    ebest   [16];
    local int    ibest   [16];

    // Use global work item for dimension 1 as hash1 index.
    // Global work item for dimension 2 is *unused*.
    int    const ihash1  = get_global_id(0);

    // Use local work items for indexing into errors and hashes.
    int    const ithr1   = get_local_id(0);
    int    const ithr2   = get_local_id(1);

    // Cache from hash1.
    if (ithr2 == 0) {
        cache1 [ithr1]    = hashes1[ihash1];
        ebest  [ithr1]    = 0xffff;
        ibest  [ithr1]    = 0;
    }

    // Loop while consuming hash2.
    for (int offset = 0; offset < nhash2; offset += 16) {
        // Cache from hash2.
        if (ithr2 == 0) {
            cache2[ithr1]  = hashes2[offset + ithr1];
        }

        // Synchronise work group.
        barrier(CLK_LOCAL_MEM_FENCE);

        // Calculate pairwise error.
        uint8  const hash1 = cache1[ithr1];
        uint8  const hash2 = cache2[ithr2];
        int    const cell  = mad24(ithr1, 16, ithr2);
        errors [cell]      = bitcount8(hash1 & ~hash2);
        idxs   [cell]      = offset + ithr2;

        // Synchronise work group.
        barrier(CLK_LOCAL_MEM_FENCE);

        // Prepare state for parallel reduction.
        int te1            = ebest [ithr1];
        int ti1            = ibest [ithr1];

        // Perform parallel reduction.
        for (int width = 8; width > 1; width >>= 1) {
            if (ithr2 < width) {
                int const te2  = errors [cell + width];
                int const ti2  = idxs   [cell + width];

                if (te2 < te1) {
                    // Update with lower error.
                    errors [cell] = te1 = te2;
                    idxs   [cell] = ti1 = ti2;
                }
            }

            // Synchronise after this round of reduction.
            barrier(CLK_LOCAL_MEM_FENCE);
        }

        if (ithr2 == 0) {
            ebest [ithr1] = te1;
            ibest [ithr1] = ti1;
        }
    }

    // Synchronise work group.
    barrier(CLK_LOCAL_MEM_FENCE);

    if (ithr2 == 0) {
        if (ebest[ithr1] < THRESHOLD) {
            matches[atom_inc(imatch)] = (int2)(ihash1, ibest[ithr1]);
        }
    }
}`

const hipsClipSource = `
// Enable OpenCL 32-bit integer atomic functions.
#pragma OPENCL EXTENSION cl_khr_global_int32_base_atomics : enable

// Parallel bit counting magic adapted from
// http://graphics.stanford.edu/~seander/bithacks.html#CountBitsSetParallel
uint bitcount8(uint8 v) {
    v = (v - ((v >> 1) & 0x55555555));
    v = ((v & 0x33333333) + ((v >> 2) & 0x33333333));
    v = ((((v + (v >> 4)) & 0xF0F0F0F) * 0x1010101) >> 24);

    // Fold together in halves.
    uint4 v4 = (v.lo + v.hi);
    return (v4.x + v4.y + v4.z + v4.w);
}

kernel void hips_clip(global uint8 * hashes) {
    // Use global work item for hash index.
    uint const ihash = get_global_id(0);

    // Clip hash if above bit threshold.
    if (bitcount8(hashes[ihash]) > HIPS_MAX_BITS)
        hashes[ihash] &= 0;
}`

const hipsTFindSource = `
// Enable OpenCL 32-bit integer atomic functions.
#pragma OPENCL EXTENSION cl_khr_global_int32_base_atomics : enable

// Parallel bit counting magic adapted from
// http://graphics.stanford.edu/~seander/bithacks.html#CountBitsSetParallel
uint bitcount4(uint4 v) {
    v = (v - ((v >> 1) & 0x55555555));
    v = ((v & 0x33333333) + ((v >> 2) & 0x33333333));
    v = ((((v + (v >> 4)) & 0xF0F0F0F) * 0x1010101) >> 24);
    return (v.s0 + v.s1 + v.s2 + v.s3);
}

uint error(uint4 t, uint4 r) {
    return bitcount4(t & ~r);
}

kernel void hips_tree_find(
    read_only image2d_t     hashesR,  // R (forest of descriptors, as above)
    read_only image2d_t     indices,  // Original index of each hash in R, defined only for leaves.
    global   ulong4 const * hashesT,  // T (list of descriptors)
    global   uint2        * matches,  // Pairs of indices into hashes1 and hashes2.
    global   uint         * imatch,   // Output number of hash1 matches.
             uint           nmatch    // Maximum number of matches.
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item in dimension 0 for hashT index.
    uint   const ihashT  = get_global_id(0);
    ulong4 const  hashT0 = hashesT[ihashT];

    // Use global work item in dimension 1 for rotation index.
    uint   const ishift  = get_global_id(1);
    uint   const lshift  = (ishift * 4);
    uint   const rshift  = (64 - lshift);

    // Rotate and cast descriptor.
    uint8  const  hashT  = as_uint8((hashT0 >> rshift) | (hashT0 << lshift));

    // Extract halves of descriptor.
    uint4  const  hashTa = hashT.s0123;
    uint4  const  hashTb = hashT.s4567;

    // Loop over pre-roots.
    #pragma unroll
    for (uint iroot = 0; iroot < TREE_PRE_ROOTS; iroot++) {
        // Start traversal at root.
        uint icell = (iroot + TREE_PRE_ROOTS - 1);
        uint last  = 10000;

        // Recurse within available tree levels..
        #pragma unroll
        for (uint idepth = 0; idepth < TREE_LEVELS; idepth++) {
            // Calculate positions of both children.
            uint const icell0 = (icell  * 2);
            uint const icell1 = (icell0 + 1);
            uint const icell2 = (icell0 + 2);

            // Correct for tree truncation.
            uint const icell10 = (icell1 - TREE_DROP_NODES);
            uint const icell20 = (icell2 - TREE_DROP_NODES);

            // Read integers for both children.
            uint4 const hashR1a = read_imageui(hashesR, sampler, (int2)(0, icell10));
            uint4 const hashR1b = read_imageui(hashesR, sampler, (int2)(1, icell10));
            uint4 const hashR2a = read_imageui(hashesR, sampler, (int2)(0, icell20));
            uint4 const hashR2b = read_imageui(hashesR, sampler, (int2)(1, icell20));

            // Calculate errors for both children.
            uint const err1 = error(hashTa, hashR1a) + error(hashTb, hashR1b);
            uint const err2 = error(hashTa, hashR2a) + error(hashTb, hashR2b);

            // Determine lower error.
            last = min(err1, err2);

            // Keep child with lower error.
            icell = select(icell1, icell2, err1 > err2);
        }

        // Record match if within error threshold.
        if (last <= HIPS_MAX_ERROR) {
            uint const i = atom_inc(imatch);
            if (i < nmatch) {
                uint const index = read_imageui(indices, sampler, (int2)(0, icell - TREE_LEAF0)).x;

                // Store pair against original index.
                matches[i] = (uint2)(index, ihashT);
            }
        }
    }
}`

const hipsTreeFindSource = `
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

uint error(ulong4 t, ulong4 r) {
    return bitcount8(t & ~r);
}

// Bytes in constant memory:                32768
// Bytes per descriptor:                       32
//                                          -----
// Maximum descriptors in array:             1024
// Maximum leaf descriptors:                  512

// Forest structure in 992 descriptors:
// [32 nodes] [64 nodes] [128 nodes] [256 nodes] [512 leaves]
// Each thread starts from the same 16 roots (excluded) to select 16 from 32 initial nodes (included).
// Each thread will do exactly 10 (5 levels * 2 children) error calculations per root.
// Each thread will pick 0 or 1 leaf per root, so 0-16 in total per thread.

kernel void hips_tree_find(
    // N.B.: These uint8 are actually ulong4.
    global   uint8  const * hashes1,  // T
    constant uint8  const * hashes2,  // R (forest structure)
    global   uint2        * matches,  // Pairs of indices into hashes1 and hashes2.
    global   uint         * imatch,   // Output number of hash1 matches.
             uint           nmatch    // Maximum number of matches.
) {

    // Use global work item for hash1 index.
    uint   const ihash1 = get_global_id(0);
    uint8  const  hash1 = hashes1[ihash1];

    // Loop over 16 roots.
    #pragma unroll
    for (uint iroot = 0; iroot < 16; iroot++) {
        // Start traversal at root.
        uint best = iroot;
        uint last = 1000;

        // Recurse exactly 5 levels deep (including first level).
        #pragma unroll
        for (uint idepth = 0; idepth < 5; idepth++) {
            // Calculate positions of both children.
            uint const ihash2a = ((best * 2)    );
            uint const ihash2b = ((best * 2) + 1);

            // Calculate errors for both children.
            uint const erra = error(hash1, hashes2[ihash2a]);
            uint const errb = error(hash1, hashes2[ihash2b]);

            // Determine lower error.
            last = min(erra, errb);

            // Keep child with lower error.
            best = select(ihash2a, ihash2b, erra > errb);
        }

        // Record match if within error threshold.
        if (last <= HIPS_MAX_ERROR) {
            uint const i = atom_inc(imatch);
            if (i < nmatch) {
                // Subtract 480 to remove non-leaf tree elements.
                matches[i] = (uint2)(ihash1, best - 480);
            }
        }
    }
}`

const clipDepthSource = `
// Enable OpenCL 32-bit integer atomic functions.
#pragma OPENCL EXTENSION cl_khr_global_int32_base_atomics : enable

#define MIN (1000.0f)
#define MAX (7000.0f)

kernel void clip_depth(
    read_only  image2d_t   depth,
    global     int2      * corners,
    global     int2      * filtered,
    global     int       * icorner
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as 1D offset into corners.
    int   const ic  = get_global_id(0);
    int2  const xy  = corners[ic];

    // Read the candidate depth.
    float const pix = read_imagef(depth, sampler, xy).x;

    // Check against defined range.
    if ((pix >= MIN) && (pix <= MAX)) {
        // Atomically append to filtered corner buffer.
        filtered[atom_inc(icorner)] = xy;
    }
}
`

const randomIntSource = `
// This program implements part of MurmurHash3.
// http://code.google.com/p/smhasher/wiki/MurmurHash3

uint rotl32(uint x, uint r) {
    return ((x << r) | (x >> (32 - r)));
}

kernel void random_int(
    global int * pmod,
    global int * out
) {

    // Read modulo.
    uint const mod = *pmod;

    // Use global work item as integer index.
    uint const i   = get_global_id(0);

    // Mix the global work item.
    uint k1 = i;
    k1 *= 0xcc9e2d51;
    k1  = rotl32(k1, 15);
    k1 *= 0x1b873593;

    // Mix the modulo.
    uint k2 = i;
    k2 *= 0xcc9e2d51;
    k2  = rotl32(k2, 15);
    k2 *= 0x1b873593;

    // Starting hash.
    uint h = 0xbcaa747;

    // Hash the global work item.
    h ^= k1;
    h  = rotl32(h, 13);
    h  = ((h * 5) + 0xe6546b64);

    // Hash the modulo.
    h ^= k2;
    h  = rotl32(h, 13);
    h  = ((h * 5) + 0xe6546b64);

    // Finalise hash.
    h ^= h >> 16;
    h *= 0x85ebca6b;
    h ^= h >> 13;
    h *= 0xc2b2ae35;
    h ^= h >> 16;

    // Write hash after modulo.
    out[0] = ((h & 0xffffff) % mod);
}
`

const toUVQUVSource = `
kernel void to_uvquv(
    read_only  image2d_t     umap,
    read_only  image2d_t     vmap,
    read_only  image2d_t     qmap,
    global     int2  const * xy1s,
    global     int2  const * xy2s,
    global     int2  const * pairs,
    global     float       * u1s,
    global     float       * v1s,
    global     float       * q1s,
    global     float       * u2s,
    global     float       * v2s
) {

    // Prepare a suitable OpenCL image sampler.
    sampler_t const sampler = CLK_ADDRESS_CLAMP | CLK_FILTER_NEAREST;

    // Use global work item as pair index.
    int  const idx  = get_global_id(0);

    // Read pair.
    int2 const pair = pairs[idx];

    // Read integer (x,y) coordinates.
    int2 const xy1  = xy1s[pair.x];
    int2 const xy2  = xy2s[pair.y];

    // Translate with floating image maps.
    u1s[idx] = read_imagef(umap, sampler, xy1).x;
    u2s[idx] = read_imagef(umap, sampler, xy2).x;
    v1s[idx] = read_imagef(vmap, sampler, xy1).x;
    v2s[idx] = read_imagef(vmap, sampler, xy2).x;
    q1s[idx] = read_imagef(qmap, sampler, xy1).x;
}
`

const se3ExpSource = `
float sq(float x) {
    return (x * x);
}

float len(float x, float y, float z) {
    return sqrt(sq(x) + sq(y) + sq(z));
}

#define ONE_6th  (1.0f /  6.0f)
#define ONE_20th (1.0f / 20.0f)
#define SMALL_8  (1.0e-8f)
#define SMALL_6  (1.0e-6f)

kernel void se3_exp(
    global float const * mus,
    global float       * mats
) {

    // Use global work item as vector index.
    int const ivector   = get_global_id(0);
    int const nvectors  = get_global_size(0);

    // Read vector elements.
    // Note that vectors are NOT contiguous in memory,
    // so that memory access can be coalesced for multiple threads.
    float const mu0 = mus[mad24(0, nvectors, ivector)];
    float const mu1 = mus[mad24(1, nvectors, ivector)];
    float const mu2 = mus[mad24(2, nvectors, ivector)];
    float const  w0 = mus[mad24(3, nvectors, ivector)];
    float const  w1 = mus[mad24(4, nvectors, ivector)];
    float const  w2 = mus[mad24(5, nvectors, ivector)];

    float const theta_sq = (sq(w0) + sq(w1) + sq(w2));
    float const theta    = sqrt(theta_sq);

    float const cross0 = ((w1 * mu2) - (w2 * mu1));
    float const cross1 = ((w2 * mu0) - (w0 * mu2));
    float const cross2 = ((w0 * mu1) - (w1 * mu0));

    // Prepare matrix elements.
    float r0c0;
    float r0c1;
    float r0c2;
    float r0c3;
    float r1c0;
    float r1c1;
    float r1c2;
    float r1c3;
    float r2c0;
    float r2c1;
    float r2c2;
    float r2c3;

    float A;
    float B;

    if (theta_sq < SMALL_8) {
        A = (1.0f - (ONE_6th * theta_sq));
        B = (0.5f);

        // Assign translation matrix.
        r0c3 = (mu0 + (cross0 * 0.5f));
        r1c3 = (mu1 + (cross1 * 0.5f));
        r2c3 = (mu2 + (cross2 * 0.5f));
    } else {
        float C;

        if (theta_sq < SMALL_6) {
            C = (ONE_6th * (1.0f - (ONE_20th * theta_sq)));
            A = (1.0f - (theta_sq * C));
            B = (0.5f - (0.25f * ONE_6th * theta_sq));
        } else {
            float const inv_theta  = (1.0f / theta);
            float const inv_theta2 = sq(inv_theta);

            A = (sin(theta) * inv_theta);
            B = ((1.0f - cos(theta)) * inv_theta2);
            C = ((1.0f - A) * inv_theta2);
        }

        float const wc0 = ((w1 * cross2) - (w2 * cross1));
        float const wc1 = ((w2 * cross0) - (w0 * cross2));
        float const wc2 = ((w0 * cross1) - (w1 * cross0));

        // Assign translation matrix.
        r0c3 = (mu0 + (cross0 * B) + (wc0 * C));
        r1c3 = (mu1 + (cross1 * B) + (wc1 * C));
        r2c3 = (mu2 + (cross2 * B) + (wc2 * C));
    }

    {
        float const wx2 = sq(w0);
        float const wy2 = sq(w1);
        float const wz2 = sq(w2);

        r0c0 = (1.0f - (B * (wy2 + wz2)));
        r1c1 = (1.0f - (B * (wx2 + wz2)));
        r2c2 = (1.0f - (B * (wx2 + wy2)));
    }
    {
        float const a   = (A * w2);
        float const b   = (B * w0 * w1);

        r0c1 = (b - a);
        r1c0 = (b + a);
    }
    {
        float const a   = (A * w1);
        float const b   = (B * w0 * w2);

        r0c2 = (b + a);
        r2c0 = (b - a);
    }
    {
        float const a   = (A * w0);
        float const b   = (B * w1 * w2);

        r1c2 = (b - a);
        r2c1 = (b + a);
    }

    // Coerce matrix.

    // my_matrix[0] = unit(my_matrix[0]);
    float const l0 = len(r0c0, r0c1, r0c2);
    r0c0 /= l0;
    r0c1 /= l0;
    r0c2 /= l0;

    // my_matrix[1] -= my_matrix[0] * (my_matrix[0]*my_matrix[1]);
    float const r0 = ((r0c0 * r1c0) + (r0c1 * r1c1) + (r0c2 * r1c2));
    r1c0 -= (r0c0 * r0);
    r1c1 -= (r0c1 * r0);
    r1c2 -= (r0c2 * r0);

    // my_matrix[1] = unit(my_matrix[1]);
    float const l1 = len(r1c0, r1c1, r1c2);
    r1c0 /= l1;
    r1c1 /= l1;
    r1c2 /= l1;

    // my_matrix[2] -= my_matrix[0] * (my_matrix[0]*my_matrix[2]);
    float const r1 = ((r0c0 * r2c0) + (r0c1 * r2c1) + (r0c2 * r2c2));
    r2c0 -= (r0c0 * r1);
    r2c1 -= (r0c1 * r1);
    r2c2 -= (r0c2 * r1);

    // my_matrix[2] -= my_matrix[1] * (my_matrix[1]*my_matrix[2]);
    float const r2 = ((r1c0 * r2c0) + (r1c1 * r2c1) + (r1c2 * r2c2));
    r2c0 -= (r1c0 * r2);
    r2c1 -= (r1c1 * r2);
    r2c2 -= (r1c2 * r2);

    // my_matrix[2] = unit(my_matrix[2]);
    float const l2 = len(r2c0, r2c1, r2c2);
    r2c0 /= l2;
    r2c1 /= l2;
    r2c2 /= l2;

    // Write matrix elements.
    mats[mad24( 0, nvectors, ivector)] = r0c0;
    mats[mad24( 1, nvectors, ivector)] = r0c1;
    mats[mad24( 2, nvectors, ivector)] = r0c2;
    mats[mad24( 3, nvectors, ivector)] = r0c3;
    mats[mad24( 4, nvectors, ivector)] = r1c0;
    mats[mad24( 5, nvectors, ivector)] = r1c1;
    mats[mad24( 6, nvectors, ivector)] = r1c2;
    mats[mad24( 7, nvectors, ivector)] = r1c3;
    mats[mad24( 8, nvectors, ivector)] = r2c0;
    mats[mad24( 9, nvectors, ivector)] = r2c1;
    mats[mad24(10, nvectors, ivector)] = r2c2;
    mats[mad24(11, nvectors, ivector)] = r2c3;
    mats[mad24(12, nvectors, ivector)] =    0;
    mats[mad24(13, nvectors, ivector)] =    0;
    mats[mad24(14, nvectors, ivector)] =    0;
    mats[mad24(15, nvectors, ivector)] =    1;
}
`
