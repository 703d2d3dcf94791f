// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package kernels holds the named OpenCL and CUDA source templates.
//
// Each template is a small generator: it takes at most one positional
// argument (a matrix dimension for the linear algebra templates), expands its
// sampling pattern or matrix with package expand, and streams kernel source
// text to an io.Writer. Output is byte-identical for identical arguments.
//
// Templates are looked up by name:
//
//	t, ok := kernels.Lookup("cholesky")
//	if !ok {
//	    ...
//	}
//	err := t.Generate(os.Stdout, []string{"4"})
//
// Generated identifiers such as p01 or r2c3 are consumed by host code that
// sets kernel arguments and compiler defines (FAST_THRESH, HIPS_MAX_ERROR,
// ...), so each template keeps its own naming and index base even where two
// templates sample the same pattern.
//
// Some entry points have more than one template: "find" and "hips-find" both
// define hips_find, and "hips-tfind" and "hips-tree-find" both define
// hips_tree_find. They are different kernels with different signatures and
// are kept side by side.
package kernels
