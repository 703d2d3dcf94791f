// Package clgen generates OpenCL kernel sources from named templates.
//
// Kernels for corner detection (FAST), binary descriptors (HIPS), rigid
// motion estimation (SE(3)) and small dense linear algebra are expanded from
// offset tables and matrix index sets into straight-line OpenCL C, then
// optionally embedded in a C++ header for the host program.
//
// Example usage:
//
//	src, err := clgen.Generate("cholesky", "3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// To get a header instead of source:
//
//	opts := clgen.Options{Embed: true}
//	hh, err := clgen.GenerateWithOptions("fast-gray", nil, opts)
//
// The kernels, header and build packages give lower-level access.
package clgen

import (
	"bytes"
	"fmt"

	"github.com/gogpu/clgen/header"
	"github.com/gogpu/clgen/kernels"
)

// Options configures generation.
type Options struct {
	// Embed wraps the kernel source in an embedding header.
	Embed bool

	// Symbol names the embedded array (default: header.Symbol(name)).
	Symbol string
}

// DefaultOptions returns options producing plain kernel source.
func DefaultOptions() Options {
	return Options{}
}

// Generate renders the named template with default options.
func Generate(name string, args ...string) ([]byte, error) {
	return GenerateWithOptions(name, args, DefaultOptions())
}

// GenerateWithOptions renders the named template.
//
// The pipeline is:
//  1. Look up the template and validate args
//  2. Expand the template into kernel source
//  3. Embed the source in a header (if enabled)
func GenerateWithOptions(name string, args []string, opts Options) ([]byte, error) {
	t, ok := kernels.Lookup(name)
	if !ok {
		return nil, &kernels.Error{Kind: kernels.ErrUnknownTemplate, Template: name, Message: "no such template"}
	}

	var src bytes.Buffer
	if err := t.Generate(&src, args); err != nil {
		return nil, err
	}
	if !opts.Embed {
		return src.Bytes(), nil
	}

	symbol := opts.Symbol
	if symbol == "" {
		symbol = header.Symbol(name)
	}
	var hh bytes.Buffer
	if err := header.Write(&hh, symbol, src.Bytes()); err != nil {
		return nil, fmt.Errorf("embed %s: %w", name, err)
	}
	return hh.Bytes(), nil
}

// Templates returns all templates sorted by name.
func Templates() []*kernels.Template {
	return kernels.All()
}
