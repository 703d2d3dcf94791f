// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package manifest loads build manifests: HCL files naming the kernels to
// render and where to put their source and embedding headers.
//
//	output_dir = "kernels"
//
//	kernel "cholesky3" {
//	  template = "cholesky"
//	  args     = ["3"]
//	  source   = "cholesky3.cl"
//	  header   = "cholesky3.hh"
//	  symbol   = upper("ocl_cholesky_3")
//	}
//
// args is a list of strings; a number such as [3] converts to ["3"].
// Expressions may call upper, lower, replace, format and join, and read the
// variable manifest_dir. No two outputs may resolve to the same file.
package manifest

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/gogpu/clgen/header"
	"github.com/gogpu/clgen/kernels"
)

// Manifest is a validated build manifest.
type Manifest struct {
	// Path is the file the manifest was read from.
	Path string

	// OutputDir is the directory generated files are written to.
	OutputDir string

	// Kernels in declaration order.
	Kernels []*Kernel
}

// Kernel is one kernel to render.
type Kernel struct {
	// Label is the block label, unique within the manifest.
	Label string

	Template *kernels.Template
	Args     []string

	// Source and Header are paths relative to OutputDir. Either may be
	// empty, but not both.
	Source string
	Header string

	// Symbol names the embedded array. Only used when Header is set.
	Symbol string
}

// EntryPoint returns the kernel function the rendered source defines.
func (k *Kernel) EntryPoint() string {
	// Arguments were validated on load.
	ep, _ := k.Template.EntryPoint(k.Args)
	return ep
}

type hclManifest struct {
	OutputDir string       `hcl:"output_dir,optional"`
	Kernels   []*hclKernel `hcl:"kernel,block"`
}

type hclKernel struct {
	Label    string    `hcl:"label,label"`
	Template string    `hcl:"template"`
	Args     []string  `hcl:"args,optional"`
	Source   string    `hcl:"source,optional"`
	Header   string    `hcl:"header,optional"`
	Symbol   string    `hcl:"symbol,optional"`
	DefRange hcl.Range `hcl:",def_range"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, diags)
	}
	return decode(file, path)
}

// Parse decodes and validates manifest source. filename is used for
// diagnostics and to resolve output_dir.
func Parse(src []byte, filename string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("manifest: parse %s: %w", filename, diags)
	}
	return decode(file, filename)
}

// Functions returns the functions available to manifest expressions.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"upper":   stdlib.UpperFunc,
		"lower":   stdlib.LowerFunc,
		"replace": stdlib.ReplaceFunc,
		"format":  stdlib.FormatFunc,
		"join":    stdlib.JoinFunc,
	}
}

func evalContext(dir string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"manifest_dir": cty.StringVal(dir),
		},
		Functions: Functions(),
	}
}

func decode(file *hcl.File, path string) (*Manifest, error) {
	dir := filepath.Dir(path)

	var raw hclManifest
	if diags := gohcl.DecodeBody(file.Body, evalContext(dir), &raw); diags.HasErrors() {
		return nil, fmt.Errorf("manifest: decode %s: %w", path, diags)
	}

	m := &Manifest{
		Path:      path,
		OutputDir: dir,
		Kernels:   make([]*Kernel, 0, len(raw.Kernels)),
	}
	if raw.OutputDir != "" {
		if filepath.IsAbs(raw.OutputDir) {
			m.OutputDir = filepath.Clean(raw.OutputDir)
		} else {
			m.OutputDir = filepath.Join(dir, raw.OutputDir)
		}
	}

	var diags hcl.Diagnostics
	seen := make(map[string]hcl.Range, len(raw.Kernels))
	// Output paths after joining with OutputDir, mapped to the kernel
	// writing them. Two writers of one file would race in build.Run.
	outputs := make(map[string]string)
	for _, rk := range raw.Kernels {
		if prev, dup := seen[rk.Label]; dup {
			diags = diags.Append(invalid(rk, "Duplicate kernel", "kernel %q was already declared at %s", rk.Label, prev))
			continue
		}
		seen[rk.Label] = rk.DefRange

		k, diag := validate(rk)
		if diag != nil {
			diags = diags.Append(diag)
			continue
		}
		if diag := claimOutputs(outputs, m.OutputDir, rk, k); diag != nil {
			diags = diags.Append(diag)
			continue
		}
		m.Kernels = append(m.Kernels, k)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("manifest: %s: %w", path, diags)
	}
	return m, nil
}

func validate(rk *hclKernel) (*Kernel, *hcl.Diagnostic) {
	t, ok := kernels.Lookup(rk.Template)
	if !ok {
		return nil, invalid(rk, "Unknown template", "kernel %q uses unknown template %q", rk.Label, rk.Template)
	}
	if _, err := t.Args(rk.Args); err != nil {
		return nil, invalid(rk, "Invalid arguments", "kernel %q: %v", rk.Label, err)
	}
	if rk.Source == "" && rk.Header == "" {
		return nil, invalid(rk, "Nothing to write", "kernel %q sets neither source nor header", rk.Label)
	}

	k := &Kernel{
		Label:    rk.Label,
		Template: t,
		Args:     rk.Args,
		Source:   rk.Source,
		Header:   rk.Header,
		Symbol:   rk.Symbol,
	}
	if k.Header != "" {
		if k.Symbol == "" {
			k.Symbol = header.Symbol(k.Label)
		}
		if err := header.ValidName(k.Symbol); err != nil {
			return nil, invalid(rk, "Invalid symbol", "kernel %q: %v", rk.Label, err)
		}
	}
	return k, nil
}

// claimOutputs records the files k writes, failing if another kernel, or k
// itself, already writes one of them.
func claimOutputs(outputs map[string]string, dir string, rk *hclKernel, k *Kernel) *hcl.Diagnostic {
	var paths []string
	for _, rel := range []string{k.Source, k.Header} {
		if rel == "" {
			continue
		}
		path := filepath.Join(dir, rel)
		if owner, dup := outputs[path]; dup {
			return invalid(rk, "Duplicate output", "kernel %q writes %s, which kernel %q already writes", k.Label, path, owner)
		}
		if slices.Contains(paths, path) {
			return invalid(rk, "Duplicate output", "kernel %q writes %s as both source and header", k.Label, path)
		}
		paths = append(paths, path)
	}
	for _, path := range paths {
		outputs[path] = k.Label
	}
	return nil
}

func invalid(rk *hclKernel, summary, format string, args ...any) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(format, args...),
		Subject:  rk.DefRange.Ptr(),
	}
}
