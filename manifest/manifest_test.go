// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/clgen/manifest"
)

const sample = `
output_dir = "kernels"

kernel "cholesky3" {
  template = "cholesky"
  args     = [3]
  source   = "cholesky3.cl"
  header   = "cholesky3.hh"
  symbol   = upper(format("ocl_cholesky_%d", 3))
}

kernel "fast-gray" {
  template = "fast-gray"
  header   = "fast-gray.hh"
}

kernel "mat" {
  template = "mat-mul"
  args     = ["4"]
  source   = join("/", ["linalg", "mat_mul_4.cl"])
}
`

func TestParse(t *testing.T) {
	m, err := manifest.Parse([]byte(sample), filepath.Join("proj", "build.hcl"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("proj", "kernels"), m.OutputDir)
	require.Len(t, m.Kernels, 3)

	chol := m.Kernels[0]
	assert.Equal(t, "cholesky3", chol.Label)
	assert.Equal(t, "cholesky", chol.Template.Name)
	assert.Equal(t, []string{"3"}, chol.Args)
	assert.Equal(t, "OCL_CHOLESKY_3", chol.Symbol)
	assert.Equal(t, "cholesky3", chol.EntryPoint())

	fast := m.Kernels[1]
	assert.Empty(t, fast.Source)
	assert.Equal(t, "OCL_FAST_GRAY", fast.Symbol, "symbol defaults from the label")

	mat := m.Kernels[2]
	assert.Equal(t, "linalg/mat_mul_4.cl", mat.Source)
	assert.Empty(t, mat.Symbol, "no header, no symbol")
	assert.Equal(t, "mat_mul_4", mat.EntryPoint())
}

func TestParseDefaultOutputDir(t *testing.T) {
	m, err := manifest.Parse([]byte(`
kernel "f" {
  template = "filt"
  source   = replace("${manifest_dir}/filt.cl", "//", "/")
}
`), filepath.Join("a", "b.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "a", m.OutputDir)
	assert.Equal(t, "a/filt.cl", m.Kernels[0].Source)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "syntax",
			src:  `kernel "x" {`,
			want: "parse",
		},
		{
			name: "unknown template",
			src: `
kernel "x" {
  template = "nope"
  source   = "x.cl"
}`,
			want: "Unknown template",
		},
		{
			name: "missing dimension",
			src: `
kernel "x" {
  template = "cholesky"
  source   = "x.cl"
}`,
			want: "Invalid arguments",
		},
		{
			name: "unexpected argument",
			src: `
kernel "x" {
  template = "fast"
  args     = ["1"]
  source   = "x.cl"
}`,
			want: "Invalid arguments",
		},
		{
			name: "bad dimension",
			src: `
kernel "x" {
  template = "mat-mul"
  args     = ["0"]
  source   = "x.cl"
}`,
			want: "not positive",
		},
		{
			name: "no outputs",
			src:  `kernel "x" { template = "fast" }`,
			want: "Nothing to write",
		},
		{
			name: "bad symbol",
			src: `
kernel "x" {
  template = "fast"
  header   = "x.hh"
  symbol   = "not valid"
}`,
			want: "Invalid symbol",
		},
		{
			name: "duplicate",
			src: `
kernel "x" {
  template = "fast"
  source   = "a.cl"
}

kernel "x" {
  template = "fast"
  source   = "b.cl"
}`,
			want: "Duplicate kernel",
		},
		{
			name: "two kernels, one source",
			src: `
kernel "a" {
  template = "fast"
  source   = "out.cl"
}

kernel "b" {
  template = "filt"
  source   = "./sub/../out.cl"
}`,
			want: "Duplicate output",
		},
		{
			name: "source is header",
			src: `
kernel "x" {
  template = "fast"
  source   = "x.out"
  header   = "x.out"
}`,
			want: "as both source and header",
		},
		{
			name: "header is other source",
			src: `
kernel "a" {
  template = "fast"
  source   = "a.cl"
}

kernel "b" {
  template = "filt"
  header   = "a.cl"
}`,
			want: `kernel "a" already writes`,
		},
		{
			name: "unknown attribute",
			src: `
kernel "x" {
  template = "fast"
  source   = "a.cl"
  colour   = "red"
}`,
			want: "Unsupported argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.src), "test.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	m, err := manifest.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path)
	assert.Equal(t, filepath.Join(dir, "kernels"), m.OutputDir)
	assert.Len(t, m.Kernels, 3)

	_, err = manifest.Load(filepath.Join(dir, "missing.hcl"))
	assert.Error(t, err)
}

func TestFunctions(t *testing.T) {
	fns := manifest.Functions()
	for _, name := range []string{"upper", "lower", "replace", "format", "join"} {
		assert.Contains(t, fns, name)
	}
}
