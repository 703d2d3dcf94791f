// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package build_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/clgen/build"
	"github.com/gogpu/clgen/header"
	"github.com/gogpu/clgen/kernels"
	"github.com/gogpu/clgen/manifest"
)

const twoKernels = `
output_dir = "out"

kernel "cholesky3" {
  template = "cholesky"
  args     = ["3"]
  source   = "cholesky3.cl"
  header   = "include/cholesky3.hh"
}

kernel "filt" {
  template = "filt"
  header   = "filt.hh"
  symbol   = "OCL_FILTER"
}
`

func writeManifest(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "build.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func render(t *testing.T, name string, args ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, kernels.Generate(&buf, name, args))
	return buf.Bytes()
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	m, err := manifest.Load(writeManifest(t, dir, twoKernels))
	require.NoError(t, err)

	for _, jobs := range []int{0, 1, 4} {
		res, err := build.Run(context.Background(), m, build.Options{Jobs: jobs})
		require.NoError(t, err)

		out := filepath.Join(dir, "out")
		require.Len(t, res.Files, 3)
		assert.Equal(t, filepath.Join(out, "cholesky3.cl"), res.Files[0].Path)
		assert.Equal(t, filepath.Join(out, "include", "cholesky3.hh"), res.Files[1].Path)
		assert.Equal(t, filepath.Join(out, "filt.hh"), res.Files[2].Path)

		src, err := os.ReadFile(res.Files[0].Path)
		require.NoError(t, err)
		assert.Equal(t, render(t, "cholesky", "3"), src)
		assert.EqualValues(t, len(src), res.Files[0].Size)

		hh, err := os.ReadFile(res.Files[1].Path)
		require.NoError(t, err)
		name, data, err := header.Decode(hh)
		require.NoError(t, err)
		assert.Equal(t, "OCL_CHOLESKY3", name)
		assert.Equal(t, src, data)

		hh, err = os.ReadFile(res.Files[2].Path)
		require.NoError(t, err)
		name, data, err = header.Decode(hh)
		require.NoError(t, err)
		assert.Equal(t, "OCL_FILTER", name)
		assert.Equal(t, render(t, "filt"), data)
	}

	// No temporary files are left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"cholesky3.cl", "filt.hh", "include"}, names)
}

func TestRunOutputDirIsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out"), []byte("x"), 0o644))
	m, err := manifest.Load(writeManifest(t, dir, twoKernels))
	require.NoError(t, err)

	_, err = build.Run(context.Background(), m, build.Options{Jobs: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build: kernel")
}

func TestRunRejectsSharedOutput(t *testing.T) {
	dir := t.TempDir()
	fast, _ := kernels.Lookup("fast")
	filt, _ := kernels.Lookup("filt")
	m := &manifest.Manifest{
		Path:      filepath.Join(dir, "build.hcl"),
		OutputDir: dir,
		Kernels: []*manifest.Kernel{
			{Label: "a", Template: fast, Source: "out.cl"},
			{Label: "b", Template: filt, Source: "out.cl"},
		},
	}

	_, err := build.Run(context.Background(), m, build.Options{Jobs: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a" and "b" both write`)
	assert.NoFileExists(t, filepath.Join(dir, "out.cl"), "nothing is rendered")
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	m, err := manifest.Load(writeManifest(t, dir, twoKernels))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = build.Run(ctx, m, build.Options{})
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "out", "cholesky3.cl"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
kernel "a" {
  template = "fast"
  source   = "a.cl"
}
`)

	type outcome struct {
		res *build.Result
		err error
	}
	outcomes := make(chan outcome, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- build.Watch(ctx, path, build.Options{Jobs: 1}, func(res *build.Result, err error) {
			outcomes <- outcome{res, err}
		})
	}()

	// Editors and os.WriteFile may produce several events per save, so
	// wait for the build that reflects the latest content.
	waitFor := func(match func(outcome) bool) outcome {
		t.Helper()
		deadline := time.After(10 * time.Second)
		for {
			select {
			case o := <-outcomes:
				if match(o) {
					return o
				}
			case <-deadline:
				t.Fatal("timed out waiting for a build")
				return outcome{}
			}
		}
	}
	builtFile := func(name string) func(outcome) bool {
		return func(o outcome) bool {
			return o.err == nil && len(o.res.Files) == 1 && filepath.Base(o.res.Files[0].Path) == name
		}
	}

	waitFor(builtFile("a.cl"))
	assert.FileExists(t, filepath.Join(dir, "a.cl"))

	writeManifest(t, dir, `
kernel "b" {
  template = "fast-gray"
  source   = "b.cl"
}
`)
	waitFor(builtFile("b.cl"))
	assert.FileExists(t, filepath.Join(dir, "b.cl"))

	writeManifest(t, dir, `kernel "c" {`)
	broken := waitFor(func(o outcome) bool { return o.err != nil })
	assert.Nil(t, broken.res)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWriteFileKeepsOldContentOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "k.cl")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	boom := errors.New("template failed")
	_, err := build.WriteFile(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file removed")

	n, err := build.WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "new\n")
		return err
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}
