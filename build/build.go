// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package build renders the kernels of a manifest to disk.
//
// Each kernel is rendered into memory once, then written as OpenCL source,
// as an embedding header, or both. Files are replaced atomically: a kernel
// that fails leaves whatever was there before untouched.
package build

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/clgen/header"
	"github.com/gogpu/clgen/internal/ctxlog"
	"github.com/gogpu/clgen/manifest"
)

// Options configures a build.
type Options struct {
	// Jobs limits how many kernels render concurrently. Zero or less means
	// runtime.NumCPU().
	Jobs int
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.NumCPU()
}

// File is one written output file.
type File struct {
	// Kernel is the manifest label the file belongs to.
	Kernel string

	// Path is the absolute or manifest-relative path written.
	Path string

	// Size is the file size in bytes.
	Size int64
}

// Result lists the files a build wrote, in manifest order: for each kernel
// the source first, then the header.
type Result struct {
	Files []File
}

// Run renders every kernel in m. The first failure cancels kernels that
// have not started yet and is returned.
func Run(ctx context.Context, m *manifest.Manifest, opts Options) (*Result, error) {
	if err := checkOutputs(m); err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting build", "manifest", m.Path, "kernels", len(m.Kernels), "jobs", opts.jobs())

	perKernel := make([][]File, len(m.Kernels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())
	for i, k := range m.Kernels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files, err := renderKernel(m.OutputDir, k)
			if err != nil {
				return fmt.Errorf("build: kernel %q: %w", k.Label, err)
			}
			for _, f := range files {
				logger.Debug("Wrote file", "kernel", k.Label, "path", f.Path, "bytes", f.Size)
			}
			perKernel[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, files := range perKernel {
		res.Files = append(res.Files, files...)
	}
	logger.Info("Build finished", "manifest", m.Path, "files", len(res.Files))
	return res, nil
}

// checkOutputs rejects manifests where two outputs share a path. Loaded
// manifests are already checked; this covers ones built in code.
func checkOutputs(m *manifest.Manifest) error {
	owners := make(map[string]string)
	for _, k := range m.Kernels {
		for _, rel := range []string{k.Source, k.Header} {
			if rel == "" {
				continue
			}
			path := filepath.Join(m.OutputDir, rel)
			if owner, dup := owners[path]; dup {
				return fmt.Errorf("build: kernels %q and %q both write %s", owner, k.Label, path)
			}
			owners[path] = k.Label
		}
	}
	return nil
}

func renderKernel(dir string, k *manifest.Kernel) ([]File, error) {
	var src bytes.Buffer
	if err := k.Template.Generate(&src, k.Args); err != nil {
		return nil, err
	}

	var files []File
	if k.Source != "" {
		path := filepath.Join(dir, k.Source)
		size, err := WriteFile(path, func(w io.Writer) error {
			_, err := w.Write(src.Bytes())
			return err
		})
		if err != nil {
			return nil, err
		}
		files = append(files, File{Kernel: k.Label, Path: path, Size: size})
	}
	if k.Header != "" {
		path := filepath.Join(dir, k.Header)
		size, err := WriteFile(path, func(w io.Writer) error {
			return header.Write(w, k.Symbol, src.Bytes())
		})
		if err != nil {
			return nil, err
		}
		files = append(files, File{Kernel: k.Label, Path: path, Size: size})
	}
	return files, nil
}

// WriteFile replaces path with the output of fill. The data goes to a
// temporary file in the same directory, which is renamed into place only
// after fill succeeded, so readers never see a partial file. Missing parent
// directories are created. It returns the number of bytes written.
func WriteFile(path string, fill func(w io.Writer) error) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temporary file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := fill(bw); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	info, err := tmp.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", tmp.Name(), err)
	}
	// CreateTemp uses 0600; generated sources are ordinary files.
	if err := tmp.Chmod(0o644); err != nil {
		return 0, fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("replace %s: %w", path, err)
	}
	committed = true
	return info.Size(), nil
}
