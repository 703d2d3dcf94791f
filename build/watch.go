// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package build

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/clgen/internal/ctxlog"
	"github.com/gogpu/clgen/manifest"
)

// settle is how long the manifest must stay quiet before a rebuild. Editors
// often save in several steps.
const settle = 100 * time.Millisecond

// Watch builds the manifest at path, then rebuilds it each time the file
// changes, until ctx is cancelled. Every build outcome, including manifest
// errors, is passed to report; a broken manifest does not stop the watch.
//
// Watch returns nil once ctx is cancelled, or an error if the file cannot
// be watched at all.
func Watch(ctx context.Context, path string, opts Options, report func(*Result, error)) error {
	logger := ctxlog.FromContext(ctx)

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("build: watch %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("build: watch %s: %w", path, err)
	}
	defer w.Close()

	// Watch the directory: saving by rename replaces the file's inode and
	// would silently end a watch on the file itself.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("build: watch %s: %w", path, err)
	}

	rebuild := func() {
		m, err := manifest.Load(abs)
		if err != nil {
			report(nil, err)
			return
		}
		report(Run(ctx, m, opts))
	}
	rebuild()

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Watch stopped", "manifest", abs)
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("Manifest changed", "manifest", abs, "op", ev.Op.String())
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "manifest", abs, "error", err)
		case <-timer.C:
			rebuild()
		}
	}
}
