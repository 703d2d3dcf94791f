// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ctxlog carries a slog.Logger through context.Context.
//
// Library code never logs unless the caller placed a logger in the context;
// the fallback discards everything and reports every level disabled, so log
// calls cost nothing beyond the Enabled check.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
)

// nopHandler discards all records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var nop = slog.New(nopHandler{})

// key is unexported to prevent collisions with other packages.
type key struct{}

// WithLogger returns a copy of ctx carrying logger. A nil logger restores
// the silent default.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = nop
	}
	return context.WithValue(ctx, key{}, logger)
}

// FromContext returns the logger stored in ctx, or a logger that discards
// everything.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(key{}).(*slog.Logger); ok {
		return logger
	}
	return nop
}

// New builds a logger writing to w. level is one of debug, info, warn or
// error (default info); format is text or json (default text).
func New(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
