// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextDefaultIsSilent(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New("debug", "text", &buf))

	FromContext(ctx).Debug("rendered", "kernel", "fast")
	assert.Contains(t, buf.String(), "kernel=fast")

	ctx = WithLogger(ctx, nil)
	assert.False(t, FromContext(ctx).Enabled(ctx, slog.LevelError))
}

func TestNewLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", "json", &buf)

	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown", "n", 3)
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"n":3`)

	assert.True(t, New("bogus", "", &buf).Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, New("bogus", "", &buf).Enabled(context.Background(), slog.LevelDebug))
}
