// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package header_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/clgen/header"
)

func TestRoundTrip(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"single", []byte{'k'}},
		{"full row", []byte("0123456789abcdef")},
		{"row and a bit", []byte("0123456789abcdef!")},
		{"every byte", all},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, header.Write(&buf, "OCL_TEST", tt.data))

			name, data, err := header.Decode(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, "OCL_TEST", name)
			assert.Equal(t, tt.data, data)
		})
	}
}

func TestWriteRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, header.Write(&buf, "OCL_X", bytes.Repeat([]byte{7}, 33)))

	var rows []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "    ") && strings.HasSuffix(line, ",") {
			rows = append(rows, line)
		}
	}
	require.Len(t, rows, 3)
	assert.Equal(t, "   "+strings.Repeat("   7,", 16), rows[0])
	assert.Equal(t, "      7,", rows[2])
	assert.Contains(t, buf.String(), "   7,\n      0\n};\n")
}

func TestWriteGuard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, header.Write(&buf, "OCL_FAST", nil))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "#ifndef __CVD_CL_EMBED_OCL_FAST_HH__\n#define __CVD_CL_EMBED_OCL_FAST_HH__\n"))
	assert.True(t, strings.HasSuffix(out, "#endif /* __CVD_CL_EMBED_OCL_FAST_HH__ */\n"))
}

func TestValidName(t *testing.T) {
	for _, name := range []string{"OCL_FAST", "_x", "a1"} {
		assert.NoError(t, header.ValidName(name), name)
	}
	for _, name := range []string{"", "1abc", "fast-gray", "a b", "x;"} {
		err := header.ValidName(name)
		assert.ErrorIs(t, err, header.ErrInvalidName, name)
	}

	var buf bytes.Buffer
	err := header.Write(&buf, "not-valid", []byte("x"))
	require.ErrorIs(t, err, header.ErrInvalidName)
	assert.Zero(t, buf.Len(), "nothing is written for a bad symbol")
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "OCL_FAST_GRAY", header.Symbol("fast-gray"))
	assert.Equal(t, "OCL_CHOLESKY3", header.Symbol("cholesky3"))
	assert.Equal(t, "OCL_SE3_RUN1", header.Symbol("se3-run1"))
	assert.NoError(t, header.ValidName(header.Symbol("hips.blend gray")))
}

func TestReadConsumesInput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, header.Read(iotest.OneByteReader(strings.NewReader("hello\n")), "OCL_HELLO", &buf))
	assert.Contains(t, buf.String(), "    104, 101, 108, 108, 111,  10,\n")
}

func TestReadError(t *testing.T) {
	boom := errors.New("boom")
	var buf bytes.Buffer
	err := header.Read(iotest.ErrReader(boom), "OCL_X", &buf)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, buf.Len())
}

func TestDecodeMalformed(t *testing.T) {
	for name, text := range map[string]string{
		"no array":   "int x;\n",
		"bad cell":   "char static const X [] = {\n    300,\n      0\n};\n",
		"unfinished": "char static const X [] = {\n    1,   2,\n",
	} {
		_, _, err := header.Decode([]byte(text))
		assert.ErrorIs(t, err, header.ErrMalformed, name)
	}
}
