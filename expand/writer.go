// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package expand

import (
	"fmt"
	"io"
)

// Writer streams generated lines to an underlying io.Writer.
//
// Every call writes through immediately. After the first write error the
// Writer drops further output and Err reports that error.
type Writer struct {
	out     io.Writer
	err     error
	written int64
}

// NewWriter returns a Writer that writes to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Line writes one printf-formatted line and a trailing newline.
func (w *Writer) Line(format string, args ...any) {
	w.write(fmt.Sprintf(format, args...) + "\n")
}

// Text writes s verbatim and a trailing newline. Kernel bodies containing
// a literal '%' go through Text.
func (w *Writer) Text(s string) {
	w.write(s + "\n")
}

// Fields writes one line built by Format.
func (w *Writer) Fields(pattern string, fields Fields) {
	w.write(Format(pattern, fields) + "\n")
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.write("\n")
}

// Chain writes terms joined by op, one term per line, followed by a newline.
func (w *Writer) Chain(op string, terms []string) {
	w.write(Chain(terms, op) + "\n")
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Written returns the number of bytes accepted by the underlying writer.
func (w *Writer) Written() int64 {
	return w.written
}

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	n, err := io.WriteString(w.out, s)
	w.written += int64(n)
	if err != nil {
		w.err = err
	}
}
