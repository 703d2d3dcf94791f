// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package header embeds program text in a C++ header as a byte array.
//
// The generated header defines one NUL-terminated char array inside
// namespace CVD::CL, guarded against repeated inclusion:
//
//	#ifndef __CVD_CL_EMBED_OCL_FAST_HH__
//	...
//	char static const OCL_FAST [] = {
//	     47,  47,  32, ...
//	      0
//	};
//
// The host program passes the array straight to the OpenCL compiler, so the
// kernel source never needs to be located on disk at run time.
package header

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/clgen/expand"
)

// PerRow is the number of bytes per array row.
const PerRow = 16

var (
	// ErrInvalidName is returned for symbols that are not C identifiers.
	ErrInvalidName = errors.New("header: symbol is not a C identifier")

	// ErrMalformed is returned by Decode for text that is not an
	// embedding header.
	ErrMalformed = errors.New("header: malformed embedding")
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports an error unless name can be used as a C identifier.
func ValidName(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Symbol returns the conventional host symbol for a kernel, e.g.
// "fast-gray" becomes "OCL_FAST_GRAY".
func Symbol(kernel string) string {
	return "OCL_" + strings.ToUpper(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, kernel))
}

// Guard returns the include guard macro for a symbol.
func Guard(name string) string {
	return "__CVD_CL_EMBED_" + name + "_HH__"
}

// Write writes the header embedding data under the given symbol.
func Write(w io.Writer, name string, data []byte) error {
	if err := ValidName(name); err != nil {
		return err
	}

	guard := Guard(name)
	out := expand.NewWriter(w)
	out.Line("#ifndef %s", guard)
	out.Line("#define %s", guard)
	out.Blank()
	out.Text("namespace CVD {")
	out.Text("namespace CL  {")
	out.Blank()
	out.Text(`/// \brief Embedded OpenCL program source.`)
	out.Text("///")
	out.Text(`/// \see Worker::compile`)
	out.Line("char static const %s [] = {", name)

	var row strings.Builder
	for start := 0; start < len(data); start += PerRow {
		row.Reset()
		row.WriteString("   ")
		for _, b := range data[start:min(start+PerRow, len(data))] {
			fmt.Fprintf(&row, " %3d,", b)
		}
		out.Text(row.String())
	}

	out.Text("      0")
	out.Text("};")
	out.Blank()
	out.Text("} // namespace CL")
	out.Text("} // namespace CVD")
	out.Blank()
	out.Line("#endif /* %s */", guard)

	if err := out.Err(); err != nil {
		return fmt.Errorf("header: write %s: %w", name, err)
	}
	return nil
}

// Read consumes r to EOF and writes the header for its contents. Nothing is
// written if reading fails.
func Read(r io.Reader, name string, w io.Writer) error {
	if err := ValidName(name); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("header: read input: %w", err)
	}
	return Write(w, name, data)
}

var declRe = regexp.MustCompile(`^char static const ([A-Za-z_][A-Za-z0-9_]*) \[\] = \{$`)

// Decode parses a header produced by Write and returns the symbol and the
// embedded bytes, without the terminating NUL.
func Decode(text []byte) (name string, data []byte, err error) {
	sc := bufio.NewScanner(bytes.NewReader(text))
	inArray := false
	line := 0
	for sc.Scan() {
		line++
		s := sc.Text()
		if !inArray {
			if m := declRe.FindStringSubmatch(s); m != nil {
				name = m[1]
				data = []byte{}
				inArray = true
			}
			continue
		}

		if strings.TrimSpace(s) == "0" {
			return name, data, nil
		}
		for _, cell := range strings.Split(strings.TrimSpace(s), ",") {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, perr := strconv.ParseUint(cell, 10, 8)
			if perr != nil {
				return "", nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, perr)
			}
			data = append(data, byte(v))
		}
	}
	if err := sc.Err(); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !inArray {
		return "", nil, fmt.Errorf("%w: no array declaration", ErrMalformed)
	}
	return "", nil, fmt.Errorf("%w: missing terminator", ErrMalformed)
}
