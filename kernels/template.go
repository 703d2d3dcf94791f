// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/gogpu/clgen/expand"
)

// Lang is the source language a template emits.
type Lang uint8

const (
	// OpenCL is OpenCL C, compiled by the host at run time.
	OpenCL Lang = iota

	// CUDA is a CUDA C fragment meant to be pasted into a kernel body.
	CUDA
)

// String returns the language name.
func (l Lang) String() string {
	switch l {
	case OpenCL:
		return "OpenCL"
	case CUDA:
		return "CUDA"
	default:
		return "Unknown"
	}
}

// Ext returns the conventional file extension, including the dot.
func (l Lang) Ext() string {
	if l == CUDA {
		return ".cu"
	}
	return ".cl"
}

// Param describes the positional argument a template takes.
type Param uint8

const (
	// NoParam templates take no arguments.
	NoParam Param = iota

	// Dimension templates take one positive integer, the matrix size N.
	Dimension
)

// String returns the parameter name as shown in usage text.
func (p Param) String() string {
	if p == Dimension {
		return "N"
	}
	return ""
}

// Template is a named kernel source generator.
type Template struct {
	// Name is the lookup name, e.g. "fast-gray".
	Name string

	// Summary is a one-line description.
	Summary string

	// Lang is the emitted source language.
	Lang Lang

	// Param is the positional argument the template takes.
	Param Param

	// entry is the kernel entry point. For Dimension templates it is a
	// format string taking N.
	entry string

	emit func(w *expand.Writer, n int)
}

// Args validates positional arguments and returns the dimension, or zero for
// templates without a parameter.
func (t *Template) Args(args []string) (int, error) {
	switch t.Param {
	case Dimension:
		if len(args) == 0 {
			return 0, newError(ErrMissingArgument, t.Name, "requires a dimension argument N")
		}
		if len(args) > 1 {
			return 0, newError(ErrUnexpectedArgument, t.Name, "takes one argument, got %d", len(args))
		}
		n, err := ParseDimension(args[0])
		if err != nil {
			var kerr *Error
			if errors.As(err, &kerr) {
				kerr.Template = t.Name
			}
			return 0, err
		}
		return n, nil
	default:
		if len(args) > 0 {
			return 0, newError(ErrUnexpectedArgument, t.Name, "takes no arguments, got %d", len(args))
		}
		return 0, nil
	}
}

// EntryPoint returns the name of the kernel function the template defines
// for the given arguments. CUDA fragments define none and return "".
func (t *Template) EntryPoint(args []string) (string, error) {
	n, err := t.Args(args)
	if err != nil {
		return "", err
	}
	if t.Param == Dimension {
		return fmt.Sprintf(t.entry, n), nil
	}
	return t.entry, nil
}

// EntryPattern returns the entry point with N standing for the dimension,
// e.g. "mat_mul_N".
func (t *Template) EntryPattern() string {
	if t.Param == Dimension {
		return strings.Replace(t.entry, "%d", "N", 1)
	}
	return t.entry
}

// Usage returns the template name followed by its parameter, if any.
func (t *Template) Usage() string {
	if t.Param == NoParam {
		return t.Name
	}
	return t.Name + " " + t.Param.String()
}

// Generate validates args and streams the template to out. Argument errors
// are returned before anything is written. A write error stops generation
// and is returned as ErrWrite; whatever was written before it stays written.
func (t *Template) Generate(out io.Writer, args []string) error {
	n, err := t.Args(args)
	if err != nil {
		return err
	}
	w := expand.NewWriter(out)
	t.emit(w, n)
	if err := w.Err(); err != nil {
		return &Error{Kind: ErrWrite, Template: t.Name, Message: "write output", Err: err}
	}
	return nil
}

// ParseDimension parses a matrix dimension. Surrounding whitespace is
// ignored; anything that is not a positive base-10 integer is an
// ErrInvalidArgument.
func ParseDimension(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, &Error{Kind: ErrInvalidArgument, Message: fmt.Sprintf("dimension %q is not an integer", arg), Err: err}
	}
	if n <= 0 {
		return 0, newError(ErrInvalidArgument, "", "dimension %d is not positive", n)
	}
	return n, nil
}

var registry = make(map[string]*Template)

// register adds t to the registry. Duplicate names are a programming error.
func register(t *Template) *Template {
	if _, dup := registry[t.Name]; dup {
		panic("kernels: duplicate template " + t.Name)
	}
	registry[t.Name] = t
	return t
}

// Lookup returns the template registered under name.
func Lookup(name string) (*Template, bool) {
	t, ok := registry[name]
	return t, ok
}

// Names returns all template names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns all templates sorted by name.
func All() []*Template {
	names := Names()
	out := make([]*Template, len(names))
	for i, name := range names {
		out[i] = registry[name]
	}
	return out
}

// Generate looks up a template by name and streams it to out.
func Generate(out io.Writer, name string, args []string) error {
	t, ok := Lookup(name)
	if !ok {
		return newError(ErrUnknownTemplate, name, "no such template")
	}
	return t.Generate(out, args)
}
