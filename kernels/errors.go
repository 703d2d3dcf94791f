// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import "fmt"

// ErrorKind categorizes template errors.
type ErrorKind uint8

const (
	// ErrUnknownTemplate indicates no template is registered under the name.
	ErrUnknownTemplate ErrorKind = iota

	// ErrMissingArgument indicates a required positional argument was not given.
	ErrMissingArgument

	// ErrInvalidArgument indicates an argument is not a positive integer.
	ErrInvalidArgument

	// ErrUnexpectedArgument indicates more arguments than the template takes.
	ErrUnexpectedArgument

	// ErrWrite indicates the output writer failed.
	ErrWrite
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownTemplate:
		return "UnknownTemplate"
	case ErrMissingArgument:
		return "MissingArgument"
	case ErrInvalidArgument:
		return "InvalidArgument"
	case ErrUnexpectedArgument:
		return "UnexpectedArgument"
	case ErrWrite:
		return "Write"
	default:
		return "Unknown"
	}
}

// Error represents a template failure.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Template is the template name, if known.
	Template string

	// Message provides details about the error.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Template != "" {
		return fmt.Sprintf("kernels %s %q: %s", e.Kind, e.Template, msg)
	}
	return fmt.Sprintf("kernels %s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsArgument reports whether the error was caused by the command-line
// arguments rather than by I/O.
func (e *Error) IsArgument() bool {
	switch e.Kind {
	case ErrMissingArgument, ErrInvalidArgument, ErrUnexpectedArgument, ErrUnknownTemplate:
		return true
	default:
		return false
	}
}

func newError(kind ErrorKind, template, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Template: template,
		Message:  fmt.Sprintf(format, args...),
	}
}
