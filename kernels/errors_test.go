// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrUnknownTemplate, "UnknownTemplate"},
		{ErrMissingArgument, "MissingArgument"},
		{ErrInvalidArgument, "InvalidArgument"},
		{ErrUnexpectedArgument, "UnexpectedArgument"},
		{ErrWrite, "Write"},
		{ErrorKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.kind.String()
			if got != tt.want {
				t.Errorf("ErrorKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	// Error without template
	err1 := &Error{
		Kind:    ErrInvalidArgument,
		Message: "dimension 0 is not positive",
	}
	if got := err1.Error(); got != "kernels InvalidArgument: dimension 0 is not positive" {
		t.Errorf("Error() = %q", got)
	}

	// Error with template and cause
	err2 := &Error{
		Kind:     ErrWrite,
		Template: "fast",
		Message:  "write output",
		Err:      fs.ErrClosed,
	}
	got2 := err2.Error()
	if !strings.Contains(got2, `"fast"`) {
		t.Errorf("Error() should contain template, got %q", got2)
	}
	if !strings.HasSuffix(got2, ": "+fs.ErrClosed.Error()) {
		t.Errorf("Error() should end with cause, got %q", got2)
	}
}

func TestError_Unwrap(t *testing.T) {
	err := error(&Error{Kind: ErrWrite, Message: "write output", Err: fs.ErrClosed})

	if !errors.Is(err, fs.ErrClosed) {
		t.Error("errors.Is should find the cause")
	}
	var kerr *Error
	if !errors.As(err, &kerr) || kerr.Kind != ErrWrite {
		t.Errorf("errors.As failed: %v", err)
	}
}

func TestNewError(t *testing.T) {
	err := newError(ErrUnexpectedArgument, "fast", "takes no arguments, got %d", 2)

	if err.Kind != ErrUnexpectedArgument {
		t.Errorf("Kind = %v, want ErrUnexpectedArgument", err.Kind)
	}
	if err.Template != "fast" {
		t.Errorf("Template = %q, want \"fast\"", err.Template)
	}
	if err.Message != "takes no arguments, got 2" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Err != nil {
		t.Error("Err should be nil")
	}
}

func TestError_IsArgument(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want bool
	}{
		{ErrUnknownTemplate, true},
		{ErrMissingArgument, true},
		{ErrInvalidArgument, true},
		{ErrUnexpectedArgument, true},
		{ErrWrite, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := &Error{Kind: tt.kind}
			if got := err.IsArgument(); got != tt.want {
				t.Errorf("IsArgument() = %v, want %v", got, tt.want)
			}
		})
	}
}
