package clgen

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/clgen/header"
	"github.com/gogpu/clgen/kernels"
)

// TestGenerateFixedTemplate tests a template without arguments.
func TestGenerateFixedTemplate(t *testing.T) {
	src, err := Generate("random-int")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !bytes.HasPrefix(src, []byte("// Copyright (C) 2011  Dmitri Nikulin, Monash University\n")) {
		t.Errorf("missing license header:\n%s", firstLines(src, 3))
	}
	if !bytes.Contains(src, []byte("kernel void random_int(")) {
		t.Error("missing kernel random_int")
	}
	if !bytes.HasSuffix(bytes.TrimRight(src, "\n"), []byte("}")) || !bytes.HasSuffix(src, []byte("\n")) {
		t.Error("output does not end with the closing brace and a newline")
	}

	t.Logf("Generated %d bytes of OpenCL", len(src))
}

// TestGenerateDimension tests a template parameterized by N.
func TestGenerateDimension(t *testing.T) {
	src, err := Generate("mat-mul", "3")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !bytes.Contains(src, []byte("kernel void mat_mul_3(")) {
		t.Error("missing kernel mat_mul_3")
	}
	if got := bytes.Count(src, []byte(" = As[")); got != 9 {
		t.Errorf("A reads: got %d, want 9", got)
	}
	if got := bytes.Count(src, []byte(" = Bs[")); got != 9 {
		t.Errorf("B reads: got %d, want 9", got)
	}
}

// TestGenerateErrors tests argument validation through the top-level API.
func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		kind kernels.ErrorKind
	}{
		{"no-such-kernel", nil, kernels.ErrUnknownTemplate},
		{"cholesky", nil, kernels.ErrMissingArgument},
		{"cholesky", []string{"x"}, kernels.ErrInvalidArgument},
		{"cholesky", []string{"-2"}, kernels.ErrInvalidArgument},
		{"cholesky", []string{"2", "3"}, kernels.ErrUnexpectedArgument},
		{"fast", []string{"1"}, kernels.ErrUnexpectedArgument},
	}

	for _, tt := range tests {
		_, err := GenerateWithOptions(tt.name, tt.args, DefaultOptions())
		var kerr *kernels.Error
		if !errors.As(err, &kerr) {
			t.Errorf("%s %v: expected *kernels.Error, got %v", tt.name, tt.args, err)
			continue
		}
		if kerr.Kind != tt.kind {
			t.Errorf("%s %v: kind %v, want %v", tt.name, tt.args, kerr.Kind, tt.kind)
		}
	}
}

// TestGenerateEmbed tests header output.
func TestGenerateEmbed(t *testing.T) {
	src, err := Generate("se3-exp")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	hh, err := GenerateWithOptions("se3-exp", nil, Options{Embed: true})
	if err != nil {
		t.Fatalf("GenerateWithOptions failed: %v", err)
	}
	name, data, err := header.Decode(hh)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if name != "OCL_SE3_EXP" {
		t.Errorf("symbol: got %q, want OCL_SE3_EXP", name)
	}
	if !bytes.Equal(data, src) {
		t.Error("embedded bytes differ from generated source")
	}

	_, err = GenerateWithOptions("se3-exp", nil, Options{Embed: true, Symbol: "bad symbol"})
	if !errors.Is(err, header.ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
}

// TestTemplates tests the template listing.
func TestTemplates(t *testing.T) {
	all := Templates()
	if len(all) != 25 {
		t.Fatalf("got %d templates, want 25", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Errorf("templates not sorted: %q before %q", all[i-1].Name, all[i].Name)
		}
	}
}

func firstLines(b []byte, n int) string {
	lines := strings.SplitN(string(b), "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
