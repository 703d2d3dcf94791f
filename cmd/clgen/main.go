// Command clgen generates OpenCL kernel sources and embedding headers.
//
// Usage:
//
//	clgen [options] <command> [args]
//
// Examples:
//
//	clgen list                              # List templates
//	clgen gen fast-gray                     # Kernel source to stdout
//	clgen gen -o cholesky3.cl cholesky 3    # Kernel source to a file
//	clgen embed OCL_FAST < fast.cl          # Wrap a file in a C++ header
//	clgen build kernels.hcl                 # Render a build manifest
//	clgen build -watch kernels.hcl          # ... and again on every change
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	stop()

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(os.Stderr, "clgen:", exitErr.Message)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, "clgen:", err)
	os.Exit(1)
}

// ExitError carries the exit status for errors caused by the command line.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// command is one subcommand. run receives the arguments after the
// command name.
type command struct {
	name    string
	summary string
	run     func(env *env, args []string) error
}

// env is what commands get to work with.
type env struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

var commands []command

func init() {
	commands = []command{
		{"list", "print the available templates", runList},
		{"gen", "write a kernel source", runGen},
		{"embed", "wrap stdin in an embedding header", runEmbed},
		{"build", "render the kernels of a manifest", runBuild},
		{"version", "print the version", runVersion},
	}
}
