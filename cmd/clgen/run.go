package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/clgen/build"
	"github.com/gogpu/clgen/header"
	"github.com/gogpu/clgen/internal/ctxlog"
	"github.com/gogpu/clgen/kernels"
	"github.com/gogpu/clgen/manifest"
)

const clgenVersion = "0.1.0-dev"

// run parses the global flags and dispatches to a command.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("clgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn or error")
	logFormat := fs.String("log-format", "text", "log format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: clgen [options] <command> [args]\n\nCommands:\n")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-8s %s\n", c.name, c.summary)
		}
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2}
	}

	level := strings.ToLower(*logLevel)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return usageError("invalid -log-level %q: must be debug, info, warn or error", *logLevel)
	}
	format := strings.ToLower(*logFormat)
	if format != "text" && format != "json" {
		return usageError("invalid -log-format %q: must be text or json", *logFormat)
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return &ExitError{Code: 2}
	}

	logger := ctxlog.New(level, format, stderr)
	e := &env{
		ctx:    ctxlog.WithLogger(ctx, logger),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}

	name := fs.Arg(0)
	for _, c := range commands {
		if c.name == name {
			return classify(c.run(e, fs.Args()[1:]))
		}
	}
	return usageError("unknown command %q", name)
}

// classify maps errors caused by the command line to exit status 2.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	var kerr *kernels.Error
	if errors.As(err, &kerr) && kerr.IsArgument() {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if errors.Is(err, header.ErrInvalidName) {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return err
}

// newFlagSet returns a flag set for a command. Parse errors are already
// reported by the flag set, so they map to a bare exit status.
func newFlagSet(e *env, name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet("clgen "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: clgen %s %s\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return &ExitError{Code: 0}
		}
		return &ExitError{Code: 2}
	}
	return nil
}

func runList(e *env, args []string) error {
	if len(args) > 0 {
		return usageError("list takes no arguments")
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TEMPLATE\tLANG\tENTRY POINT\tSUMMARY")
	for _, t := range kernels.All() {
		entry := "-"
		if t.Lang == kernels.OpenCL {
			entry = t.EntryPattern()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Usage(), t.Lang, entry, t.Summary)
	}
	return tw.Flush()
}

func runGen(e *env, args []string) error {
	fs := newFlagSet(e, "gen", "[-o FILE] NAME [N]")
	out := fs.String("o", "", "output file (default: stdout)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return usageError("gen: missing template name")
	}

	name, targs := fs.Arg(0), fs.Args()[1:]
	t, ok := kernels.Lookup(name)
	if !ok {
		return usageError("gen: unknown template %q (see clgen list)", name)
	}
	// Validate before touching the output file.
	if _, err := t.Args(targs); err != nil {
		return err
	}

	if *out == "" {
		return t.Generate(e.stdout, targs)
	}
	size, err := build.WriteFile(*out, func(w io.Writer) error {
		return t.Generate(w, targs)
	})
	if err != nil {
		return err
	}
	e.logger.Info("Wrote kernel", "template", name, "path", *out, "bytes", size)
	return nil
}

func runEmbed(e *env, args []string) error {
	fs := newFlagSet(e, "embed", "[-o FILE] SYMBOL < SOURCE")
	out := fs.String("o", "", "output file (default: stdout)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return usageError("embed: expected exactly one symbol")
	}

	symbol := fs.Arg(0)
	if err := header.ValidName(symbol); err != nil {
		return err
	}
	data, err := io.ReadAll(e.stdin)
	if err != nil {
		return fmt.Errorf("embed: read stdin: %w", err)
	}

	if *out == "" {
		return header.Write(e.stdout, symbol, data)
	}
	_, err = build.WriteFile(*out, func(w io.Writer) error {
		return header.Write(w, symbol, data)
	})
	return err
}

func runBuild(e *env, args []string) error {
	fs := newFlagSet(e, "build", "[-j N] [-watch] MANIFEST")
	jobs := fs.Int("j", 0, "kernels to render concurrently (default: number of CPUs)")
	watch := fs.Bool("watch", false, "rebuild whenever the manifest changes")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return usageError("build: expected exactly one manifest")
	}
	path := fs.Arg(0)
	opts := build.Options{Jobs: *jobs}

	if *watch {
		return build.Watch(e.ctx, path, opts, func(res *build.Result, err error) {
			if err != nil {
				fmt.Fprintln(e.stderr, "clgen:", err)
				return
			}
			printResult(e.stdout, res)
		})
	}

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	res, err := build.Run(e.ctx, m, opts)
	if err != nil {
		return err
	}
	printResult(e.stdout, res)
	return nil
}

func printResult(w io.Writer, res *build.Result) {
	for _, f := range res.Files {
		fmt.Fprintf(w, "%s: %s (%d bytes)\n", f.Kernel, f.Path, f.Size)
	}
}

func runVersion(e *env, args []string) error {
	if len(args) > 0 {
		return usageError("version takes no arguments")
	}
	v := clgenVersion
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	fmt.Fprintf(e.stdout, "clgen version %s\n", v)
	return nil
}
