// Command draft4cover checks JSON Schema draft-4 assertion suites against the
// reference engine and measures how much of a set of target schemas they cover.
//
// Usage:
//
//	draft4cover check    --schema DIR --suite DIR [flags]
//	draft4cover coverage --schema DIR --suite DIR [--target DIR] [flags]
//
// Exit codes: 0 on success, 1 when an assertion fails or an input cannot be
// loaded or evaluated, 2 on usage errors.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/openbindings/draft4cover"
	"github.com/openbindings/draft4cover/conformance"
	"github.com/openbindings/draft4cover/coverage"
	"github.com/openbindings/draft4cover/internal/config"
	"github.com/openbindings/draft4cover/internal/logging"
	"github.com/openbindings/draft4cover/loader"
	"github.com/openbindings/draft4cover/registry"
	"github.com/openbindings/draft4cover/report"
	"github.com/openbindings/draft4cover/validator"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: draft4cover <check|coverage> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  check     run suites against the reference engine and report failed assertions")
	fmt.Fprintln(w, "  coverage  run suites and report keyword coverage of the target schemas")
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "check", "coverage":
	case "-h", "--help", "help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return exitUsage
	}

	fs := pflag.NewFlagSet("draft4cover "+cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return exitUsage
	}
	cfg, err := config.FromFlags(fs)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}
	logger, _, err := logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}

	switch cmd {
	case "check":
		return check(cfg, logger, stdout, stderr)
	default:
		return measure(cfg, logger, stdout, stderr)
	}
}

func check(cfg config.Config, logger *slog.Logger, stdout, stderr io.Writer) int {
	schemas, err := loader.LoadSchemas(cfg.Schemas)
	if err != nil {
		return fail(stderr, logger, err)
	}
	warnDrafts(logger, schemas)
	files, err := loader.LoadSuiteFiles(cfg.Suites, cfg.SuiteOptions()...)
	if err != nil {
		return fail(stderr, logger, err)
	}

	reg := registry.New()
	for _, s := range schemas {
		if s.ID() == "" {
			continue
		}
		if err := reg.Add(s.ID(), s); err != nil {
			return fail(stderr, logger, err)
		}
	}
	eng := validator.New(reg, validator.WithLogger(logger), validator.WithMaxDepth(cfg.MaxDepth))

	var total, failed int
	for _, f := range files {
		logger.Debug("running suite file", "path", f.Path, "suites", len(f.Suites))
		out, err := conformance.Run(eng, reg, f.Suites, conformance.WithLogger(logger))
		if err != nil {
			return fail(stderr, logger, fmt.Errorf("%s: %w", f.Path, err))
		}
		for _, a := range out.Failures() {
			fmt.Fprintf(stdout, "  [FAIL] %s %q %q\n", f.Path, a.Suite, a.Case)
		}
		total += out.Total
		failed += out.Failed
	}
	fmt.Fprintf(stdout, "%d/%d failed\n", failed, total)
	if failed > 0 {
		return exitFail
	}
	return exitOK
}

func measure(cfg config.Config, logger *slog.Logger, stdout, stderr io.Writer) int {
	schemas, err := loader.LoadSchemas(cfg.Schemas)
	if err != nil {
		return fail(stderr, logger, err)
	}
	warnDrafts(logger, schemas)
	suites, err := loader.LoadSuites(cfg.Suites, cfg.SuiteOptions()...)
	if err != nil {
		return fail(stderr, logger, err)
	}
	targets, err := loader.LoadSchemas(cfg.TargetPaths())
	if err != nil {
		return fail(stderr, logger, err)
	}

	var failed int
	rs, err := coverage.Measure(schemas, suites, targets,
		coverage.WithLogger(logger),
		coverage.WithEngineOptions(validator.WithMaxDepth(cfg.MaxDepth)),
		coverage.WithAssertionHook(func(a conformance.Assertion) {
			if !a.Passed() {
				failed++
				fmt.Fprintf(stderr, "  [FAIL] %q %q\n", a.Suite, a.Case)
			}
		}),
	)
	if err != nil {
		return fail(stderr, logger, err)
	}

	switch cfg.Format {
	case "json":
		err = report.JSON(stdout, rs)
	default:
		err = report.Text(stdout, rs)
		if err == nil && cfg.Detail {
			fmt.Fprintln(stdout)
			err = report.Detail(stdout, rs)
		}
	}
	if err != nil {
		return fail(stderr, logger, err)
	}
	if failed > 0 {
		return exitFail
	}
	return exitOK
}

// warnDrafts flags schemas declaring a meta-schema other than draft-4; they are
// still evaluated with draft-4 semantics.
func warnDrafts(logger *slog.Logger, schemas []draft4cover.Schema) {
	for _, s := range schemas {
		if uri, ok := draft4cover.DraftOf(s); ok && !draft4cover.IsDraft4(uri) {
			logger.Warn("schema declares another draft", "id", s.ID(), "$schema", uri)
		}
	}
}

func fail(stderr io.Writer, logger *slog.Logger, err error) int {
	var malformed *draft4cover.MalformedInputError
	if errors.As(err, &malformed) {
		logger.Error("malformed input", "path", malformed.Path, "error", malformed.Err)
	} else {
		logger.Error("run aborted", "error", err)
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return exitFail
}
