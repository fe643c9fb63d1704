// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ManuGH/snvconf/internal/config"
	"github.com/ManuGH/snvconf/internal/log"
	"github.com/ManuGH/snvconf/internal/metrics"
	"github.com/ManuGH/snvconf/internal/validate"
	"golang.org/x/sync/errgroup"
)

func cmdResolve(args []string, stdout, stderr io.Writer) int {
	var common commonFlags
	var file, output string
	var noValidate bool
	fs := newFlagSet("resolve", stderr, &common)
	fs.StringVar(&file, "f", "", "path to YAML settings file (optional; SNV_* env applies either way)")
	fs.StringVar(&output, "o", "json", "output format: json or fields")
	fs.BoolVar(&noValidate, "no-validate", false, "print the resolved settings without validating them")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if output != "json" && output != "fields" {
		fmt.Fprintf(stderr, "Error: unknown output format %q\n", output)
		return exitUsage
	}

	_, logger := startRun(common, stderr, "resolve")
	defer flushMetrics(common, logger)

	settings, err := config.NewLoader(file).Load()
	if err != nil {
		fmt.Fprintln(stderr, "Configuration error:")
		fmt.Fprintf(stderr, "  %v\n", err)
		return exitInvalid
	}

	var cfg config.Resolved
	if noValidate {
		cfg, err = settings.Resolve()
		metrics.RecordResolve(err == nil)
	} else {
		var report config.Report
		cfg, report, err = config.Evaluate(settings)
		printWarnings(stderr, report)
	}
	if err != nil {
		printEvaluateError(stderr, file, err)
		return exitInvalid
	}

	metrics.SetConfigInfo(cfg.Organism.String(), cfg.Run.Aligner)
	logger.Info().
		Str(log.FieldOrganism, cfg.Organism.String()).
		Str(log.FieldProject, cfg.Project).
		Msg("settings resolved")

	if err := writeResolved(stdout, cfg, output); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}
	return exitOK
}

func writeResolved(w io.Writer, cfg config.Resolved, output string) error {
	if output == "fields" {
		fields := cfg.Fields()
		for _, name := range cfg.FieldNames() {
			if _, err := fmt.Fprintf(w, "%s=%s\n", name, fields[name]); err != nil {
				return err
			}
		}
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

type fileResult struct {
	file   string
	report config.Report
	err    error
	load   bool // err happened while loading
}

func cmdValidate(args []string, stdout, stderr io.Writer) int {
	var common commonFlags
	var files fileList
	fs := newFlagSet("validate", stderr, &common)
	fs.Var(&files, "f", "path to YAML settings file (repeatable)")
	fs.Var(&files, "file", "path to YAML settings file (repeatable)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if len(files) == 0 {
		fmt.Fprintln(stderr, "Error: --file is required")
		fmt.Fprintln(stderr, "")
		usage(stderr)
		return exitUsage
	}

	_, logger := startRun(common, stderr, "validate")
	defer flushMetrics(common, logger)

	results := make([]fileResult, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			results[i] = validateFile(file)
			return nil
		})
	}
	_ = g.Wait()

	code := exitOK
	for _, r := range results {
		printWarnings(stderr, r.report)
		switch {
		case r.err == nil:
			fmt.Fprintf(stdout, "✓ %s is valid\n", r.file)
		case r.load:
			fmt.Fprintf(stderr, "Configuration error in %s:\n", r.file)
			fmt.Fprintf(stderr, "  %v\n", r.err)
			code = exitInvalid
		default:
			printEvaluateError(stderr, r.file, r.err)
			code = exitInvalid
		}
	}
	logger.Info().Int("files", len(files)).Int("exit_code", code).Msg("validation finished")
	return code
}

func validateFile(file string) fileResult {
	// Load configuration (uses strict YAML parsing)
	settings, err := config.NewLoader(file).Load()
	if err != nil {
		return fileResult{file: file, err: err, load: true}
	}
	_, report, err := config.Evaluate(settings)
	return fileResult{file: file, report: report, err: err}
}

func printEvaluateError(stderr io.Writer, file string, err error) {
	where := ""
	if file != "" {
		where = " in " + file
	}
	var verr validate.ValidationError
	if !errors.As(err, &verr) {
		fmt.Fprintf(stderr, "Configuration error%s:\n", where)
		fmt.Fprintf(stderr, "  %v\n", err)
		return
	}
	fmt.Fprintf(stderr, "Validation error%s:\n", where)
	for _, e := range verr.Errors() {
		fmt.Fprintf(stderr, "  %s [%s]: %s\n", e.Field, config.ReasonLabel(e.Reason), e.Message)
	}
}

func printWarnings(stderr io.Writer, report config.Report) {
	for _, w := range report.Warnings {
		fmt.Fprintf(stderr, "warning: %s [%s]: %s\n", w.Field, config.ReasonLabel(w.Reason), w.Message)
	}
}

func cmdInit(args []string, stdout, stderr io.Writer) int {
	var common commonFlags
	var file, project, organism, user string
	var force bool
	fs := newFlagSet("init", stderr, &common)
	fs.StringVar(&file, "f", "", "path of the settings file to write")
	fs.StringVar(&project, "project", "", "project name")
	fs.StringVar(&organism, "organism", "", "organism (HUMAN or MOUSE)")
	fs.StringVar(&user, "user", "", "user name for the default root layout")
	fs.BoolVar(&force, "force", false, "overwrite an existing file")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if file == "" {
		fmt.Fprintln(stderr, "Error: -f is required")
		return exitUsage
	}

	_, logger := startRun(common, stderr, "init")
	defer flushMetrics(common, logger)

	if _, err := os.Stat(file); err == nil && !force {
		fmt.Fprintf(stderr, "Error: %s already exists (use -force to overwrite)\n", file)
		return exitInvalid
	}

	settings, err := config.DefaultSettings()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}
	settings.Project = project
	settings.User = user
	if organism != "" {
		org, err := config.ParseOrganism(organism)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitInvalid
		}
		settings.Organism = org.String()
	}

	if err := config.NewManager(file).Save(settings); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}
	logger.Info().Str(log.FieldPath, file).Msg("settings file written")
	fmt.Fprintf(stdout, "wrote %s\n", file)
	return exitOK
}

func cmdWatch(args []string, stdout, stderr io.Writer) int {
	var common commonFlags
	var file string
	fs := newFlagSet("watch", stderr, &common)
	fs.StringVar(&file, "f", "", "path to YAML settings file")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if file == "" {
		fmt.Fprintln(stderr, "Error: -f is required")
		return exitUsage
	}

	ctx, logger := startRun(common, stderr, "watch")
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(file)
	settings, err := loader.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n", file)
		fmt.Fprintf(stderr, "  %v\n", err)
		return exitInvalid
	}
	initial, report, err := config.Evaluate(settings)
	printWarnings(stderr, report)
	if err != nil {
		printEvaluateError(stderr, file, err)
		return exitInvalid
	}

	metrics.SetConfigInfo(initial.Organism.String(), initial.Run.Aligner)
	holder := config.NewHolder(initial, loader)
	updates := make(chan config.Resolved, 1)
	holder.RegisterListener(updates)
	if err := holder.StartWatcher(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}
	defer holder.Stop()

	flushMetrics(common, logger)
	if err := writeResolved(stdout, initial, "fields"); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}
	return watchLoop(ctx, stdout, updates, initial, func() { flushMetrics(common, logger) })
}

// watchLoop prints the fields that changed on every reload until ctx ends.
func watchLoop(ctx context.Context, stdout io.Writer, updates <-chan config.Resolved, last config.Resolved, onReload func()) int {
	for {
		select {
		case <-ctx.Done():
			return exitOK
		case next := <-updates:
			summary := config.Diff(last, next)
			fields := next.Fields()
			for _, name := range summary.ChangedFields {
				fmt.Fprintf(stdout, "%s=%s\n", name, fields[name])
			}
			if summary.RestartRequired {
				fmt.Fprintln(stdout, "# restart required")
			}
			last = next
			if onReload != nil {
				onReload()
			}
		}
	}
}
