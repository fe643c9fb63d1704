// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// snvconf resolves, validates and scaffolds settings of the SNV calling pipeline.
//
// Usage:
//
//	snvconf resolve  [-f settings.yaml] [-o json|fields] [-no-validate]
//	snvconf validate -f a.yaml [-f b.yaml ...]
//	snvconf init     -f settings.yaml [-project P] [-organism HUMAN] [-user U] [-force]
//	snvconf watch    -f settings.yaml
//
// Exit codes:
//   - 0: Success
//   - 1: Settings are invalid (parse, resolve or validation error)
//   - 2: Usage error
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ManuGH/snvconf/internal/log"
	"github.com/ManuGH/snvconf/internal/metrics"
	"github.com/ManuGH/snvconf/internal/validate"
	"github.com/ManuGH/snvconf/internal/version"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "resolve":
		return cmdResolve(args[1:], stdout, stderr)
	case "validate":
		return cmdValidate(args[1:], stdout, stderr)
	case "init":
		return cmdInit(args[1:], stdout, stderr)
	case "watch":
		return cmdWatch(args[1:], stdout, stderr)
	case "version", "-version", "--version":
		fmt.Fprintln(stdout, version.String())
		return exitOK
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", args[0])
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  snvconf resolve  [-f settings.yaml] [-o json|fields] [-no-validate]")
	fmt.Fprintln(w, "  snvconf validate -f a.yaml [-f b.yaml ...]")
	fmt.Fprintln(w, "  snvconf init     -f settings.yaml [-project P] [-organism HUMAN] [-user U] [-force]")
	fmt.Fprintln(w, "  snvconf watch    -f settings.yaml")
	fmt.Fprintln(w, "  snvconf version")
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	logLevel        string
	metricsTextfile string
}

func newFlagSet(name string, stderr io.Writer, common *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&common.logLevel, "log-level", "", "log level ("+logLevelNames()+")")
	fs.StringVar(&common.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	return fs
}

func logLevelNames() string {
	levels := validate.LogLevels()
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.String()
	}
	return strings.Join(names, ", ")
}

// parseFlags returns the exit code to use when parsing stops the command.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}
		return exitUsage, false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "Error: unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return exitUsage, false
	}
	return 0, true
}

// startRun configures logging and returns a context carrying a fresh run ID.
func startRun(common commonFlags, stderr io.Writer, command string) (context.Context, zerolog.Logger) {
	log.Configure(log.Config{Level: common.logLevel, Output: zerolog.SyncWriter(stderr)})
	ctx := log.ContextWithRunID(context.Background(), uuid.NewString())
	logger := log.WithComponentFromContext(ctx, "cli").With().
		Str("command", command).
		Str("version", version.Version).
		Logger()
	return ctx, logger
}

func flushMetrics(common commonFlags, logger zerolog.Logger) {
	if common.metricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(common.metricsTextfile); err != nil {
		logger.Error().Err(err).Str(log.FieldPath, common.metricsTextfile).Msg("failed to write metrics textfile")
	}
}

// fileList collects repeated -f flags.
type fileList []string

func (f *fileList) String() string {
	return strings.Join(*f, ",")
}

func (f *fileList) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("empty file path")
	}
	*f = append(*f, v)
	return nil
}
