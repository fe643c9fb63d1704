// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/snvconf/internal/config"
	"github.com/ManuGH/snvconf/internal/testutil"
	"github.com/ManuGH/snvconf/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Unset all SNV vars to ensure clean test environment
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "SNV_") {
			_ = os.Unsetenv(strings.SplitN(e, "=", 2)[0])
		}
	}
	os.Exit(m.Run())
}

const validSettings = `project: proj
organism: HUMAN
user: u
`

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantExit   int
		wantStdout string
		wantStderr string
	}{
		{name: "no command", args: nil, wantExit: exitUsage, wantStderr: "Usage:"},
		{name: "unknown command", args: []string{"frobnicate"}, wantExit: exitUsage, wantStderr: "unknown command"},
		{name: "version", args: []string{"-version"}, wantExit: exitOK, wantStdout: version.Version},
		{name: "help", args: []string{"help"}, wantExit: exitOK, wantStdout: "snvconf validate"},
		{name: "validate without file", args: []string{"validate"}, wantExit: exitUsage, wantStderr: "--file is required"},
		{name: "init without file", args: []string{"init"}, wantExit: exitUsage, wantStderr: "-f is required"},
		{name: "watch without file", args: []string{"watch"}, wantExit: exitUsage, wantStderr: "-f is required"},
		{name: "bad flag", args: []string{"resolve", "-nope"}, wantExit: exitUsage},
		{name: "bad output format", args: []string{"resolve", "-o", "xml"}, wantExit: exitUsage, wantStderr: "unknown output format"},
		{name: "stray argument", args: []string{"resolve", "extra"}, wantExit: exitUsage, wantStderr: "unexpected arguments"},
		{name: "resolve help", args: []string{"resolve", "-h"}, wantExit: exitOK, wantStderr: "log level (debug, info, warn, error)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(tt.args...)
			assert.Equal(t, tt.wantExit, code, "stderr: %s", stderr)
			if tt.wantStdout != "" {
				assert.Contains(t, stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr, tt.wantStderr)
			}
		})
	}
}

func TestResolve_Fields(t *testing.T) {
	path := testutil.WriteSettings(t, t.TempDir(), "settings.yaml", validSettings)

	code, stdout, stderr := runCLI("resolve", "-f", path, "-o", "fields")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "dataset.fastqDir=/data/u/proj/fastq/\n")
	assert.Contains(t, stdout, "profile.referenceGenome=/data/u/Illumina_hg19/Sequences/WholeGenomeFasta/genome.fa\n")
}

func TestResolve_JSON(t *testing.T) {
	path := testutil.WriteSettings(t, t.TempDir(), "settings.yaml", validSettings)

	code, stdout, stderr := runCLI("resolve", "-f", path)
	require.Equal(t, exitOK, code, stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "HUMAN", got["organism"])
	assert.Equal(t, "proj", got["project"])
	profile, ok := got["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "GRCh37.75", profile["annotationDb"])
}

func TestResolve_EnvOnly(t *testing.T) {
	t.Setenv("SNV_PROJECT", "envproj")
	t.Setenv("SNV_ORGANISM", "mouse")
	t.Setenv("SNV_USER", "bob")

	code, stdout, stderr := runCLI("resolve", "-o", "fields")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "organism=MOUSE\n")
	assert.Contains(t, stdout, "dataset.outputDir=/home/bob/data/envproj/\n")
}

func TestResolve_UnsupportedOrganism(t *testing.T) {
	path := testutil.WriteSettings(t, t.TempDir(), "settings.yaml", "project: proj\norganism: RAT\nuser: u\n")

	code, stdout, stderr := runCLI("resolve", "-f", path)
	assert.Equal(t, exitInvalid, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "unsupported organism")
}

func TestResolve_NoValidate(t *testing.T) {
	path := testutil.WriteSettings(t, t.TempDir(), "settings.yaml", validSettings+"variants:\n  javaMemory: 110g\n")

	code, stdout, stderr := runCLI("resolve", "-f", path, "-o", "fields")
	assert.Equal(t, exitInvalid, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "run.javaMemory [memory_limit]")

	code, stdout, stderr = runCLI("resolve", "-f", path, "-o", "fields", "-no-validate")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "run.javaMemory=110g\n")
	assert.Contains(t, stdout, "roots.dataRoot=/data/u/\n")
}

func TestResolve_WarningAndMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSettings(t, dir, "settings.yaml", validSettings+"sequencing:\n  readLength: 36\n")
	textfile := filepath.Join(dir, "snvconf.prom")

	code, _, stderr := runCLI("resolve", "-f", path, "-metrics-textfile", textfile)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stderr, "warning: run.indexReadLength [read_length]")

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "snvconf_resolve_total")
	assert.Contains(t, string(data), `snvconf_validation_warnings_total{reason="read_length"}`)
}

func TestValidate_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	good := testutil.WriteSettings(t, dir, "good.yaml", validSettings)
	bad := testutil.WriteSettings(t, dir, "bad.yaml", validSettings+"aligner:\n  threads: 0\n")
	unknown := testutil.WriteSettings(t, dir, "unknown.yaml", validSettings+"threads: 4\n")

	code, stdout, stderr := runCLI("validate", "-f", good, "-f", bad, "--file", unknown)
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stdout, "✓ "+good+" is valid")
	assert.Contains(t, stderr, "Validation error in "+bad)
	assert.Contains(t, stderr, "run.threads [thread_count]")
	assert.Contains(t, stderr, "Configuration error in "+unknown)
	assert.NotContains(t, stdout, bad)
}

func TestValidate_AllValid(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteSettings(t, dir, "a.yaml", validSettings)
	b := testutil.WriteSettings(t, dir, "b.yml", "project: other\norganism: MOUSE\nuser: u\n")

	code, stdout, stderr := runCLI("validate", "-f", a, "-f", b)
	assert.Equal(t, exitOK, code, stderr)
	assert.Equal(t, 2, strings.Count(stdout, "is valid"))
}

func TestValidate_MissingFile(t *testing.T) {
	code, _, stderr := runCLI("validate", "-f", filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stderr, "Configuration error")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "settings.yaml")

	code, stdout, stderr := runCLI("init", "-f", path, "-project", "proj", "-organism", "mouse", "-user", "u")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "wrote "+path)

	s, err := config.LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "MOUSE", s.Organism)
	assert.Equal(t, "proj", s.Project)

	code, _, stderr = runCLI("init", "-f", path)
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stderr, "already exists")

	code, _, stderr = runCLI("init", "-f", path, "-project", "proj2", "-user", "u", "-force")
	assert.Equal(t, exitOK, code, stderr)

	code, _, stderr = runCLI("validate", "-f", path)
	assert.Equal(t, exitOK, code, stderr)
}

func TestInit_UnsupportedOrganism(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	code, _, stderr := runCLI("init", "-f", path, "-organism", "rat")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stderr, "unsupported organism")
	assert.NoFileExists(t, path)
}

func TestWatchLoop_PrintsChangedFields(t *testing.T) {
	base, err := config.Resolve("HUMAN", config.DefaultRoots("u"), "proj")
	require.NoError(t, err)
	next := base.Clone()
	next.Run.Threads = 4

	updates := make(chan config.Resolved, 1)
	updates <- next

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	reloads := 0
	code := watchLoop(ctx, &out, updates, base, func() { reloads++ })

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "run.threads=4\n", out.String())
	assert.Equal(t, 1, reloads)
}
