// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config resolves the settings consumed by the SNV calling pipeline.
//
// A run is described by Settings (YAML file, SNV_* environment, registry
// defaults). Resolve turns the organism key, the three root aliases and the
// project name into a Resolved value: every reference, dataset and tool path
// the pipeline stages read. Resolve never touches the file system; Validate
// checks the values separately so a configuration can be inspected without
// failing.
//
// A Resolved value is never mutated after Resolve returns it. Long-running
// consumers that follow file changes use Holder, which swaps whole instances.
package config
