// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"
)

// Sequencing platforms accepted by Picard read-group tagging.
var platforms = []string{
	"ILLUMINA", "SLX", "SOLEXA", "SOLID", "454", "LS454", "COMPLETE",
	"PACBIO", "IONTORRENT", "CAPILLARY", "HELICOS", "UNKNOWN",
}

// Platforms returns the accepted sequencing platform names.
func Platforms() []string {
	return cloneStringSlice(platforms)
}

// Aligner names.
const (
	AlignerSTAR    = "star"
	AlignerBismark = "bismark" // RRBS / bisulfite reads
)

// Aligners returns the accepted aligner names.
func Aligners() []string {
	return []string{AlignerSTAR, AlignerBismark}
}

// RunOptions are the run-wide values passed through to the pipeline stages.
type RunOptions struct {
	Platform         string `json:"platform"`
	IndexReadLength  int    `json:"indexReadLength"` // read length the STAR index is built for
	ReadLength       int    `json:"readLength"`      // sequencing read length, 0 when unknown
	Threads          int    `json:"threads"`         // aligner threads
	VariantJobs      int    `json:"variantJobs"`     // variant calling processes run in parallel
	JavaMemory       string `json:"javaMemory"`      // JVM heap flag, e.g. -Xmx110g
	Bisulfite        bool   `json:"bisulfite"`
	Aligner          string `json:"aligner"`
	StrictReadLength bool   `json:"strictReadLength"`
	AnnotationDB     string `json:"-"` // overrides the organism snpEff database when set
}

// DefaultRunOptions returns the stock run tuning.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Platform:        "ILLUMINA",
		IndexReadLength: 50,
		Threads:         12,
		VariantJobs:     3,
		JavaMemory:      "-Xmx110g",
		Aligner:         AlignerSTAR,
	}
}

// Resolver derives Resolved values from tool templates and run options.
// It holds no state besides its inputs and is safe for concurrent use.
type Resolver struct {
	Tools           ToolTemplates
	Run             RunOptions
	FilenamePattern string
}

// DefaultResolver returns a Resolver with the stock tool layout and tuning.
func DefaultResolver() *Resolver {
	return &Resolver{
		Tools: DefaultToolTemplates(),
		Run:   DefaultRunOptions(),
	}
}

// Resolved is the flattened configuration handed to the pipeline stages.
// Treat it as read-only: stages share one instance without locking.
type Resolved struct {
	Organism Organism     `json:"organism"`
	Project  string       `json:"project"`
	Roots    Roots        `json:"roots"`
	Profile  Profile      `json:"profile"`
	Dataset  DatasetPaths `json:"dataset"`
	Tools    ToolPaths    `json:"tools"`
	Run      RunOptions   `json:"run"`
}

// Resolve builds a Resolved with the default resolver.
func Resolve(organismKey string, roots Roots, project string) (Resolved, error) {
	return DefaultResolver().Resolve(organismKey, roots, project)
}

// Resolve looks up the organism profile and derives every path from roots
// and project. It performs no I/O and returns a zero Resolved on error.
func (r *Resolver) Resolve(organismKey string, roots Roots, project string) (Resolved, error) {
	org, err := ParseOrganism(organismKey)
	if err != nil {
		return Resolved{}, err
	}
	if err := roots.check(); err != nil {
		return Resolved{}, err
	}
	if err := checkProject(project); err != nil {
		return Resolved{}, err
	}
	roots = roots.canonical()

	profile, err := org.Profile(roots.Data)
	if err != nil {
		return Resolved{}, err
	}
	run := r.Run
	if db := strings.TrimSpace(run.AnnotationDB); db != "" {
		profile.AnnotationDB = db
	}
	run.AnnotationDB = ""

	return Resolved{
		Organism: org,
		Project:  project,
		Roots:    roots,
		Profile:  profile,
		Dataset:  buildDatasetPaths(roots, project, r.FilenamePattern),
		Tools:    r.Tools.withFallback(DefaultToolTemplates()).resolve(roots.Prog),
		Run:      run,
	}, nil
}

// Clone returns an alias-free deep copy.
func (c Resolved) Clone() Resolved {
	out := c
	out.Profile.VariantResources = cloneStringSlice(c.Profile.VariantResources)
	return out
}

func cloneStringSlice(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
