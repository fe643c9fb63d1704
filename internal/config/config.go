// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"
)

// Settings is the operator-facing configuration surface (YAML file and SNV_* env).
type Settings struct {
	Project    string             `yaml:"project"`            // root segment of every project path
	Organism   string             `yaml:"organism"`           // HUMAN or MOUSE
	User       string             `yaml:"user,omitempty"`     // fills unset roots via DefaultRoots
	LogLevel   string             `yaml:"logLevel,omitempty"` // debug, info, warn, error
	Roots      Roots              `yaml:"roots,omitempty"`
	Sequencing SequencingSettings `yaml:"sequencing"`
	Aligner    AlignerSettings    `yaml:"aligner"`
	Variants   VariantSettings    `yaml:"variants"`
	Annotation AnnotationSettings `yaml:"annotation,omitempty"`
	Dataset    DatasetSettings    `yaml:"dataset,omitempty"`
	Tools      ToolTemplates      `yaml:"tools,omitempty"`
}

// SequencingSettings describe the reads of the dataset.
type SequencingSettings struct {
	Platform   string `yaml:"platform"`             // Picard read-group platform
	ReadLength int    `yaml:"readLength,omitempty"` // 0 when unknown
	Bisulfite  bool   `yaml:"bisulfite,omitempty"`  // RRBS reads: bismark + BS-Snper downstream
}

// AlignerSettings configure read alignment.
type AlignerSettings struct {
	Name            string `yaml:"name"`
	IndexReadLength int    `yaml:"indexReadLength"`
	Threads         int    `yaml:"threads"`
}

// VariantSettings configure SNV calling.
type VariantSettings struct {
	ParallelJobs     int    `yaml:"parallelJobs"`
	JavaMemory       string `yaml:"javaMemory"`
	StrictReadLength bool   `yaml:"strictReadLength,omitempty"`
}

// AnnotationSettings configure VCF annotation.
type AnnotationSettings struct {
	Database string `yaml:"database,omitempty"` // empty: organism default
}

// DatasetSettings configure input discovery.
type DatasetSettings struct {
	FilenamePattern string `yaml:"filenamePattern,omitempty"`
}

// EffectiveRoots returns Roots with unset entries filled from the user layout.
func (s Settings) EffectiveRoots() Roots {
	if strings.TrimSpace(s.User) == "" {
		return s.Roots
	}
	return s.Roots.withFallback(DefaultRoots(strings.TrimSpace(s.User)))
}

// Resolver builds the resolver described by these settings.
func (s Settings) Resolver() *Resolver {
	return &Resolver{
		Tools: s.Tools,
		Run: RunOptions{
			Platform:         s.Sequencing.Platform,
			IndexReadLength:  s.Aligner.IndexReadLength,
			ReadLength:       s.Sequencing.ReadLength,
			Threads:          s.Aligner.Threads,
			VariantJobs:      s.Variants.ParallelJobs,
			JavaMemory:       s.Variants.JavaMemory,
			Bisulfite:        s.Sequencing.Bisulfite,
			Aligner:          s.Aligner.Name,
			StrictReadLength: s.Variants.StrictReadLength,
			AnnotationDB:     s.Annotation.Database,
		},
		FilenamePattern: s.Dataset.FilenamePattern,
	}
}

// Resolve resolves these settings. See Resolver.Resolve.
func (s Settings) Resolve() (Resolved, error) {
	return s.Resolver().Resolve(s.Organism, s.EffectiveRoots(), s.Project)
}
