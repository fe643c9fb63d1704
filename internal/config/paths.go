// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"path"
	"strings"
)

// Roots are the three base directories every derived path is built from.
type Roots struct {
	Data   string `yaml:"dataRoot,omitempty" json:"dataRoot"`     // reference data and raw reads
	Output string `yaml:"outputRoot,omitempty" json:"outputRoot"` // pipeline results
	Prog   string `yaml:"progRoot,omitempty" json:"progRoot"`     // installed software
}

// DefaultRoots returns the conventional per-user layout:
// /data/{user}/, /home/{user}/data/ and /home/{user}/prog/.
func DefaultRoots(user string) Roots {
	return Roots{
		Data:   fmt.Sprintf("/data/%s/", user),
		Output: fmt.Sprintf("/home/%s/data/", user),
		Prog:   fmt.Sprintf("/home/%s/prog/", user),
	}
}

// canonical returns the roots with separators collapsed and exactly one
// trailing slash, so both spellings of a root resolve identically.
func (r Roots) canonical() Roots {
	return Roots{
		Data:   joinDir(r.Data),
		Output: joinDir(r.Output),
		Prog:   joinDir(r.Prog),
	}
}

// withFallback fills empty roots from fb.
func (r Roots) withFallback(fb Roots) Roots {
	if r.Data == "" {
		r.Data = fb.Data
	}
	if r.Output == "" {
		r.Output = fb.Output
	}
	if r.Prog == "" {
		r.Prog = fb.Prog
	}
	return r
}

func (r Roots) check() error {
	for _, f := range []struct{ name, value string }{
		{"dataRoot", r.Data},
		{"outputRoot", r.Output},
		{"progRoot", r.Prog},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &InputError{Field: f.name, Value: f.value, Message: "root alias must be set"}
		}
		if strings.ContainsRune(f.value, 0) {
			return &InputError{Field: f.name, Value: f.value, Message: "contains NUL byte"}
		}
	}
	return nil
}

// checkProject ensures the project name is a single path segment.
func checkProject(project string) error {
	switch {
	case strings.TrimSpace(project) == "":
		return &InputError{Field: "project", Value: project, Message: "must not be empty"}
	case strings.TrimSpace(project) != project:
		return &InputError{Field: "project", Value: project, Message: "must not have surrounding whitespace"}
	case project == "." || project == "..":
		return &InputError{Field: "project", Value: project, Message: "must be a directory name"}
	case strings.ContainsAny(project, "/\x00"):
		return &InputError{Field: "project", Value: project, Message: "must be a single path segment"}
	}
	return nil
}

// joinFile composes {root}/{segs...} in canonical POSIX form: separators are
// collapsed and no trailing slash is kept. Paths target the cluster running
// the pipeline, so OS-specific separators are never used.
func joinFile(root string, segs ...string) string {
	return path.Join(append([]string{root}, segs...)...)
}

// joinDir is joinFile with exactly one trailing slash.
func joinDir(root string, segs ...string) string {
	p := joinFile(root, segs...)
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// DatasetPaths are the project-scoped input and output locations.
type DatasetPaths struct {
	FastqDir            string `json:"fastqDir"`            // {data}/{project}/fastq/
	SoftFile            string `json:"softFile"`            // {data}/{project}/{project}.soft
	OutputDir           string `json:"outputDir"`           // {output}/{project}/
	AlignerOutputDir    string `json:"alignerOutputDir"`    // {output}/{project}/star/
	VariantOutputDir    string `json:"variantOutputDir"`    // {output}/{project}/snv_pipeline_results/
	ExpressionMatrixDir string `json:"expressionMatrixDir"` // {output}/{project}/expression_profile/
	FilenamePattern     string `json:"filenamePattern"`     // substring an SRX folder name must contain
}

func buildDatasetPaths(roots Roots, project, pattern string) DatasetPaths {
	return DatasetPaths{
		FastqDir:            joinDir(roots.Data, project, "fastq"),
		SoftFile:            joinFile(roots.Data, project, project+".soft"),
		OutputDir:           joinDir(roots.Output, project),
		AlignerOutputDir:    joinDir(roots.Output, project, "star"),
		VariantOutputDir:    joinDir(roots.Output, project, "snv_pipeline_results"),
		ExpressionMatrixDir: joinDir(roots.Output, project, "expression_profile"),
		FilenamePattern:     pattern,
	}
}
