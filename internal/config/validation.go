// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ManuGH/snvconf/internal/validate"
)

// javaMemoryPattern matches a JVM max-heap flag with a mandatory unit.
var javaMemoryPattern = regexp.MustCompile(`^-Xmx[1-9][0-9]*[kKmMgGtT]$`)

// Report carries advisory findings of a successful or failed validation.
type Report struct {
	Warnings []validate.Error
}

// HasWarnings reports whether any advisory finding was recorded.
func (r Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Validate checks a resolved configuration. It returns a validate.ValidationError
// whose entries unwrap to the Err* reasons of this package. An index read
// length above the sequencing read length is only a warning unless
// Run.StrictReadLength is set. Validate performs no I/O.
func Validate(cfg Resolved) (Report, error) {
	v := validate.New()
	report := Report{}

	threads := v.Reason(ErrBadThreadCount)
	threads.Positive("run.threads", cfg.Run.Threads)
	threads.Positive("run.variantJobs", cfg.Run.VariantJobs)

	v.Reason(ErrMalformedMemory).Pattern("run.javaMemory", cfg.Run.JavaMemory, javaMemoryPattern)

	annotation := v.Reason(ErrMissingAnnotationDB)
	switch _, ok := AnnotationDBFor(cfg.Organism); {
	case !ok:
		annotation.AddError("profile.annotationDb",
			fmt.Sprintf("no annotation database mapped for organism %s", cfg.Organism), cfg.Organism.String())
	case strings.TrimSpace(cfg.Profile.AnnotationDB) == "":
		annotation.NotEmpty("profile.annotationDb", cfg.Profile.AnnotationDB)
	case !annotationDBMatches(cfg.Organism, cfg.Profile.AnnotationDB):
		annotation.AddError("profile.annotationDb",
			fmt.Sprintf("database %q does not belong to organism %s", cfg.Profile.AnnotationDB, cfg.Organism),
			cfg.Profile.AnnotationDB)
	}

	readLength := v.Reason(ErrReadLength)
	readLength.Positive("run.indexReadLength", cfg.Run.IndexReadLength)
	readLength.NonNegative("run.readLength", cfg.Run.ReadLength)
	if cfg.Run.IndexReadLength > 0 && cfg.Run.ReadLength > 0 && cfg.Run.IndexReadLength > cfg.Run.ReadLength {
		msg := fmt.Sprintf("index read length %d exceeds sequencing read length %d",
			cfg.Run.IndexReadLength, cfg.Run.ReadLength)
		if cfg.Run.StrictReadLength {
			readLength.AddError("run.indexReadLength", msg, cfg.Run.IndexReadLength)
		} else {
			report.Warnings = append(report.Warnings, validate.Error{
				Field:   "run.indexReadLength",
				Value:   cfg.Run.IndexReadLength,
				Message: msg,
				Reason:  ErrReadLength,
			})
		}
	}

	v.Reason(ErrUnknownPlatform).OneOf("run.platform", cfg.Run.Platform, Platforms())
	v.Reason(ErrUnknownAligner).OneOf("run.aligner", cfg.Run.Aligner, Aligners())

	paths := v.Reason(ErrMalformedPath)
	for _, p := range requiredPaths(cfg) {
		paths.PathSyntax(p.name, p.value)
	}
	for _, p := range optionalPaths(cfg) {
		if p.value != "" {
			paths.PathSyntax(p.name, p.value)
		}
	}

	return report, v.Err()
}

type namedPath struct {
	name  string
	value string
}

func requiredPaths(cfg Resolved) []namedPath {
	out := []namedPath{
		{"profile.annotationPath", cfg.Profile.AnnotationPath},
		{"profile.alignerIndexDir", cfg.Profile.AlignerIndexDir},
		{"profile.referenceGenome", cfg.Profile.ReferenceGenome},
		{"profile.knownVariants", cfg.Profile.KnownVariants},
		{"dataset.fastqDir", cfg.Dataset.FastqDir},
		{"dataset.outputDir", cfg.Dataset.OutputDir},
		{"dataset.alignerOutputDir", cfg.Dataset.AlignerOutputDir},
		{"dataset.variantOutputDir", cfg.Dataset.VariantOutputDir},
		{"tools.java", cfg.Tools.Java},
		{"tools.gatkDir", cfg.Tools.GATKDir},
		{"tools.picardDir", cfg.Tools.PicardDir},
		{"tools.star", cfg.Tools.STAR},
	}
	for i, r := range cfg.Profile.VariantResources {
		out = append(out, namedPath{fmt.Sprintf("profile.variantResources[%d]", i), r})
	}
	if cfg.Run.Bisulfite {
		out = append(out,
			namedPath{"tools.perl", cfg.Tools.Perl},
			namedPath{"tools.bsSnper", cfg.Tools.BSSnper},
		)
	}
	return out
}

func optionalPaths(cfg Resolved) []namedPath {
	out := []namedPath{
		{"dataset.softFile", cfg.Dataset.SoftFile},
		{"dataset.expressionMatrixDir", cfg.Dataset.ExpressionMatrixDir},
		{"tools.fastqc", cfg.Tools.FastQC},
		{"tools.snpEff", cfg.Tools.SnpEff},
		{"tools.featureCounts", cfg.Tools.FeatureCounts},
	}
	if !cfg.Run.Bisulfite {
		out = append(out,
			namedPath{"tools.perl", cfg.Tools.Perl},
			namedPath{"tools.bsSnper", cfg.Tools.BSSnper},
		)
	}
	return out
}
