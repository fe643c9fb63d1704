// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"
)

// ToolTemplates locate the external programs. A template containing no slash
// is a command looked up on PATH and is passed through unchanged; an absolute
// template is used as is; anything else is relative to the program root.
// A trailing slash marks a directory and is preserved. An empty optional
// tool (FastQC, snpEff, featureCounts) is disabled and resolves to "".
type ToolTemplates struct {
	Java          string `yaml:"java,omitempty"`
	GATKDir       string `yaml:"gatkDir,omitempty"`
	PicardDir     string `yaml:"picardDir,omitempty"`
	Perl          string `yaml:"perl,omitempty"`
	BSSnper       string `yaml:"bsSnper,omitempty"`
	STAR          string `yaml:"star,omitempty"`
	FastQC        string `yaml:"fastqc,omitempty"`
	SnpEff        string `yaml:"snpEff,omitempty"`
	FeatureCounts string `yaml:"featureCounts,omitempty"`
}

// DefaultToolTemplates returns the stock software layout below the program root.
func DefaultToolTemplates() ToolTemplates {
	return ToolTemplates{
		Java:          "jdk1.8.0_77/bin/java",
		GATKDir:       "GATK/",
		PicardDir:     "picard-tools-2.1.1/",
		Perl:          "perl",
		BSSnper:       "BS-Snper/BS-Snper.pl",
		STAR:          "STAR/bin/Linux_x86_64_static/STAR",
		FastQC:        "fastqc",
		SnpEff:        "snpEff/snpEff.jar",
		FeatureCounts: "featureCounts",
	}
}

// withFallback fills empty required templates from fb. Optional tools keep
// their value so an empty one stays disabled.
func (t ToolTemplates) withFallback(fb ToolTemplates) ToolTemplates {
	pick := func(v, d string) string {
		if strings.TrimSpace(v) == "" {
			return d
		}
		return v
	}
	return ToolTemplates{
		Java:          pick(t.Java, fb.Java),
		GATKDir:       pick(t.GATKDir, fb.GATKDir),
		PicardDir:     pick(t.PicardDir, fb.PicardDir),
		Perl:          pick(t.Perl, fb.Perl),
		BSSnper:       pick(t.BSSnper, fb.BSSnper),
		STAR:          pick(t.STAR, fb.STAR),
		FastQC:        strings.TrimSpace(t.FastQC),
		SnpEff:        strings.TrimSpace(t.SnpEff),
		FeatureCounts: strings.TrimSpace(t.FeatureCounts),
	}
}

// ToolPaths are the resolved program locations.
type ToolPaths struct {
	Java          string `json:"java"`
	GATKDir       string `json:"gatkDir"`
	PicardDir     string `json:"picardDir"`
	Perl          string `json:"perl"`
	BSSnper       string `json:"bsSnper"`
	STAR          string `json:"star"`
	FastQC        string `json:"fastqc"`
	SnpEff        string `json:"snpEff"`
	FeatureCounts string `json:"featureCounts"`
}

func (t ToolTemplates) resolve(progRoot string) ToolPaths {
	return ToolPaths{
		Java:          toolPath(progRoot, t.Java),
		GATKDir:       toolPath(progRoot, t.GATKDir),
		PicardDir:     toolPath(progRoot, t.PicardDir),
		Perl:          toolPath(progRoot, t.Perl),
		BSSnper:       toolPath(progRoot, t.BSSnper),
		STAR:          toolPath(progRoot, t.STAR),
		FastQC:        toolPath(progRoot, t.FastQC),
		SnpEff:        toolPath(progRoot, t.SnpEff),
		FeatureCounts: toolPath(progRoot, t.FeatureCounts),
	}
}

func toolPath(progRoot, tmpl string) string {
	tmpl = strings.TrimSpace(tmpl)
	switch {
	case tmpl == "":
		return ""
	case !strings.Contains(tmpl, "/"):
		return tmpl
	}

	base := progRoot
	if strings.HasPrefix(tmpl, "/") {
		base = "/"
	}
	if strings.HasSuffix(tmpl, "/") {
		return joinDir(base, tmpl)
	}
	return joinFile(base, tmpl)
}
