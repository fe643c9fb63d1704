// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

// mergeEnvConfig merges environment variables into Settings.
// ENV variables have the highest precedence.
// Canonical and legacy keys share the logged parsers in env.go.
func (l *Loader) mergeEnvConfig(cfg *Settings) {
	l.mergeEnvCore(cfg)
	l.mergeEnvRoots(cfg)
	l.mergeEnvSequencing(cfg)
	l.mergeEnvAligner(cfg)
	l.mergeEnvVariants(cfg)
	l.mergeEnvDataset(cfg)
	l.mergeEnvTools(cfg)
}

func (l *Loader) mergeEnvCore(cfg *Settings) {
	cfg.Project = l.envString("SNV_PROJECT", cfg.Project)
	cfg.Organism = l.envString("SNV_ORGANISM", cfg.Organism)
	cfg.User = l.envString("SNV_USER", cfg.User)
	cfg.LogLevel = l.envString("SNV_LOG_LEVEL", cfg.LogLevel)
}

func (l *Loader) mergeEnvRoots(cfg *Settings) {
	cfg.Roots.Data = l.envString("SNV_DATA_ROOT", cfg.Roots.Data)
	cfg.Roots.Output = l.envString("SNV_OUTPUT_ROOT", cfg.Roots.Output)
	cfg.Roots.Prog = l.envString("SNV_PROG_ROOT", cfg.Roots.Prog)
}

func (l *Loader) mergeEnvSequencing(cfg *Settings) {
	cfg.Sequencing.Platform = l.envString("SNV_PLATFORM", cfg.Sequencing.Platform)
	cfg.Sequencing.ReadLength = l.envInt("SNV_READ_LENGTH", cfg.Sequencing.ReadLength)
	cfg.Sequencing.Bisulfite = l.envBool("SNV_BISULFITE", cfg.Sequencing.Bisulfite)
}

func (l *Loader) mergeEnvAligner(cfg *Settings) {
	cfg.Aligner.Name = l.envString("SNV_ALIGNER", cfg.Aligner.Name)
	cfg.Aligner.IndexReadLength = l.envInt("SNV_INDEX_READ_LENGTH", cfg.Aligner.IndexReadLength)
	cfg.Aligner.Threads = l.envInt("SNV_THREADS", cfg.Aligner.Threads)
}

func (l *Loader) mergeEnvVariants(cfg *Settings) {
	cfg.Variants.ParallelJobs = l.envInt("SNV_VARIANT_JOBS", cfg.Variants.ParallelJobs)
	cfg.Variants.JavaMemory = l.envString("SNV_JAVA_MEMORY", cfg.Variants.JavaMemory)
	cfg.Variants.StrictReadLength = l.envBool("SNV_STRICT_READ_LENGTH", cfg.Variants.StrictReadLength)
}

func (l *Loader) mergeEnvDataset(cfg *Settings) {
	cfg.Annotation.Database = l.envString("SNV_ANNOTATION_DB", cfg.Annotation.Database)
	cfg.Dataset.FilenamePattern = l.envString("SNV_FILENAME_PATTERN", cfg.Dataset.FilenamePattern)
}

func (l *Loader) mergeEnvTools(cfg *Settings) {
	cfg.Tools.Java = l.envString("SNV_TOOL_JAVA", cfg.Tools.Java)
	cfg.Tools.GATKDir = l.envString("SNV_TOOL_GATK_DIR", cfg.Tools.GATKDir)
	cfg.Tools.PicardDir = l.envString("SNV_TOOL_PICARD_DIR", cfg.Tools.PicardDir)
	cfg.Tools.Perl = l.envString("SNV_TOOL_PERL", cfg.Tools.Perl)
	cfg.Tools.BSSnper = l.envString("SNV_TOOL_BSSNPER", cfg.Tools.BSSnper)
	cfg.Tools.STAR = l.envString("SNV_TOOL_STAR", cfg.Tools.STAR)
	cfg.Tools.FastQC = l.envString("SNV_TOOL_FASTQC", cfg.Tools.FastQC)
	cfg.Tools.SnpEff = l.envString("SNV_TOOL_SNPEFF", cfg.Tools.SnpEff)
	cfg.Tools.FeatureCounts = l.envString("SNV_TOOL_FEATURECOUNTS", cfg.Tools.FeatureCounts)
}
