// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// OptionProfile defines the operator persona for a configuration option.
type OptionProfile string

const (
	ProfileSimple   OptionProfile = "Simple"
	ProfileAdvanced OptionProfile = "Advanced"
)

// Status defines the lifecycle state of a configuration option.
type Status string

const (
	StatusActive     Status = "Active"
	StatusDeprecated Status = "Deprecated"
)

// ConfigEntry defines a single configuration option's metadata.
type ConfigEntry struct {
	Path        string        // User-facing Path (e.g. "aligner.threads")
	Env         string        // Environment Variable (e.g. "SNV_THREADS")
	FieldPath   string        // Internal Field Path (e.g. "Aligner.Threads")
	Profile     OptionProfile // Operator Profile
	Status      Status        // Lifecycle Status
	Default     any           // Default value
	Description string
}

// Registry manages the configuration surface inventory.
type Registry struct {
	ByPath  map[string]ConfigEntry
	ByField map[string]ConfigEntry
	ByEnv   map[string]ConfigEntry
}

var (
	globalRegistry    *Registry
	globalRegistryErr error
	registryOnce      sync.Once
)

// GetRegistry returns the global configuration registry.
// It returns an error if the registry contains duplicates or is otherwise invalid.
// Thread-safe via sync.Once.
func GetRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		globalRegistry, globalRegistryErr = buildRegistry(registryEntries())
	})
	return globalRegistry, globalRegistryErr
}

func registryEntries() []ConfigEntry {
	run := DefaultRunOptions()
	tools := DefaultToolTemplates()

	return []ConfigEntry{
		// --- CORE ---
		{Path: "project", Env: "SNV_PROJECT", FieldPath: "Project", Profile: ProfileSimple, Status: StatusActive,
			Description: "Project name; root segment of every project path"},
		{Path: "organism", Env: "SNV_ORGANISM", FieldPath: "Organism", Profile: ProfileSimple, Status: StatusActive, Default: "HUMAN",
			Description: "Reference organism: HUMAN or MOUSE"},
		{Path: "user", Env: "SNV_USER", FieldPath: "User", Profile: ProfileSimple, Status: StatusActive,
			Description: "User name filling unset roots (/data/{user}/, /home/{user}/data/, /home/{user}/prog/)"},
		{Path: "logLevel", Env: "SNV_LOG_LEVEL", FieldPath: "LogLevel", Profile: ProfileSimple, Status: StatusActive, Default: "info",
			Description: "Log level: debug, info, warn, error"},

		// --- ROOTS ---
		{Path: "roots.dataRoot", Env: "SNV_DATA_ROOT", FieldPath: "Roots.Data", Profile: ProfileSimple, Status: StatusActive,
			Description: "Root of reference data and raw reads"},
		{Path: "roots.outputRoot", Env: "SNV_OUTPUT_ROOT", FieldPath: "Roots.Output", Profile: ProfileSimple, Status: StatusActive,
			Description: "Root of pipeline results"},
		{Path: "roots.progRoot", Env: "SNV_PROG_ROOT", FieldPath: "Roots.Prog", Profile: ProfileSimple, Status: StatusActive,
			Description: "Root of installed software"},

		// --- SEQUENCING ---
		{Path: "sequencing.platform", Env: "SNV_PLATFORM", FieldPath: "Sequencing.Platform", Profile: ProfileSimple, Status: StatusActive, Default: run.Platform,
			Description: "Sequencing platform used for read-group tagging"},
		{Path: "sequencing.readLength", Env: "SNV_READ_LENGTH", FieldPath: "Sequencing.ReadLength", Profile: ProfileAdvanced, Status: StatusActive,
			Description: "Sequencing read length; 0 when unknown"},
		{Path: "sequencing.bisulfite", Env: "SNV_BISULFITE", FieldPath: "Sequencing.Bisulfite", Profile: ProfileAdvanced, Status: StatusActive, Default: false,
			Description: "Reads come from a bisulfite (RRBS) protocol"},

		// --- ALIGNER ---
		{Path: "aligner.name", Env: "SNV_ALIGNER", FieldPath: "Aligner.Name", Profile: ProfileAdvanced, Status: StatusActive, Default: run.Aligner,
			Description: "Aligner: star or bismark"},
		{Path: "aligner.indexReadLength", Env: "SNV_INDEX_READ_LENGTH", FieldPath: "Aligner.IndexReadLength", Profile: ProfileAdvanced, Status: StatusActive, Default: run.IndexReadLength,
			Description: "Read length the STAR index is built for"},
		{Path: "aligner.threads", Env: "SNV_THREADS", FieldPath: "Aligner.Threads", Profile: ProfileSimple, Status: StatusActive, Default: run.Threads,
			Description: "Aligner threads"},

		// --- VARIANTS ---
		{Path: "variants.parallelJobs", Env: "SNV_VARIANT_JOBS", FieldPath: "Variants.ParallelJobs", Profile: ProfileSimple, Status: StatusActive, Default: run.VariantJobs,
			Description: "Variant calling processes run in parallel"},
		{Path: "variants.javaMemory", Env: "SNV_JAVA_MEMORY", FieldPath: "Variants.JavaMemory", Profile: ProfileAdvanced, Status: StatusActive, Default: run.JavaMemory,
			Description: "JVM max heap flag passed to GATK and Picard"},
		{Path: "variants.strictReadLength", Env: "SNV_STRICT_READ_LENGTH", FieldPath: "Variants.StrictReadLength", Profile: ProfileAdvanced, Status: StatusActive, Default: false,
			Description: "Fail validation when the index read length exceeds the read length"},

		// --- ANNOTATION / DATASET ---
		{Path: "annotation.database", Env: "SNV_ANNOTATION_DB", FieldPath: "Annotation.Database", Profile: ProfileAdvanced, Status: StatusActive,
			Description: "snpEff database; empty selects the organism default"},
		{Path: "dataset.filenamePattern", Env: "SNV_FILENAME_PATTERN", FieldPath: "Dataset.FilenamePattern", Profile: ProfileAdvanced, Status: StatusActive,
			Description: "Substring an input folder name must contain"},

		// --- TOOLS ---
		{Path: "tools.java", Env: "SNV_TOOL_JAVA", FieldPath: "Tools.Java", Profile: ProfileAdvanced, Status: StatusActive, Default: tools.Java,
			Description: "Java 1.8+ binary"},
		{Path: "tools.gatkDir", Env: "SNV_TOOL_GATK_DIR", FieldPath: "Tools.GATKDir", Profile: ProfileAdvanced, Status: StatusActive, Default: tools.GATKDir,
			Description: "GATK installation directory"},
		{Path: "tools.picardDir", Env: "SNV_TOOL_PICARD_DIR", FieldPath: "Tools.PicardDir", Profile: ProfileAdvanced, Status: StatusActive, Default: tools.PicardDir,
			Description: "picard-tools installation directory"},
		{Path: "tools.perl", Env: "SNV_TOOL_PERL", FieldPath: "Tools.Perl", Profile: ProfileAdvanced, Status: StatusActive, Default: tools.Perl,
			Description: "Perl interpreter (bisulfite runs)"},
		{Path: "tools.bsSnper", Env: "SNV_TOOL_BSSNPER", FieldPath: "Tools.BSSnper", Profile: ProfileAdvanced, Status: StatusActive, Default: tools.BSSnper,
			Description: "BS-Snper script (bisulfite runs)"},
		{Path: "tools.star", Env: "SNV_TOOL_STAR", FieldPath: "Tools.STAR", Profile: ProfileAdvanced, Status: StatusActive, Default: tools.STAR,
			Description: "STAR aligner binary"},
		{Path: "tools.fastqc", Env: "SNV_TOOL_FASTQC", FieldPath: "Tools.FastQC", Profile: ProfileAdvanced, Status: StatusActive, Default: tools.FastQC,
			Description: "FastQC binary (optional; empty disables)"},
		{Path: "tools.snpEff", Env: "SNV_TOOL_SNPEFF", FieldPath: "Tools.SnpEff", Profile: ProfileAdvanced, Status: StatusActive, Default: tools.SnpEff,
			Description: "snpEff jar (optional; empty disables)"},
		{Path: "tools.featureCounts", Env: "SNV_TOOL_FEATURECOUNTS", FieldPath: "Tools.FeatureCounts", Profile: ProfileAdvanced, Status: StatusActive, Default: tools.FeatureCounts,
			Description: "featureCounts binary for expression matrices (optional; empty disables)"},
	}
}

func buildRegistry(entries []ConfigEntry) (*Registry, error) {
	r := &Registry{
		ByPath:  make(map[string]ConfigEntry),
		ByField: make(map[string]ConfigEntry),
		ByEnv:   make(map[string]ConfigEntry),
	}

	for _, e := range entries {
		if e.Path != "" {
			if _, dup := r.ByPath[e.Path]; dup {
				return nil, fmt.Errorf("duplicate registry path: %s", e.Path)
			}
			r.ByPath[e.Path] = e
		}
		if e.FieldPath != "" {
			if _, dup := r.ByField[e.FieldPath]; dup {
				return nil, fmt.Errorf("duplicate registry field: %s", e.FieldPath)
			}
			r.ByField[e.FieldPath] = e
		}
		if e.Env != "" {
			if _, dup := r.ByEnv[e.Env]; dup {
				return nil, fmt.Errorf("duplicate registry env: %s", e.Env)
			}
			r.ByEnv[e.Env] = e
		}
	}

	return r, nil
}

// ValidateFieldCoverage uses reflection to ensure every field in Settings is registered.
func (r *Registry) ValidateFieldCoverage(cfg Settings) error {
	return r.validateStruct("", reflect.TypeOf(cfg))
}

func (r *Registry) validateStruct(prefix string, t reflect.Type) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		fieldPath := f.Name
		if prefix != "" {
			fieldPath = prefix + "." + f.Name
		}

		if f.Type.Kind() == reflect.Struct {
			if err := r.validateStruct(fieldPath, f.Type); err != nil {
				return err
			}
			continue
		}

		if _, ok := r.ByField[fieldPath]; !ok {
			return fmt.Errorf("field %q is not registered in the config registry", fieldPath)
		}
	}
	return nil
}

// ApplyDefaults applies registered default values to the given Settings.
// Returns an error if any default cannot be set (indicates registry misconfiguration).
func (r *Registry) ApplyDefaults(cfg *Settings) error {
	v := reflect.ValueOf(cfg).Elem()
	for _, entry := range r.ByField {
		if entry.Default == nil {
			continue
		}
		if err := setField(v, entry.FieldPath, entry.Default); err != nil {
			return fmt.Errorf("failed to set default for %s: %w", entry.FieldPath, err)
		}
	}
	return nil
}

func setField(v reflect.Value, fieldPath string, value any) error {
	parts := strings.Split(fieldPath, ".")
	curr := v
	for i, p := range parts {
		f := curr.FieldByName(p)
		if !f.IsValid() {
			return fmt.Errorf("field %s not found", p)
		}

		if i < len(parts)-1 {
			curr = f
			continue
		}

		val := reflect.ValueOf(value)
		if f.Type() != val.Type() {
			if !val.Type().ConvertibleTo(f.Type()) {
				return fmt.Errorf("type mismatch for %s: expected %v, got %v", fieldPath, f.Type(), val.Type())
			}
			val = val.Convert(f.Type())
		}
		f.Set(val)
	}
	return nil
}

// DefaultSettings returns Settings populated from registry defaults.
func DefaultSettings() (Settings, error) {
	registry, err := GetRegistry()
	if err != nil {
		return Settings{}, fmt.Errorf("get registry: %w", err)
	}
	var s Settings
	if err := registry.ApplyDefaults(&s); err != nil {
		return Settings{}, fmt.Errorf("apply defaults: %w", err)
	}
	return s, nil
}
