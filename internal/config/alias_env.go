// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ManuGH/snvconf/internal/log"
)

// EnvAlias maps a legacy environment key, named after the settings module the
// pipeline used before, to its canonical key.
type EnvAlias struct {
	Legacy    string
	Canonical string
}

var envAliases = []EnvAlias{
	{Legacy: "SNV_CELL_TYPE", Canonical: "SNV_ORGANISM"},
	{Legacy: "SNV_PLATEFORM", Canonical: "SNV_PLATFORM"},
	{Legacy: "SNV_STAR_INDEX_READ_LENGTH", Canonical: "SNV_INDEX_READ_LENGTH"},
	{Legacy: "SNV_STAR_THREADS", Canonical: "SNV_THREADS"},
	{Legacy: "SNV_NB_PROCESS_SNV", Canonical: "SNV_VARIANT_JOBS"},
	{Legacy: "SNV_JAVA_MEM", Canonical: "SNV_JAVA_MEMORY"},
	{Legacy: "SNV_USED_ALIGNER", Canonical: "SNV_ALIGNER"},
	{Legacy: "SNV_ARE_READS_BISULFITE", Canonical: "SNV_BISULFITE"},
	{Legacy: "SNV_GLOBAL_DATA_ROOT", Canonical: "SNV_DATA_ROOT"},
	{Legacy: "SNV_SNPEFF_DB", Canonical: "SNV_ANNOTATION_DB"},
	{Legacy: "SNV_SPECIFIC_FILENAME_PATTERN", Canonical: "SNV_FILENAME_PATTERN"},
}

// EnvAliases returns the legacy environment aliases sorted by legacy key.
func EnvAliases() []EnvAlias {
	out := make([]EnvAlias, len(envAliases))
	copy(out, envAliases)
	sort.Slice(out, func(i, j int) bool { return out[i].Legacy < out[j].Legacy })
	return out
}

type envLookupFunc func(string) (string, bool)

// checkAliasEnvConflicts fails when a legacy key and its canonical key are
// both set to different values.
func checkAliasEnvConflicts(lookup envLookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, a := range EnvAliases() {
		legacy, lok := lookup(a.Legacy)
		canonical, cok := lookup(a.Canonical)
		if !lok || !cok {
			continue
		}
		if strings.TrimSpace(legacy) != strings.TrimSpace(canonical) {
			return fmt.Errorf("conflicting environment: %s=%q and %s=%q (remove %s)",
				a.Legacy, legacy, a.Canonical, canonical, a.Legacy)
		}
	}
	return nil
}

// legacyValue returns the legacy alias of key when key itself is unset and
// the alias carries a value.
func (l *Loader) legacyValue(key string) (envValue, bool) {
	if _, ok := os.LookupEnv(key); ok {
		return envValue{}, false
	}
	for _, a := range envAliases {
		if a.Canonical != key {
			continue
		}
		l.ConsumedEnvKeys[a.Legacy] = struct{}{}
		if v, ok := os.LookupEnv(a.Legacy); ok && strings.TrimSpace(v) != "" {
			l.logger.Warn().
				Str(log.FieldKey, a.Legacy).
				Str("canonical", a.Canonical).
				Msg("DEPRECATED env var is set; use the canonical key")
			return envValue{Key: a.Legacy, Raw: v, Set: true}, true
		}
	}
	return envValue{}, false
}
