// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/snvconf/internal/log"
	"github.com/ManuGH/snvconf/internal/validate"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys
	logger          zerolog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath:      configPath,
		ConsumedEnvKeys: make(map[string]struct{}),
		logger:          log.WithComponent("config"),
	}
}

// Path returns the settings file the loader reads, or "" for env-only loading.
func (l *Loader) Path() string {
	return l.configPath
}

// lookupEnv marks key consumed and reads it, falling back to its legacy
// alias when key itself is unset.
func (l *Loader) lookupEnv(key string) envValue {
	l.ConsumedEnvKeys[key] = struct{}{}
	if ev, ok := l.legacyValue(key); ok {
		return ev
	}
	raw, set := os.LookupEnv(key)
	return envValue{Key: key, Raw: raw, Set: set}
}

func (l *Loader) envString(key, defaultVal string) string {
	return parseEnvString(l.logger, l.lookupEnv(key), defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	return parseEnvBool(l.logger, l.lookupEnv(key), defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	return parseEnvInt(l.logger, l.lookupEnv(key), defaultVal)
}

// Load loads settings with precedence: ENV > File > Defaults.
// It enforces Strict Validated Order: Parse File (Strict) -> Apply Env -> Validate.
// Load does not resolve or validate paths; see Settings.Resolve and Validate.
func (l *Loader) Load() (Settings, error) {
	// 1. Set defaults
	cfg, err := DefaultSettings()
	if err != nil {
		return Settings{}, fmt.Errorf("set defaults: %w", err)
	}

	// 2. Load from file (if provided); absent keys keep their defaults
	if l.configPath != "" {
		if err := l.decodeFile(l.configPath, &cfg); err != nil {
			return Settings{}, fmt.Errorf("load config file: %w", err)
		}
	}

	// 3. Override with environment variables (highest priority)
	if err := checkAliasEnvConflicts(os.LookupEnv); err != nil {
		return Settings{}, err
	}
	l.mergeEnvConfig(&cfg)

	// 4. Settings-level checks; path and tuning checks live in Validate
	if err := validateSettings(cfg); err != nil {
		return Settings{}, fmt.Errorf("config validation failed: %w", err)
	}

	l.logger.Debug().
		Str(log.FieldEvent, "config.loaded").
		Str(log.FieldPath, l.configPath).
		Str(log.FieldProject, cfg.Project).
		Str(log.FieldOrganism, cfg.Organism).
		Msg("settings loaded")

	return cfg, nil
}

func validateSettings(cfg Settings) error {
	v := validate.New()
	if cfg.LogLevel != "" {
		if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
			v.AddError("logLevel", err.Error(), cfg.LogLevel)
		}
	}
	return v.Err()
}

// loadFile loads settings from a YAML file without defaults.
func (l *Loader) loadFile(path string) (*Settings, error) {
	var cfg Settings
	if err := l.decodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decodeFile decodes a YAML file into cfg with STRICT parsing.
// Unknown fields cause a fatal error to prevent misconfiguration.
func (l *Loader) decodeFile(path string, cfg *Settings) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- settings file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return nil
}
