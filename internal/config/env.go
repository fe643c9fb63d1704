// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strconv"
	"strings"

	"github.com/ManuGH/snvconf/internal/log"
	"github.com/rs/zerolog"
)

// envValue is one environment lookup. Key names the variable actually read,
// which is the legacy alias when the value came from one.
type envValue struct {
	Key string
	Raw string
	Set bool
}

func logEnvDefault(logger zerolog.Logger, ev envValue, defaultValue any) {
	msg := "using default value"
	if ev.Set {
		msg = "using default value (environment variable is empty)"
	}
	logger.Debug().
		Str(log.FieldKey, ev.Key).
		Interface("default", defaultValue).
		Str("source", "default").
		Msg(msg)
}

func logEnvUsed(logger zerolog.Logger, ev envValue, value any) {
	logger.Debug().
		Str(log.FieldKey, ev.Key).
		Interface("value", value).
		Str("source", "environment").
		Msg("using environment variable")
}

// parseEnvString returns ev's value, or defaultValue when ev is unset or empty.
func parseEnvString(logger zerolog.Logger, ev envValue, defaultValue string) string {
	if !ev.Set || ev.Raw == "" {
		logEnvDefault(logger, ev, defaultValue)
		return defaultValue
	}
	logEnvUsed(logger, ev, ev.Raw)
	return ev.Raw
}

// parseEnvInt parses ev as a decimal integer. Invalid input is logged as a
// warning and yields defaultValue.
func parseEnvInt(logger zerolog.Logger, ev envValue, defaultValue int) int {
	if !ev.Set || ev.Raw == "" {
		logEnvDefault(logger, ev, defaultValue)
		return defaultValue
	}
	i, err := strconv.Atoi(strings.TrimSpace(ev.Raw))
	if err != nil {
		logger.Warn().
			Str(log.FieldKey, ev.Key).
			Str("value", ev.Raw).
			Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
		return defaultValue
	}
	logEnvUsed(logger, ev, i)
	return i
}

// parseEnvBool accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
// Anything else is logged as a warning and yields defaultValue.
func parseEnvBool(logger zerolog.Logger, ev envValue, defaultValue bool) bool {
	if !ev.Set || ev.Raw == "" {
		logEnvDefault(logger, ev, defaultValue)
		return defaultValue
	}
	var b bool
	switch strings.ToLower(strings.TrimSpace(ev.Raw)) {
	case "true", "1", "yes":
		b = true
	case "false", "0", "no":
		b = false
	default:
		logger.Warn().
			Str(log.FieldKey, ev.Key).
			Str("value", ev.Raw).
			Bool("default", defaultValue).
			Msg("invalid boolean in environment variable, using default")
		return defaultValue
	}
	logEnvUsed(logger, ev, b)
	return b
}
