// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownConfigField classifies strict YAML parse failures caused by unknown keys.
	// Use errors.Is(err, ErrUnknownConfigField) instead of string matching.
	ErrUnknownConfigField = errors.New("unknown config field")

	// ErrUnsupportedOrganism is matched by every UnsupportedOrganismError.
	ErrUnsupportedOrganism = errors.New("unsupported organism")

	// ErrInvalidInput is matched by every InputError.
	ErrInvalidInput = errors.New("invalid resolver input")
)

// Validation failure reasons. Each validate.Error produced by Validate
// unwraps to one of these.
var (
	ErrBadThreadCount      = errors.New("bad thread count")
	ErrMalformedMemory     = errors.New("malformed memory limit")
	ErrMissingAnnotationDB = errors.New("missing annotation database")
	ErrReadLength          = errors.New("inconsistent read length")
	ErrUnknownPlatform     = errors.New("unknown sequencing platform")
	ErrUnknownAligner      = errors.New("unknown aligner")
	ErrMalformedPath       = errors.New("malformed path")
)

// reasonLabels maps validation reasons to stable metric label values.
var reasonLabels = map[error]string{
	ErrBadThreadCount:      "thread_count",
	ErrMalformedMemory:     "memory_limit",
	ErrMissingAnnotationDB: "annotation_db",
	ErrReadLength:          "read_length",
	ErrUnknownPlatform:     "platform",
	ErrUnknownAligner:      "aligner",
	ErrMalformedPath:       "path",
}

// ReasonLabel returns the metric label for a validation reason, or "other".
func ReasonLabel(reason error) string {
	if l, ok := reasonLabels[reason]; ok {
		return l
	}
	return "other"
}

// UnsupportedOrganismError reports an organism key outside the supported set.
type UnsupportedOrganismError struct {
	Key string
}

func (e *UnsupportedOrganismError) Error() string {
	return fmt.Sprintf("unsupported organism %q (supported: %v)", e.Key, SupportedOrganisms())
}

// Is makes errors.Is(err, ErrUnsupportedOrganism) hold.
func (e *UnsupportedOrganismError) Is(target error) bool {
	return target == ErrUnsupportedOrganism
}

// InputError reports a malformed root alias or project name passed to Resolve.
type InputError struct {
	Field   string
	Value   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// Is makes errors.Is(err, ErrInvalidInput) hold.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}
