// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService = "service"
	FieldRunID   = "run_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Settings fields
	FieldOrganism = "organism"
	FieldProject  = "project"
	FieldField    = "field"
	FieldReason   = "reason"

	// Path fields
	FieldPath = "path"
	FieldKey  = "key"
)
