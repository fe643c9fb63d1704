// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"

	"github.com/ManuGH/snvconf/internal/metrics"
	"github.com/ManuGH/snvconf/internal/validate"
)

// Evaluate resolves and validates settings and records the outcome in the
// snvconf_* metrics. On a validation failure the Resolved value is still
// returned so callers can report it; on a resolve failure it is zero.
func Evaluate(s Settings) (Resolved, Report, error) {
	cfg, err := s.Resolve()
	metrics.RecordResolve(err == nil)
	if err != nil {
		return Resolved{}, Report{}, fmt.Errorf("resolve settings: %w", err)
	}

	report, err := Validate(cfg)
	ObserveValidation(report, err)
	if err != nil {
		return cfg, report, fmt.Errorf("validate settings: %w", err)
	}
	return cfg, report, nil
}

// ObserveValidation records validation failures and warnings by reason.
func ObserveValidation(report Report, err error) {
	for _, w := range report.Warnings {
		metrics.RecordValidationWarning(ReasonLabel(w.Reason))
	}
	var verr validate.ValidationError
	if errors.As(err, &verr) {
		for _, e := range verr.Errors() {
			metrics.RecordValidationFailure(ReasonLabel(e.Reason))
		}
	}
}
