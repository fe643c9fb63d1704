// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics provides Prometheus metrics for settings resolution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values are bounded: results are fixed strings and reasons come from
// a fixed set of validation reasons. No project names or paths in labels.

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	// ResolveTotal counts resolve attempts by result.
	ResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snvconf_resolve_total",
		Help: "Total number of settings resolutions, by result.",
	}, []string{"result"})

	// ValidationFailuresTotal counts failed validation checks by reason.
	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snvconf_validation_failures_total",
		Help: "Total number of failed validation checks, by reason.",
	}, []string{"reason"})

	// ValidationWarningsTotal counts advisory validation findings by reason.
	ValidationWarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snvconf_validation_warnings_total",
		Help: "Total number of validation warnings, by reason.",
	}, []string{"reason"})

	// ReloadTotal counts settings reloads by result.
	ReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snvconf_reload_total",
		Help: "Total number of settings reloads, by result.",
	}, []string{"result"})

	// ConfigInfo exposes the active organism and aligner. Exactly one series is set.
	ConfigInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "snvconf_config_info",
		Help: "Active configuration, value is always 1.",
	}, []string{"organism", "aligner"})
)

func resultLabel(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultError
}

// RecordResolve records the outcome of a resolution.
func RecordResolve(ok bool) {
	ResolveTotal.WithLabelValues(resultLabel(ok)).Inc()
}

// RecordReload records the outcome of a reload.
func RecordReload(ok bool) {
	ReloadTotal.WithLabelValues(resultLabel(ok)).Inc()
}

// RecordValidationFailure records one failed check.
func RecordValidationFailure(reason string) {
	if reason == "" {
		reason = "other"
	}
	ValidationFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordValidationWarning records one advisory finding.
func RecordValidationWarning(reason string) {
	if reason == "" {
		reason = "other"
	}
	ValidationWarningsTotal.WithLabelValues(reason).Inc()
}

// SetConfigInfo replaces the active configuration series.
func SetConfigInfo(organism, aligner string) {
	ConfigInfo.Reset()
	ConfigInfo.WithLabelValues(organism, aligner).Set(1)
}
