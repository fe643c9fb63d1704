// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"

	"github.com/ManuGH/snvconf/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(m))
	return m.GetCounter().GetValue()
}

func validSettings(t *testing.T) Settings {
	t.Helper()
	s, err := DefaultSettings()
	require.NoError(t, err)
	s.Project = "proj"
	s.User = "u"
	return s
}

func TestEvaluate_Success(t *testing.T) {
	before := counterValue(t, metrics.ResolveTotal, metrics.ResultSuccess)

	cfg, report, err := Evaluate(validSettings(t))
	require.NoError(t, err)
	assert.False(t, report.HasWarnings())
	assert.Equal(t, "/home/u/data/proj/", cfg.Dataset.OutputDir)
	assert.Equal(t, before+1, counterValue(t, metrics.ResolveTotal, metrics.ResultSuccess))
}

func TestEvaluate_ResolveFailure(t *testing.T) {
	before := counterValue(t, metrics.ResolveTotal, metrics.ResultError)

	s := validSettings(t)
	s.Organism = "ZEBRAFISH"
	cfg, _, err := Evaluate(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedOrganism)
	assert.Equal(t, Resolved{}, cfg)
	assert.Equal(t, before+1, counterValue(t, metrics.ResolveTotal, metrics.ResultError))
}

func TestEvaluate_ValidationFailureRecordsReasons(t *testing.T) {
	threadsBefore := counterValue(t, metrics.ValidationFailuresTotal, "thread_count")
	memBefore := counterValue(t, metrics.ValidationFailuresTotal, "memory_limit")

	s := validSettings(t)
	s.Aligner.Threads = 0
	s.Variants.ParallelJobs = 0
	s.Variants.JavaMemory = "110g"

	cfg, _, err := Evaluate(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadThreadCount)
	assert.Equal(t, "proj", cfg.Project, "resolved value is returned for reporting")

	assert.Equal(t, threadsBefore+2, counterValue(t, metrics.ValidationFailuresTotal, "thread_count"))
	assert.Equal(t, memBefore+1, counterValue(t, metrics.ValidationFailuresTotal, "memory_limit"))
}

func TestEvaluate_WarningRecorded(t *testing.T) {
	before := counterValue(t, metrics.ValidationWarningsTotal, "read_length")

	s := validSettings(t)
	s.Sequencing.ReadLength = 36

	_, report, err := Evaluate(s)
	require.NoError(t, err)
	assert.True(t, report.HasWarnings())
	assert.Equal(t, before+1, counterValue(t, metrics.ValidationWarningsTotal, "read_length"))
}

func TestSettings_ResolverCarriesOptions(t *testing.T) {
	s := validSettings(t)
	s.Sequencing.Bisulfite = true
	s.Aligner.Name = AlignerBismark
	s.Annotation.Database = "hg38"
	s.Dataset.FilenamePattern = "SRX"

	cfg, err := s.Resolve()
	require.NoError(t, err)
	assert.True(t, cfg.Run.Bisulfite)
	assert.Equal(t, AlignerBismark, cfg.Run.Aligner)
	assert.Equal(t, "hg38", cfg.Profile.AnnotationDB)
	assert.Equal(t, "SRX", cfg.Dataset.FilenamePattern)

	_, err = Validate(cfg)
	assert.NoError(t, err)
}
