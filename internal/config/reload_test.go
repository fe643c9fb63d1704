// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/oasdiff/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// Test helper: create a minimal valid settings file
func writeValidSettings(t *testing.T, path string, threads int) {
	t.Helper()
	// Use map to marshal correct YAML to avoid indentation issues
	cfg := map[string]any{
		"project":  "proj",
		"organism": "HUMAN",
		"user":     "u",
		"aligner": map[string]any{
			"threads": threads,
		},
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("failed to marshal settings: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
}

func newTestHolder(t *testing.T, threads int) (*Holder, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeValidSettings(t, path, threads)

	loader := NewLoader(path)
	s, err := loader.Load()
	require.NoError(t, err)
	initial, _, err := Evaluate(s)
	require.NoError(t, err)

	return NewHolder(initial, loader), path
}

func TestNewHolder(t *testing.T) {
	h, _ := newTestHolder(t, 8)

	got := h.Get()
	assert.Equal(t, 8, got.Run.Threads)
	assert.Equal(t, "/data/u/proj/fastq/", got.Dataset.FastqDir)
}

func TestHolder_GetReturnsIndependentCopy(t *testing.T) {
	h, _ := newTestHolder(t, 8)

	first := h.Get()
	first.Profile.VariantResources[0] = "/tmp/changed.vcf"

	assert.NotEqual(t, "/tmp/changed.vcf", h.Get().Profile.VariantResources[0])
}

func TestHolder_ReloadSuccess(t *testing.T) {
	h, path := newTestHolder(t, 8)
	old := h.Get()

	ch := make(chan Resolved, 1)
	h.RegisterListener(ch)

	writeValidSettings(t, path, 16)
	require.NoError(t, h.Reload(context.Background()))

	assert.Equal(t, 16, h.Get().Run.Threads)
	assert.Equal(t, 8, old.Run.Threads, "previous instance must not change")

	select {
	case got := <-ch:
		assert.Equal(t, 16, got.Run.Threads)
	default:
		t.Fatal("listener was not notified")
	}
}

func TestHolder_ReloadKeepsOldOnValidationFailure(t *testing.T) {
	h, path := newTestHolder(t, 8)

	writeValidSettings(t, path, 0)
	err := h.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadThreadCount)
	assert.Equal(t, 8, h.Get().Run.Threads)
}

func TestHolder_ReloadKeepsOldOnParseFailure(t *testing.T) {
	h, path := newTestHolder(t, 8)

	require.NoError(t, os.WriteFile(path, []byte("unknownKey: 1\n"), 0600))
	err := h.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownConfigField)
	assert.Equal(t, 8, h.Get().Run.Threads)
}

func TestHolder_ReloadCanceledContext(t *testing.T) {
	h, _ := newTestHolder(t, 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.Reload(ctx), context.Canceled)
}

func TestHolder_ConcurrentReloads(t *testing.T) {
	h, path := newTestHolder(t, 8)
	writeValidSettings(t, path, 24)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- h.Reload(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 24, h.Get().Run.Threads)
}

func TestHolder_ListenerFullDoesNotBlock(t *testing.T) {
	h, _ := newTestHolder(t, 8)

	ch := make(chan Resolved) // unbuffered, nobody reading
	h.RegisterListener(ch)

	done := make(chan error, 1)
	go func() { done <- h.Reload(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reload blocked on listener")
	}
}

func TestHolder_StartWatcherWithoutFile(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg, err := Resolve("HUMAN", DefaultRoots("u"), "proj")
	require.NoError(t, err)
	h := NewHolder(cfg, NewLoader(""))

	require.NoError(t, h.StartWatcher(context.Background()))
	h.Stop()
}

func TestHolder_WatcherReloadsOnSave(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h, path := newTestHolder(t, 8)
	h.Debounce = 50 * time.Millisecond

	ch := make(chan Resolved, 4)
	h.RegisterListener(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.StartWatcher(ctx))
	defer h.Stop()

	s, err := NewLoader(path).Load()
	require.NoError(t, err)
	s.Aligner.Threads = 20
	require.NoError(t, NewManager(path).Save(s))

	select {
	case got := <-ch:
		assert.Equal(t, 20, got.Run.Threads)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload settings")
	}

	cancel()
	h.Stop()
}
