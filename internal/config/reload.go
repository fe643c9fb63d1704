// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/ManuGH/snvconf/internal/log"
	"github.com/ManuGH/snvconf/internal/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultDebounce is the quiet period after the last file event before a reload.
const DefaultDebounce = 500 * time.Millisecond

// Holder holds a resolved configuration with atomic reloading capability.
// Consumers holding a value returned by Get keep a consistent view; a reload
// swaps in a new instance and never mutates the old one.
type Holder struct {
	mu         sync.RWMutex
	current    Resolved
	loader     *Loader
	configPath string
	logger     zerolog.Logger
	group      singleflight.Group

	// Debounce is read when the watcher starts.
	Debounce time.Duration

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
	wg      sync.WaitGroup

	// Reload notifications
	reloadMu        sync.RWMutex
	reloadListeners []chan<- Resolved
}

// NewHolder creates a new holder with an initial resolved configuration.
func NewHolder(initial Resolved, loader *Loader) *Holder {
	return &Holder{
		current:         initial.Clone(),
		loader:          loader,
		configPath:      loader.Path(),
		logger:          log.WithComponent("config"),
		Debounce:        DefaultDebounce,
		reloadListeners: make([]chan<- Resolved, 0),
	}
}

// Get returns the current configuration (thread-safe read).
func (h *Holder) Get() Resolved {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Clone()
}

// Reload loads, resolves and validates settings. If any step fails, the old
// configuration is kept and an error is returned. Concurrent calls share one
// reload.
func (h *Holder) Reload(ctx context.Context) error {
	_, err, _ := h.group.Do("reload", func() (any, error) {
		return nil, h.reload(ctx)
	})
	return err
}

func (h *Holder) reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := log.WithContext(ctx, h.logger)
	logger.Info().Str(log.FieldEvent, "config.reload_start").Msg("reloading configuration")

	settings, err := h.loader.Load()
	if err != nil {
		metrics.RecordReload(false)
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("load config: %w", err)
	}

	newCfg, report, err := Evaluate(settings)
	if err != nil {
		metrics.RecordReload(false)
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "config.validation_failed").
			Msg("new configuration failed validation")
		return err
	}
	for _, w := range report.Warnings {
		logger.Warn().
			Str(log.FieldField, w.Field).
			Str(log.FieldReason, ReasonLabel(w.Reason)).
			Msg(w.Message)
	}

	// Atomically swap configuration
	h.mu.Lock()
	oldCfg := h.current
	h.current = newCfg
	h.mu.Unlock()

	metrics.RecordReload(true)
	metrics.SetConfigInfo(newCfg.Organism.String(), newCfg.Run.Aligner)

	// Notify listeners of config change
	h.notifyListeners(newCfg)

	// Log configuration changes
	h.logChanges(oldCfg, newCfg)

	logger.Info().
		Str(log.FieldEvent, "config.reload_success").
		Msg("configuration reloaded successfully")

	return nil
}

// StartWatcher starts watching the settings file for changes.
// If no settings file is used, this is a no-op (config comes from ENV only).
// The directory is watched so atomic replacements are seen.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.configPath == "" {
		h.logger.Info().
			Str(log.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (using ENV-only configuration)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(h.configPath)); err != nil {
		_ = watcher.Close() // Ignore close error in error path
		return fmt.Errorf("watch config dir: %w", err)
	}

	h.watchMu.Lock()
	h.watcher = watcher
	h.watchMu.Unlock()

	h.logger.Info().
		Str(log.FieldEvent, "config.watcher_started").
		Str(log.FieldPath, h.configPath).
		Msg("watching config file for changes")

	h.wg.Add(1)
	go h.watchLoop(ctx, watcher)

	return nil
}

// watchLoop is the main file watcher loop.
func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer h.wg.Done()

	// Debounce timer to avoid multiple reloads for rapid file changes
	debounce := time.NewTimer(h.Debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()
	target := filepath.Clean(h.configPath)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(log.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			// Write, Create and Rename cover in-place edits and atomic replacement
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				h.logger.Debug().
					Str(log.FieldEvent, "config.file_changed").
					Str("op", event.Op.String()).
					Msg("config file changed")
				debounce.Reset(h.Debounce)
			}

		case <-debounce.C:
			if err := h.Reload(ctx); err != nil {
				h.logger.Error().
					Err(err).
					Str(log.FieldEvent, "config.auto_reload_failed").
					Msg("automatic config reload failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(log.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop stops the config watcher (if running) and waits for it to exit.
func (h *Holder) Stop() {
	h.watchMu.Lock()
	if h.watcher != nil {
		_ = h.watcher.Close() // Ignore close error in error path
	}
	h.watchMu.Unlock()
	h.wg.Wait()
}

// RegisterListener registers a channel to receive config reload notifications.
// The channel will receive the new config whenever a reload succeeds.
// The caller is responsible for closing the channel.
func (h *Holder) RegisterListener(ch chan<- Resolved) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	h.reloadListeners = append(h.reloadListeners, ch)
}

// notifyListeners sends the new config to all registered listeners (non-blocking).
func (h *Holder) notifyListeners(newCfg Resolved) {
	h.reloadMu.RLock()
	defer h.reloadMu.RUnlock()

	for _, ch := range h.reloadListeners {
		select {
		case ch <- newCfg.Clone():
		default:
			// Skip if channel is full (non-blocking send)
			h.logger.Warn().
				Str(log.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

// logChanges logs the differences between old and new configuration.
func (h *Holder) logChanges(old, newCfg Resolved) {
	summary := Diff(old, newCfg)
	if len(summary.ChangedFields) == 0 {
		return
	}
	oldFields := old.Fields()
	newFields := newCfg.Fields()
	for _, name := range summary.ChangedFields {
		h.logger.Info().
			Str(log.FieldField, name).
			Str("old", oldFields[name]).
			Str("new", newFields[name]).
			Msg("config changed")
	}
	if summary.RestartRequired {
		h.logger.Warn().
			Strs("fields", summary.ChangedFields).
			Msg("changed fields take effect on the next pipeline run only")
	}
}
