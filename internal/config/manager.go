// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ManuGH/snvconf/internal/log"
	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Manager handles settings persistence.
type Manager struct {
	configPath string
}

// NewManager creates a new settings manager.
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
	}
}

// Path returns the file the manager writes.
func (m *Manager) Path() string {
	return m.configPath
}

// Save writes the settings to disk. Only operator input is persisted;
// resolved paths are always derived again on load.
func (m *Manager) Save(cfg Settings) error {
	if m.configPath == "" {
		return fmt.Errorf("save settings: %w", &InputError{Field: "path", Message: "settings path cannot be empty"})
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0750); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(m.configPath, renameio.WithPermissions(0640))
	if err != nil {
		return fmt.Errorf("create pending settings file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger := log.WithComponent("config")
			logger.Debug().Err(err).Msg("cleanup pending settings file")
		}
	}()

	enc := yaml.NewEncoder(pendingFile)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}

	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace settings file: %w", err)
	}

	return nil
}
