package config

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Manager holds the application configuration and provides thread-safe access to it.
type Manager struct {
	mu     sync.RWMutex
	config *Config
}

// NewManager creates a new ConfigManager.
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// GetJSON returns the configuration as indented JSON with secrets masked, for debug logging.
func (m *Manager) GetJSON() string {
	m.mu.RLock()
	cfg := *m.config
	m.mu.RUnlock()

	if cfg.LastFM.APIKey != "" {
		cfg.LastFM.APIKey = "********"
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Sprintf("failed to marshal config: %v", err)
	}
	return string(data)
}
