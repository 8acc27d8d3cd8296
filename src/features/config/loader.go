package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "beebridge", "config.yaml")
}

// Load reads a YAML file from the given path on top of the built-in defaults.
// A missing file is not an error; the defaults are returned as they are.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("Config file not found, using defaults", "path", path)
		applyEnv(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides values with environment variables if set
func applyEnv(cfg *Config) {
	if key := os.Getenv("LASTFM_API_KEY"); key != "" {
		cfg.LastFM.APIKey = key
	}
}

// Validate checks the final configuration, after flags were applied.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	for _, name := range []string{c.TagsFile, c.ArtFile} {
		if filepath.Base(name) != name {
			return fmt.Errorf("config validation failed: %q must be a file name inside metadata_dir", name)
		}
	}
	if c.TagsFile == c.ArtFile {
		return fmt.Errorf("config validation failed: tags_file and art_file are both %q", c.TagsFile)
	}
	return nil
}

func joinPath(dir, name string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Join(dir, name)
}
