package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("LASTFM_API_KEY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.TagsFile != "tags.txt" || cfg.ArtFile != "cover.jpg" {
		t.Errorf("unexpected default file names %q, %q", cfg.TagsFile, cfg.ArtFile)
	}
	if cfg.Tags.MinFields != 3 {
		t.Errorf("expected min fields 3, got %d", cfg.Tags.MinFields)
	}
	if cfg.Art.MinBytes != 650 {
		t.Errorf("expected art min bytes 650, got %d", cfg.Art.MinBytes)
	}
	if cfg.LastFM.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.LastFM.Timeout)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("LASTFM_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `metadata_dir: ` + dir + `
tags_file: np.txt
watch:
  tags_debounce: 2s
hotkeys:
  play_pause: ctrl+alt+p
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.TagsFile != "np.txt" {
		t.Errorf("expected tags file np.txt, got %q", cfg.TagsFile)
	}
	if cfg.Watch.TagsDebounce != 2*time.Second {
		t.Errorf("expected 2s tags debounce, got %s", cfg.Watch.TagsDebounce)
	}
	if cfg.Watch.ArtDebounce != 500*time.Millisecond {
		t.Errorf("expected default art debounce, got %s", cfg.Watch.ArtDebounce)
	}
	if cfg.Hotkeys.PlayPause != "ctrl+alt+p" {
		t.Errorf("expected play/pause hotkey, got %q", cfg.Hotkeys.PlayPause)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
	if got := cfg.TagsPath(); got != filepath.Join(dir, "np.txt") {
		t.Errorf("unexpected tags path %q", got)
	}
}

func TestLoad_EnvironmentAPIKey(t *testing.T) {
	t.Setenv("LASTFM_API_KEY", "secret")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.LastFM.APIKey != "secret" {
		t.Errorf("expected api key from environment, got %q", cfg.LastFM.APIKey)
	}
	if json := NewManager(cfg).GetJSON(); strings.Contains(json, "secret") {
		t.Error("expected api key to be masked in JSON dump")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing dir", func(c *Config) { c.MetadataDir = "" }, true},
		{"dir does not exist", func(c *Config) { c.MetadataDir = filepath.Join(dir, "missing") }, true},
		{"tags file with path", func(c *Config) { c.TagsFile = "sub/tags.txt" }, true},
		{"same file twice", func(c *Config) { c.ArtFile = c.TagsFile }, true},
		{"zero min fields", func(c *Config) { c.Tags.MinFields = 0 }, true},
		{"bad log level", func(c *Config) { c.Logger.Level = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.MetadataDir = dir
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
