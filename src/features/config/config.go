package config

import "time"

// Config holds the application configuration.
type Config struct {
	MetadataDir string  `yaml:"metadata_dir" validate:"required,dir"`
	TagsFile    string  `yaml:"tags_file" validate:"required"`
	ArtFile     string  `yaml:"art_file" validate:"required"`
	LastFM      LastFM  `yaml:"lastfm"`
	Hotkeys     Hotkeys `yaml:"hotkeys"`
	Watch       Watch   `yaml:"watch"`
	Tags        Tags    `yaml:"tags"`
	Art         Art     `yaml:"art"`
	Logger      Logger  `yaml:"logger"`
	Server      Server  `yaml:"server"`
	Bus         Bus     `yaml:"bus"`
}

// LastFM holds the configuration for the remote album art lookup
type LastFM struct {
	APIKey   string        `yaml:"api_key"`
	Endpoint string        `yaml:"endpoint" validate:"required,url"`
	Timeout  time.Duration `yaml:"timeout" validate:"gt=0"`
}

// Hotkeys holds the MusicBee shortcuts, as xdotool key names, used to relay commands.
type Hotkeys struct {
	PlayPause  string `yaml:"play_pause"`
	Next       string `yaml:"next"`
	Previous   string `yaml:"previous"`
	WindowName string `yaml:"window_name" validate:"required"`
}

// Watch holds the file watching tunables.
type Watch struct {
	TagsDebounce   time.Duration `yaml:"tags_debounce" validate:"gte=0"`
	ArtDebounce    time.Duration `yaml:"art_debounce" validate:"gte=0"`
	SettleInterval time.Duration `yaml:"settle_interval" validate:"gt=0"`
	SettleTimeout  time.Duration `yaml:"settle_timeout" validate:"gte=0"`
	JoinTimeout    time.Duration `yaml:"join_timeout" validate:"gt=0"`
}

// Tags holds the tags file parsing rules.
type Tags struct {
	MinFields int `yaml:"min_fields" validate:"min=1"`
}

// Art holds the local cover art rules.
type Art struct {
	MinBytes int64 `yaml:"min_bytes" validate:"gte=0"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json logfmt"`
	File   string `yaml:"file"`
}

// Server holds the configuration for the read-only status server
type Server struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    uint32 `yaml:"port" validate:"lte=65535"`
}

// Bus holds the MPRIS registration settings.
type Bus struct {
	PlayerName string `yaml:"player_name" validate:"required,alphanum"`
}

// TagsPath returns the absolute location of the tags file.
func (c *Config) TagsPath() string {
	return joinPath(c.MetadataDir, c.TagsFile)
}

// ArtPath returns the absolute location of the cover art file.
func (c *Config) ArtPath() string {
	return joinPath(c.MetadataDir, c.ArtFile)
}
