package config

import "time"

var defaultConfig = Config{
	TagsFile: "tags.txt",
	ArtFile:  "cover.jpg",
	LastFM: LastFM{
		APIKey:   "", // Can be obtained at https://www.last.fm/api/account/create
		Endpoint: "https://ws.audioscrobbler.com/2.0/",
		Timeout:  5 * time.Second,
	},
	Hotkeys: Hotkeys{
		WindowName: "MusicBee",
	},
	Watch: Watch{
		TagsDebounce:   500 * time.Millisecond,
		ArtDebounce:    500 * time.Millisecond,
		SettleInterval: 100 * time.Millisecond,
		SettleTimeout:  time.Second,
		JoinTimeout:    2 * time.Second,
	},
	Tags: Tags{
		MinFields: 3,
	},
	Art: Art{
		MinBytes: 650,
	},
	Logger: Logger{
		Level:  "info",
		Format: "text",
	},
	Server: Server{
		Enabled: false,
		Host:    "127.0.0.1",
		Port:    5795,
	},
	Bus: Bus{
		PlayerName: "MusicBee",
	},
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}
