package nowplaying

import "context"

// Change tells a Publisher which part of the state moved.
type Change int

const (
	TitleChanged Change = iota
	PlaybackChanged
)

func (c Change) String() string {
	switch c {
	case TitleChanged:
		return "title"
	case PlaybackChanged:
		return "playback"
	default:
		return "unknown"
	}
}

// Publisher pushes change notifications to the media-control server, which
// then pulls the new state back through the Service.
type Publisher interface {
	Publish(changes ...Change)
}

// NopPublisher drops every notification.
type NopPublisher struct{}

func (NopPublisher) Publish(...Change) {}

// ArtLookup finds a remote cover art URL for an album.
type ArtLookup interface {
	AlbumArt(ctx context.Context, artist, album string) (string, error)
}

// Dispatcher sends a hotkey to the MusicBee window. title is the current
// track title, used to find the window.
type Dispatcher interface {
	Send(ctx context.Context, key, title string) error
}

// Capabilities are the fixed playback capabilities advertised to clients.
type Capabilities struct {
	CanControl       bool
	CanPlay          bool
	CanPause         bool
	CanGoNext        bool
	CanGoPrevious    bool
	CanSeek          bool
	CanSetFullscreen bool
	CanRaise         bool
	CanQuit          bool
	HasTrackList     bool
}

// Hotkeys maps commands to MusicBee shortcuts. Empty entries disable the command.
type Hotkeys struct {
	PlayPause string
	Next      string
	Previous  string
}
