package music

import (
	"strings"

	"github.com/google/uuid"
)

// Unknown is the placeholder used for every text field MusicBee has not reported yet.
const Unknown = "Unknown"

// PlayState is the playback state exposed to media-control clients.
type PlayState int

const (
	Paused PlayState = iota
	Playing
)

// String returns the MPRIS PlaybackStatus value for the state.
func (s PlayState) String() string {
	if s == Playing {
		return "Playing"
	}
	return "Paused"
}

// Track is the now-playing state exported by MusicBee.
type Track struct {
	Artists      []string
	Album        string
	Title        string
	AlbumArtists []string
	ArtURL       string
	State        PlayState
}

// NewTrack returns a track holding the defaults used before anything was loaded.
func NewTrack() Track {
	return Track{
		Artists:      []string{Unknown},
		Album:        Unknown,
		Title:        Unknown,
		AlbumArtists: []string{Unknown},
		State:        Paused,
	}
}

// Clone returns a deep copy of the track.
func (t Track) Clone() Track {
	c := t
	c.Artists = append([]string(nil), t.Artists...)
	c.AlbumArtists = append([]string(nil), t.AlbumArtists...)
	return c
}

// PrimaryArtist returns the artist used for album lookups: the first album artist
// when usable, else the first track artist, else "".
func (t Track) PrimaryArtist() string {
	if len(t.AlbumArtists) > 0 && usable(t.AlbumArtists[0]) {
		return t.AlbumArtists[0]
	}
	if len(t.Artists) > 0 && usable(t.Artists[0]) {
		return t.Artists[0]
	}
	return ""
}

// ID returns a deterministic identifier for the track, stable across reloads of the same song.
func (t Track) ID() string {
	key := strings.Join(t.Artists, ";") + "\x00" + t.Album + "\x00" + t.Title
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// SplitArtists splits a ';' joined artist field, keeping display order.
func SplitArtists(raw string) []string {
	return strings.Split(raw, ";")
}

func usable(name string) bool {
	return strings.TrimSpace(name) != "" && name != Unknown
}
