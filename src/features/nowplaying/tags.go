package nowplaying

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/contre95/beebridge/src/features/metrics"
	"github.com/contre95/beebridge/src/music"
)

// ErrInsufficientMetadata means the tags file holds no track, which MusicBee
// does when playback stops.
var ErrInsufficientMetadata = errors.New("insufficient track metadata")

const utf8BOM = "\uFEFF"

// Tags are the fields of one tags file record.
type Tags struct {
	Artists      []string
	Album        string
	Title        string
	AlbumArtists []string
}

// ParseTags parses a tab separated record: artists, album, title, album artists.
// Artists fields are ';' joined. Fields past the fourth are ignored.
func ParseTags(content string, minFields int) (Tags, error) {
	content = strings.TrimPrefix(content, utf8BOM)
	content = strings.TrimSuffix(content, "\n")
	content = strings.TrimSuffix(content, "\r")

	fields := strings.Split(content, "\t")
	if len(fields) < minFields {
		return Tags{}, fmt.Errorf("%w: %d fields, need %d", ErrInsufficientMetadata, len(fields), minFields)
	}
	if allBlank(fields[:minFields]) {
		return Tags{}, fmt.Errorf("%w: all fields empty", ErrInsufficientMetadata)
	}
	// Album and title are required positions regardless of minFields.
	for len(fields) < 3 {
		fields = append(fields, "")
	}

	tags := Tags{
		Artists: music.SplitArtists(fields[0]),
		Album:   fields[1],
		Title:   fields[2],
	}
	if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
		tags.AlbumArtists = music.SplitArtists(fields[3])
	} else {
		tags.AlbumArtists = append([]string(nil), tags.Artists...)
	}
	return tags, nil
}

func allBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// TagLoader reads the tags file into the store.
type TagLoader struct {
	path      string
	minFields int
	settle    Settle
	store     *music.Store
	metrics   *metrics.Metrics
}

// NewTagLoader creates a loader for the tags file at path.
func NewTagLoader(path string, minFields int, settle Settle, store *music.Store, m *metrics.Metrics) *TagLoader {
	return &TagLoader{
		path:      path,
		minFields: minFields,
		settle:    settle,
		store:     store,
		metrics:   m,
	}
}

// Load reads and parses the tags file. A record without a track marks the
// state paused and keeps the previous fields. Read failures leave the state
// untouched and are returned for logging only.
func (l *TagLoader) Load(ctx context.Context) error {
	if err := l.settle.Wait(ctx, l.path); err != nil {
		slog.Debug("Tags file did not settle, reading anyway", "path", l.path, "error", err)
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		l.metrics.TagLoads.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to read tags file: %w", err)
	}

	tags, err := ParseTags(strings.ToValidUTF8(string(data), "\uFFFD"), l.minFields)
	if errors.Is(err, ErrInsufficientMetadata) {
		slog.Info("No track in tags file, marking playback paused", "reason", err)
		l.store.Update(func(t *music.Track) {
			t.State = music.Paused
		})
		l.metrics.TagLoads.WithLabelValues("stopped").Inc()
		return nil
	}
	if err != nil {
		l.metrics.TagLoads.WithLabelValues("error").Inc()
		return err
	}

	l.store.Update(func(t *music.Track) {
		t.Artists = tags.Artists
		t.Album = tags.Album
		t.Title = tags.Title
		t.AlbumArtists = tags.AlbumArtists
		t.State = music.Playing
	})
	l.metrics.TagLoads.WithLabelValues("playing").Inc()
	slog.Info("Loaded track", "title", tags.Title, "artists", tags.Artists, "album", tags.Album)
	return nil
}

// Settle waits for a file being written by another process to stop changing.
// It compares size and modification time across consecutive polls.
type Settle struct {
	Interval time.Duration
	Timeout  time.Duration
}

// ErrNotSettled is returned when the file kept changing until the timeout.
var ErrNotSettled = errors.New("file still changing")

// Wait returns once two consecutive stats of path agree, or an error when the
// timeout elapses first. A zero Timeout disables the check.
func (s Settle) Wait(ctx context.Context, path string) error {
	if s.Timeout <= 0 {
		return nil
	}

	deadline := time.Now().Add(s.Timeout)
	prev, err := os.Stat(path)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		cur, err := os.Stat(path)
		if err != nil {
			return err
		}
		if cur.Size() == prev.Size() && cur.ModTime().Equal(prev.ModTime()) {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrNotSettled
		}
		prev = cur
	}
}
