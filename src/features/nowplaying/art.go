package nowplaying

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/contre95/beebridge/src/features/metrics"
	"github.com/contre95/beebridge/src/music"
)

// ArtResolver picks the cover art URL for the current track: a remote lookup
// when configured, then the local art file MusicBee exports.
type ArtResolver struct {
	path     string
	minBytes int64
	lookup   ArtLookup
	store    *music.Store
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewArtResolver creates a resolver for the art file at path. lookup may be nil
// when no remote lookup is configured.
func NewArtResolver(path string, minBytes int64, lookup ArtLookup, store *music.Store, m *metrics.Metrics) *ArtResolver {
	return &ArtResolver{
		path:     path,
		minBytes: minBytes,
		lookup:   lookup,
		store:    store,
		metrics:  m,
		now:      time.Now,
	}
}

// Resolve updates the art URL of the current track.
func (r *ArtResolver) Resolve(ctx context.Context) {
	if artURL := r.remote(ctx); artURL != "" {
		r.set(artURL, "lastfm")
		return
	}

	artURL := r.local()
	if artURL == "" {
		r.set("", "none")
		return
	}
	r.set(artURL, "local")
}

func (r *ArtResolver) set(artURL, source string) {
	r.store.Update(func(t *music.Track) {
		t.ArtURL = artURL
	})
	r.metrics.ArtResolutions.WithLabelValues(source).Inc()
	slog.Debug("Resolved cover art", "source", source, "url", artURL)
}

func (r *ArtResolver) remote(ctx context.Context) string {
	if r.lookup == nil {
		return ""
	}

	track := r.store.Snapshot()
	artist := track.PrimaryArtist()
	if track.Album == music.Unknown || track.Album == "" || artist == "" {
		slog.Debug("Skipping remote art lookup, album or artist unknown", "album", track.Album)
		return ""
	}

	start := time.Now()
	artURL, err := r.lookup.AlbumArt(ctx, artist, track.Album)
	r.metrics.LastFMDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Warn("Remote art lookup failed, falling back to local cover art", "artist", artist, "album", track.Album, "error", err)
		return ""
	}
	return artURL
}

// local returns a file URI for the art file, with a timestamp query so clients
// do not keep showing a cached image after MusicBee rewrites the file.
// Files smaller than minBytes are placeholders and yield "".
func (r *ArtResolver) local() string {
	info, err := os.Stat(r.path)
	if err != nil {
		slog.Warn("Could not load cover art", "path", r.path, "error", err)
		return ""
	}
	if info.IsDir() || info.Size() < r.minBytes {
		slog.Debug("Cover art file too small, treating as absent", "path", r.path, "size", info.Size())
		return ""
	}

	abs, err := filepath.Abs(r.path)
	if err != nil {
		abs = r.path
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "t=" + strconv.FormatInt(r.now().UnixMilli(), 10),
	}
	return u.String()
}
