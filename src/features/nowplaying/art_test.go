package nowplaying

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/contre95/beebridge/src/features/metrics"
	"github.com/contre95/beebridge/src/music"
)

func newTestResolver(t *testing.T, artSize int, lookup ArtLookup) (*ArtResolver, *music.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cover.jpg")
	if artSize >= 0 {
		if err := os.WriteFile(path, make([]byte, artSize), 0644); err != nil {
			t.Fatalf("failed to write art: %v", err)
		}
	}
	store := music.NewStore()
	store.Update(func(tr *music.Track) {
		tr.Artists = []string{"Bob"}
		tr.AlbumArtists = []string{"Alice"}
		tr.Album = "Greatest Hits"
		tr.Title = "Song X"
	})
	r := NewArtResolver(path, 650, lookup, store, metrics.New())
	r.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return r, store, path
}

func TestArtResolver_NoKeyUsesLocalFile(t *testing.T) {
	r, store, path := newTestResolver(t, 1000, nil)

	r.Resolve(context.Background())

	want := "file://" + filepath.ToSlash(path) + "?t=1700000000123"
	if got := store.Snapshot().ArtURL; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestArtResolver_SmallLocalFileIsAbsent(t *testing.T) {
	r, store, _ := newTestResolver(t, 649, nil)
	store.Update(func(tr *music.Track) { tr.ArtURL = "file:///stale.jpg" })

	r.Resolve(context.Background())

	if got := store.Snapshot().ArtURL; got != "" {
		t.Errorf("expected no art, got %q", got)
	}
}

func TestArtResolver_MissingLocalFileIsAbsent(t *testing.T) {
	r, store, _ := newTestResolver(t, -1, nil)

	r.Resolve(context.Background())

	if got := store.Snapshot().ArtURL; got != "" {
		t.Errorf("expected no art, got %q", got)
	}
}

func TestArtResolver_RemoteWins(t *testing.T) {
	lookup := &fakeLookup{url: "https://lastfm.freetls.fastly.net/i/u/300x300/abc.png"}
	r, store, _ := newTestResolver(t, -1, lookup)

	r.Resolve(context.Background())

	if got := store.Snapshot().ArtURL; got != lookup.url {
		t.Errorf("expected remote url, got %q", got)
	}
	if len(lookup.calls) != 1 || lookup.calls[0] != "Alice - Greatest Hits" {
		t.Errorf("expected lookup by album artist, got %v", lookup.calls)
	}
}

func TestArtResolver_RemoteFailureFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		lookup *fakeLookup
	}{
		{"error", &fakeLookup{err: errors.New("timeout")}},
		{"no album", &fakeLookup{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store, _ := newTestResolver(t, 1000, tt.lookup)

			r.Resolve(context.Background())

			if got := store.Snapshot().ArtURL; !strings.HasPrefix(got, "file://") {
				t.Errorf("expected local fallback, got %q", got)
			}
		})
	}
}

func TestArtResolver_UnknownAlbumSkipsRemote(t *testing.T) {
	lookup := &fakeLookup{url: "https://example.com/a.png"}
	r, store, _ := newTestResolver(t, 1000, lookup)
	store.Update(func(tr *music.Track) { tr.Album = music.Unknown })

	r.Resolve(context.Background())

	if len(lookup.calls) != 0 {
		t.Errorf("expected no remote call, got %v", lookup.calls)
	}
	if got := store.Snapshot().ArtURL; !strings.HasPrefix(got, "file://") {
		t.Errorf("expected local art, got %q", got)
	}
}
