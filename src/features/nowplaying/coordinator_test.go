package nowplaying

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/contre95/beebridge/src/features/metrics"
	"github.com/contre95/beebridge/src/infra/watcher"
)

func newTestCoordinator(loader Loader, debounce time.Duration) *Coordinator {
	return NewCoordinator(CoordinatorOptions{
		TagsFile:     "tags.txt",
		ArtFile:      "cover.jpg",
		TagsDebounce: debounce,
		ArtDebounce:  debounce,
		JoinTimeout:  time.Second,
	}, loader, metrics.New())
}

func event(name string) watcher.FileEvent {
	return watcher.FileEvent{Path: "/music/" + name, Name: name, EventType: watcher.FileModified, Timestamp: time.Now()}
}

func TestCoordinator_DebouncesRepeatedEvents(t *testing.T) {
	loader := &countingLoader{}
	c := newTestCoordinator(loader, 200*time.Millisecond)
	ctx := context.Background()

	c.HandleEvent(ctx, event("tags.txt"))
	c.HandleEvent(ctx, event("tags.txt"))

	if tags, _ := loader.counts(); tags != 1 {
		t.Fatalf("expected one tags load within the debounce window, got %d", tags)
	}

	time.Sleep(250 * time.Millisecond)
	c.HandleEvent(ctx, event("tags.txt"))

	if tags, _ := loader.counts(); tags != 2 {
		t.Errorf("expected a second tags load after the window, got %d", tags)
	}
}

func TestCoordinator_TagsReloadArtToo(t *testing.T) {
	loader := &countingLoader{}
	c := newTestCoordinator(loader, time.Minute)

	c.HandleEvent(context.Background(), event("tags.txt"))

	tags, art := loader.counts()
	if tags != 1 || art != 1 {
		t.Errorf("expected tags and art loads, got %d and %d", tags, art)
	}
}

func TestCoordinator_IndependentCooldowns(t *testing.T) {
	loader := &countingLoader{}
	c := newTestCoordinator(loader, time.Minute)
	ctx := context.Background()

	c.HandleEvent(ctx, event("tags.txt"))
	c.HandleEvent(ctx, event("cover.jpg"))
	c.HandleEvent(ctx, event("cover.jpg"))

	tags, art := loader.counts()
	if tags != 1 || art != 2 {
		t.Errorf("expected 1 tags load and 2 art loads, got %d and %d", tags, art)
	}
}

func TestCoordinator_IgnoresOtherFiles(t *testing.T) {
	loader := &countingLoader{}
	c := newTestCoordinator(loader, 0)

	c.HandleEvent(context.Background(), event("notes.txt"))

	if tags, art := loader.counts(); tags != 0 || art != 0 {
		t.Errorf("expected no loads, got %d and %d", tags, art)
	}
}

// fakeWatcher is a FileWatcher that records its lifecycle.
type fakeWatcher struct {
	startErr error
	started  bool
	stopped  bool
}

func (w *fakeWatcher) Start(ctx context.Context, dir string) error {
	w.started = true
	return w.startErr
}

func (w *fakeWatcher) StopWait(timeout time.Duration) error {
	w.stopped = true
	return nil
}

func TestCoordinator_RestartStopsPreviousWatch(t *testing.T) {
	c := newTestCoordinator(&countingLoader{}, 0)
	var created []*fakeWatcher
	c.newWatcher = func(handler watcher.Handler) (FileWatcher, error) {
		w := &fakeWatcher{}
		created = append(created, w)
		return w, nil
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(created) != 2 {
		t.Fatalf("expected two watchers, got %d", len(created))
	}
	if !created[0].stopped {
		t.Error("expected the first watcher to be stopped on restart")
	}
	if created[1].stopped {
		t.Error("expected the second watcher to keep running")
	}

	c.Stop()
	if !created[1].stopped {
		t.Error("expected Stop to stop the current watcher")
	}
}

func TestCoordinator_StartFailureIsReturned(t *testing.T) {
	c := newTestCoordinator(&countingLoader{}, 0)
	c.newWatcher = func(handler watcher.Handler) (FileWatcher, error) {
		return &fakeWatcher{startErr: errors.New("no such directory")}, nil
	}

	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	c.Stop()
}

func TestCoordinator_WatchesRealDirectory(t *testing.T) {
	dir := t.TempDir()
	loader := &countingLoader{}
	c := NewCoordinator(CoordinatorOptions{
		Dir:          dir,
		TagsFile:     "tags.txt",
		ArtFile:      "cover.jpg",
		TagsDebounce: time.Minute,
		ArtDebounce:  time.Minute,
		JoinTimeout:  time.Second,
	}, loader, metrics.New())

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer c.Stop()

	if err := os.WriteFile(filepath.Join(dir, "tags.txt"), []byte("Alice\tHits\tSong"), 0644); err != nil {
		t.Fatalf("failed to write tags: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if tags, _ := loader.counts(); tags == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	tags, _ := loader.counts()
	t.Errorf("expected one debounced tags load, got %d", tags)
}
