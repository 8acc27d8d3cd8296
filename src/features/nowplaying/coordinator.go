package nowplaying

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/contre95/beebridge/src/features/metrics"
	"github.com/contre95/beebridge/src/infra/watcher"
)

// Loader is what the coordinator triggers on file changes.
type Loader interface {
	LoadTags(ctx context.Context)
	ResolveArt(ctx context.Context)
}

// FileWatcher is a directory watch that can be started once and stopped.
type FileWatcher interface {
	Start(ctx context.Context, dir string) error
	StopWait(timeout time.Duration) error
}

// WatcherFactory builds a watcher delivering events to handler.
type WatcherFactory func(handler watcher.Handler) (FileWatcher, error)

// CoordinatorOptions configure a Coordinator.
type CoordinatorOptions struct {
	Dir          string
	TagsFile     string
	ArtFile      string
	TagsDebounce time.Duration
	ArtDebounce  time.Duration
	JoinTimeout  time.Duration
}

// Coordinator watches the metadata directory and reloads the tags or the art
// when MusicBee rewrites them.
type Coordinator struct {
	opts       CoordinatorOptions
	loader     Loader
	debouncer  *watcher.Debouncer
	newWatcher WatcherFactory
	metrics    *metrics.Metrics

	mu      sync.Mutex
	current FileWatcher
}

// NewCoordinator creates a coordinator backed by fsnotify watchers.
func NewCoordinator(opts CoordinatorOptions, loader Loader, m *metrics.Metrics) *Coordinator {
	return &Coordinator{
		opts:   opts,
		loader: loader,
		debouncer: watcher.NewDebouncer(map[string]time.Duration{
			opts.TagsFile: opts.TagsDebounce,
			opts.ArtFile:  opts.ArtDebounce,
		}),
		newWatcher: func(handler watcher.Handler) (FileWatcher, error) {
			return watcher.NewWatcher(handler)
		},
		metrics: m,
	}
}

// HandleEvent dispatches one file event. Tags changes reload the art as well
// since the remote lookup depends on album and artist.
func (c *Coordinator) HandleEvent(ctx context.Context, ev watcher.FileEvent) {
	switch ev.Name {
	case c.opts.TagsFile:
		if !c.allow(ev.Name) {
			return
		}
		slog.Info("Tags update detected", "path", ev.Path, "event", ev.EventType)
		c.loader.LoadTags(ctx)
		c.loader.ResolveArt(ctx)
	case c.opts.ArtFile:
		if !c.allow(ev.Name) {
			return
		}
		slog.Info("Cover art update detected", "path", ev.Path, "event", ev.EventType)
		c.loader.ResolveArt(ctx)
	}
}

func (c *Coordinator) allow(name string) bool {
	if !c.debouncer.Allow(name) {
		c.metrics.WatchEvents.WithLabelValues(name, "debounced").Inc()
		slog.Debug("Debounced file event", "file", name)
		return false
	}
	c.metrics.WatchEvents.WithLabelValues(name, "handled").Inc()
	return true
}

// Start (re)starts watching the metadata directory. A running watch is
// stopped first.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	w, err := c.newWatcher(func(ev watcher.FileEvent) {
		c.HandleEvent(ctx, ev)
	})
	if err != nil {
		slog.Error("Failed to create file watcher", "error", err)
		return err
	}
	if err := w.Start(ctx, c.opts.Dir); err != nil {
		slog.Error("Failed to start file watcher", "dir", c.opts.Dir, "error", err)
		_ = w.StopWait(c.opts.JoinTimeout)
		return fmt.Errorf("failed to start watching %s: %w", c.opts.Dir, err)
	}

	c.current = w
	slog.Info("Watching metadata directory", "dir", c.opts.Dir, "tags", c.opts.TagsFile, "art", c.opts.ArtFile)
	return nil
}

// Stop stops the current watch, if any.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Coordinator) stopLocked() {
	if c.current == nil {
		return
	}
	err := c.current.StopWait(c.opts.JoinTimeout)
	switch {
	case errors.Is(err, watcher.ErrJoinTimeout):
		slog.Warn("File watcher did not stop in time", "timeout", c.opts.JoinTimeout)
	case err != nil:
		slog.Error("Failed to stop file watcher", "error", err)
	default:
		slog.Info("File watcher stopped")
	}
	c.current = nil
}
