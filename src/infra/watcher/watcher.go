package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrJoinTimeout is returned by StopWait when the event loop did not exit in time.
var ErrJoinTimeout = errors.New("watcher loop did not exit in time")

// Watcher monitors a single directory, non-recursively, and hands file
// creation and modification events to its Handler.
type Watcher struct {
	watcher   *fsnotify.Watcher
	watchPath string
	handler   Handler
	mu        sync.Mutex
	running   bool
	stopChan  chan struct{}
	done      chan struct{}
}

// NewWatcher creates a new file system watcher
func NewWatcher(handler Handler) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  watcher,
		handler:  handler,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching watchPath for file changes
func (w *Watcher) Start(ctx context.Context, watchPath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running on %s", w.watchPath)
	}

	info, err := os.Stat(watchPath)
	if err != nil {
		return fmt.Errorf("failed to stat watch path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch path %s is not a directory", watchPath)
	}

	if err := w.watcher.Add(watchPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", watchPath, err)
	}

	w.watchPath = watchPath
	w.running = true
	go w.watchLoop(ctx)

	slog.Info("File watcher started", "path", watchPath)
	return nil
}

// Stop stops the file watcher without waiting for the event loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		w.watcher.Close()
		return
	}

	slog.Info("Stopping file watcher", "path", w.watchPath)
	w.running = false
	close(w.stopChan)
	w.watcher.Close()
}

// StopWait stops the watcher and waits up to timeout for an event being
// handled to finish.
func (w *Watcher) StopWait(timeout time.Duration) error {
	w.mu.Lock()
	started := w.watchPath != ""
	w.mu.Unlock()

	w.Stop()
	if !started {
		return nil
	}

	select {
	case <-w.done:
		return nil
	case <-time.After(timeout):
		return ErrJoinTimeout
	}
}

// IsRunning reports whether the watcher is started.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// watchLoop processes file system events
func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent processes a single file system event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	var eventType FileEventType
	switch {
	case event.Has(fsnotify.Write):
		eventType = FileModified
	case event.Has(fsnotify.Create):
		eventType = FileCreated
	default:
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return
	}

	w.handler(FileEvent{
		Path:      event.Name,
		Name:      filepath.Base(event.Name),
		EventType: eventType,
		Timestamp: time.Now(),
	})
}
