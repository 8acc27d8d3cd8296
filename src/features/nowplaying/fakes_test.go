package nowplaying

import (
	"context"
	"sync"
)

// fakeLookup is an ArtLookup returning a fixed answer.
type fakeLookup struct {
	url   string
	err   error
	calls []string
}

func (f *fakeLookup) AlbumArt(ctx context.Context, artist, album string) (string, error) {
	f.calls = append(f.calls, artist+" - "+album)
	return f.url, f.err
}

// fakeDispatcher records the hotkeys it was asked to send.
type fakeDispatcher struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeDispatcher) Send(ctx context.Context, key, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, key+"@"+title)
	return f.err
}

// recordingPublisher records published changes.
type recordingPublisher struct {
	mu      sync.Mutex
	changes []Change
}

func (p *recordingPublisher) Publish(changes ...Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, changes...)
}

// countingLoader counts coordinator triggered loads.
type countingLoader struct {
	mu   sync.Mutex
	tags int
	art  int
}

func (l *countingLoader) LoadTags(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tags++
}

func (l *countingLoader) ResolveArt(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.art++
}

func (l *countingLoader) counts() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tags, l.art
}
