package nowplaying

import (
	"context"
	"log/slog"

	"github.com/contre95/beebridge/src/features/metrics"
	"github.com/contre95/beebridge/src/music"
)

// Service holds the now-playing state and is the data source of the
// media-control server: it answers state queries and turns playback commands
// into hotkeys.
type Service struct {
	store      *music.Store
	tags       *TagLoader
	art        *ArtResolver
	dispatcher Dispatcher
	hotkeys    Hotkeys
	publisher  Publisher
	metrics    *metrics.Metrics
}

// NewService creates a new now-playing service
func NewService(store *music.Store, tags *TagLoader, art *ArtResolver, dispatcher Dispatcher, hotkeys Hotkeys, publisher Publisher, m *metrics.Metrics) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		store:      store,
		tags:       tags,
		art:        art,
		dispatcher: dispatcher,
		hotkeys:    hotkeys,
		publisher:  publisher,
		metrics:    m,
	}
}

// Refresh loads the tags then the art, as done at startup.
func (s *Service) Refresh(ctx context.Context) {
	s.LoadTags(ctx)
	s.ResolveArt(ctx)
}

// LoadTags reloads the tags file. Clients are notified even when the load failed.
func (s *Service) LoadTags(ctx context.Context) {
	if err := s.tags.Load(ctx); err != nil {
		slog.Error("Failed to load tags", "error", err)
	}
	s.publisher.Publish(TitleChanged, PlaybackChanged)
}

// ResolveArt refreshes the cover art URL and notifies clients.
func (s *Service) ResolveArt(ctx context.Context) {
	s.art.Resolve(ctx)
	s.publisher.Publish(TitleChanged)
}

// Snapshot returns a copy of the current track.
func (s *Service) Snapshot() music.Track {
	return s.store.Snapshot()
}

// Capabilities returns the fixed capabilities: transport control only.
func (s *Service) Capabilities() Capabilities {
	return Capabilities{
		CanControl:    true,
		CanPlay:       true,
		CanPause:      true,
		CanGoNext:     true,
		CanGoPrevious: true,
	}
}

// Position is always 0: MusicBee does not export the playback position.
func (s *Service) Position() int64 { return 0 }

func (s *Service) MinimumRate() float64 { return 1.0 }
func (s *Service) MaximumRate() float64 { return 1.0 }

// MusicBee only offers a toggle shortcut, so play, pause and resume all send it.

func (s *Service) Play(ctx context.Context)      { s.send(ctx, "play", s.hotkeys.PlayPause) }
func (s *Service) Pause(ctx context.Context)     { s.send(ctx, "pause", s.hotkeys.PlayPause) }
func (s *Service) Resume(ctx context.Context)    { s.send(ctx, "resume", s.hotkeys.PlayPause) }
func (s *Service) PlayPause(ctx context.Context) { s.send(ctx, "playpause", s.hotkeys.PlayPause) }
func (s *Service) Next(ctx context.Context)      { s.send(ctx, "next", s.hotkeys.Next) }
func (s *Service) Previous(ctx context.Context)  { s.send(ctx, "previous", s.hotkeys.Previous) }

// Stop toggles playback off when a track is playing.
func (s *Service) Stop(ctx context.Context) {
	if s.store.Snapshot().State != music.Playing {
		return
	}
	s.send(ctx, "stop", s.hotkeys.PlayPause)
}

func (s *Service) send(ctx context.Context, command, key string) {
	if key == "" {
		slog.Debug("No hotkey configured, ignoring command", "command", command)
		return
	}
	s.metrics.Commands.WithLabelValues(command).Inc()
	if err := s.dispatcher.Send(ctx, key, s.store.Snapshot().Title); err != nil {
		slog.Warn("Failed to send hotkey", "command", command, "key", key, "error", err)
	}
}
