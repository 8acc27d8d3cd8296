package mpris

import (
	"context"
	"log/slog"

	"github.com/contre95/beebridge/src/music"
	"github.com/godbus/dbus/v5"
)

// mediaPlayer2 implements org.mpris.MediaPlayer2. MusicBee cannot be raised or
// quit from here.
type mediaPlayer2 struct{}

func (mp *mediaPlayer2) Raise() *dbus.Error { return nil }
func (mp *mediaPlayer2) Quit() *dbus.Error  { return nil }

// player implements org.mpris.MediaPlayer2.Player on top of a Source.
type player struct {
	source Source
}

func (p *player) Next() *dbus.Error {
	slog.Debug("MPRIS: Next requested")
	p.source.Next(context.Background())
	return nil
}

func (p *player) Previous() *dbus.Error {
	slog.Debug("MPRIS: Previous requested")
	p.source.Previous(context.Background())
	return nil
}

func (p *player) Pause() *dbus.Error {
	slog.Debug("MPRIS: Pause requested")
	p.source.Pause(context.Background())
	return nil
}

func (p *player) PlayPause() *dbus.Error {
	slog.Debug("MPRIS: PlayPause requested")
	p.source.PlayPause(context.Background())
	return nil
}

func (p *player) Stop() *dbus.Error {
	slog.Debug("MPRIS: Stop requested")
	p.source.Stop(context.Background())
	return nil
}

func (p *player) Play() *dbus.Error {
	slog.Debug("MPRIS: Play requested")
	if p.source.Snapshot().State == music.Paused {
		p.source.Resume(context.Background())
		return nil
	}
	p.source.Play(context.Background())
	return nil
}

// Seeking is not supported; CanSeek is false.

func (p *player) Seek(offset int64) *dbus.Error { return nil }

func (p *player) SetPosition(trackID dbus.ObjectPath, position int64) *dbus.Error { return nil }

func (p *player) OpenUri(uri string) *dbus.Error { return nil }
