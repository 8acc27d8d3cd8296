package mpris

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/contre95/beebridge/src/features/nowplaying"
	"github.com/contre95/beebridge/src/music"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

// MPRIS interface constants
const (
	objectPath      = "/org/mpris/MediaPlayer2"
	rootInterface   = "org.mpris.MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"
	busPrefix       = "org.mpris.MediaPlayer2."
	trackPathPrefix = "/org/mpris/MediaPlayer2/Track/"
)

// ErrNameTaken is returned when another process already owns the player bus name.
var ErrNameTaken = errors.New("bus name already taken")

// Source is the state and command backend of the player.
type Source interface {
	Snapshot() music.Track
	Capabilities() nowplaying.Capabilities
	Position() int64
	MinimumRate() float64
	MaximumRate() float64

	Play(ctx context.Context)
	Pause(ctx context.Context)
	Resume(ctx context.Context)
	PlayPause(ctx context.Context)
	Stop(ctx context.Context)
	Next(ctx context.Context)
	Previous(ctx context.Context)
}

// Server publishes a Source as an MPRIS player on the session bus.
type Server struct {
	conn    *dbus.Conn
	name    string
	busName string

	mu     sync.Mutex
	source Source
	props  *prop.Properties
}

// Connect connects to the session bus and claims org.mpris.MediaPlayer2.<name>.
// Nothing is exported until Export is called; Publish is a no-op until then.
func Connect(name string) (*Server, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to D-Bus session bus: %w", err)
	}

	busName := busPrefix + name
	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to request D-Bus name %s: %w", busName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrNameTaken, busName)
	}

	slog.Info("Connected to session bus", "name", busName)
	return &Server{conn: conn, name: name, busName: busName}, nil
}

// Export registers the MPRIS objects backed by source.
func (s *Server) Export(source Source) error {
	root := &mediaPlayer2{}
	player := &player{source: source}

	if err := s.conn.Export(root, objectPath, rootInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", rootInterface, err)
	}
	if err := s.conn.Export(player, objectPath, playerInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", playerInterface, err)
	}

	props, err := prop.Export(s.conn, objectPath, propsSpec(s.name, source))
	if err != nil {
		return fmt.Errorf("failed to export properties: %w", err)
	}

	n := &introspect.Node{
		Name: objectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       rootInterface,
				Methods:    introspect.Methods(root),
				Properties: props.Introspection(rootInterface),
			},
			{
				Name:       playerInterface,
				Methods:    introspect.Methods(player),
				Properties: props.Introspection(playerInterface),
			},
		},
	}
	if err := s.conn.Export(introspect.NewIntrospectable(n), objectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspection: %w", err)
	}

	s.mu.Lock()
	s.source = source
	s.props = props
	s.mu.Unlock()

	slog.Info("MPRIS interface exported", "name", s.busName)
	return nil
}

// Publish pulls the changed state from the source and emits PropertiesChanged.
func (s *Server) Publish(changes ...nowplaying.Change) {
	s.mu.Lock()
	source, props := s.source, s.props
	s.mu.Unlock()
	if props == nil {
		return
	}

	track := source.Snapshot()
	for _, change := range changes {
		switch change {
		case nowplaying.TitleChanged:
			props.SetMust(playerInterface, "Metadata", Metadata(track))
		case nowplaying.PlaybackChanged:
			props.SetMust(playerInterface, "PlaybackStatus", track.State.String())
		}
	}
	slog.Debug("Published MPRIS changes", "changes", changes, "title", track.Title, "status", track.State)
}

// Close releases the bus name and closes the connection.
func (s *Server) Close() error {
	if _, err := s.conn.ReleaseName(s.busName); err != nil {
		slog.Warn("Failed to release bus name", "name", s.busName, "error", err)
	}
	return s.conn.Close()
}

// Metadata builds the MPRIS metadata map of a track.
func Metadata(t music.Track) map[string]dbus.Variant {
	metadata := map[string]dbus.Variant{
		"mpris:trackid":     dbus.MakeVariant(TrackPath(t)),
		"xesam:title":       dbus.MakeVariant(t.Title),
		"xesam:album":       dbus.MakeVariant(t.Album),
		"xesam:artist":      dbus.MakeVariant(t.Artists),
		"xesam:albumArtist": dbus.MakeVariant(t.AlbumArtists),
	}
	if t.ArtURL != "" {
		metadata["mpris:artUrl"] = dbus.MakeVariant(t.ArtURL)
	}
	return metadata
}

// TrackPath returns the mpris:trackid object path of a track.
func TrackPath(t music.Track) dbus.ObjectPath {
	// Object path elements only allow [A-Za-z0-9_].
	id := []byte(t.ID())
	for i, b := range id {
		if b == '-' {
			id[i] = '_'
		}
	}
	return dbus.ObjectPath(trackPathPrefix + "T" + string(id))
}

func propsSpec(name string, source Source) map[string]map[string]*prop.Prop {
	caps := source.Capabilities()
	track := source.Snapshot()
	return map[string]map[string]*prop.Prop{
		rootInterface: {
			"CanQuit":             {Value: caps.CanQuit, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"CanRaise":            {Value: caps.CanRaise, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"CanSetFullscreen":    {Value: caps.CanSetFullscreen, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"Fullscreen":          {Value: false, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"HasTrackList":        {Value: caps.HasTrackList, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"Identity":            {Value: name, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"DesktopEntry":        {Value: "", Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"SupportedUriSchemes": {Value: []string{}, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"SupportedMimeTypes":  {Value: []string{}, Writable: false, Emit: prop.EmitTrue, Callback: nil},
		},
		playerInterface: {
			"PlaybackStatus": {Value: track.State.String(), Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"LoopStatus":     {Value: "None", Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"Rate":           {Value: 1.0, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"Shuffle":        {Value: false, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"Metadata":       {Value: Metadata(track), Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"Volume":         {Value: 1.0, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"Position":       {Value: source.Position(), Writable: false, Emit: prop.EmitFalse, Callback: nil},
			"MinimumRate":    {Value: source.MinimumRate(), Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"MaximumRate":    {Value: source.MaximumRate(), Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"CanGoNext":      {Value: caps.CanGoNext, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"CanGoPrevious":  {Value: caps.CanGoPrevious, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"CanPlay":        {Value: caps.CanPlay, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"CanPause":       {Value: caps.CanPause, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"CanSeek":        {Value: caps.CanSeek, Writable: false, Emit: prop.EmitTrue, Callback: nil},
			"CanControl":     {Value: caps.CanControl, Writable: false, Emit: prop.EmitConst, Callback: nil},
		},
	}
}
