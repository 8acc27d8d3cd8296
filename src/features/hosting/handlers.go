package hosting

import (
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
)

// NowPlaying is the JSON view of the current track.
type NowPlaying struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Artists      []string `json:"artists"`
	Album        string   `json:"album"`
	AlbumArtists []string `json:"albumArtists"`
	ArtURL       string   `json:"artUrl,omitempty"`
	Status       string   `json:"status"`
}

// Handler handles the now-playing requests
type Handler struct {
	state       StateReader
	artPath     string
	artMinBytes int64
}

// NewHandler creates a new now-playing handler
func NewHandler(state StateReader, artPath string, artMinBytes int64) *Handler {
	return &Handler{state: state, artPath: artPath, artMinBytes: artMinBytes}
}

// GetNowPlaying returns the current track
func (h *Handler) GetNowPlaying(c *fiber.Ctx) error {
	track := h.state.Snapshot()
	return c.JSON(NowPlaying{
		ID:           track.ID(),
		Title:        track.Title,
		Artists:      track.Artists,
		Album:        track.Album,
		AlbumArtists: track.AlbumArtists,
		ArtURL:       track.ArtURL,
		Status:       track.State.String(),
	})
}

// GetArt serves the local cover art file, when it is a real image
func (h *Handler) GetArt(c *fiber.Ctx) error {
	info, err := os.Stat(h.artPath)
	if err != nil || info.IsDir() || info.Size() < h.artMinBytes {
		slog.Debug("No local cover art to serve", "path", h.artPath, "error", err)
		return c.Status(fiber.StatusNotFound).SendString("No cover art")
	}
	c.Set("Cache-Control", "no-cache")
	return c.SendFile(h.artPath)
}
