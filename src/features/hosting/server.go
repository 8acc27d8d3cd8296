package hosting

import (
	"fmt"
	"log/slog"

	"github.com/contre95/beebridge/src/features/config"
	"github.com/contre95/beebridge/src/features/metrics"
	"github.com/contre95/beebridge/src/music"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// StateReader is the read side of the now-playing service.
type StateReader interface {
	Snapshot() music.Track
}

// Server is the read-only status server.
type Server struct {
	app  *fiber.App
	addr string
}

// NewServer creates a new status server.
func NewServer(cfg *config.Manager, state StateReader, m *metrics.Metrics) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("Internal Server Error", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
		AppName:               "beebridge",
		DisableStartupMessage: true,
	})

	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	handler := NewHandler(state, cfg.Get().ArtPath(), cfg.Get().Art.MinBytes)
	RegisterRoutes(app, handler)

	return &Server{
		app:  app,
		addr: fmt.Sprintf("%s:%d", cfg.Get().Server.Host, cfg.Get().Server.Port),
	}
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	slog.Info("Status server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
