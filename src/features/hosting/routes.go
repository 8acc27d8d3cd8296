package hosting

import "github.com/gofiber/fiber/v2"

// RegisterRoutes registers the now-playing routes
func RegisterRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	api.Get("/nowplaying", handler.GetNowPlaying)
	api.Get("/nowplaying/art", handler.GetArt)
}
