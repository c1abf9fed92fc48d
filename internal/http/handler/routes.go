package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes attaches all HTTP routes. auth guards the management API;
// the share endpoints stay public because the token in the URL is the
// credential.
func RegisterRoutes(app *fiber.App, db *sql.DB, auth fiber.Handler,
	bookings *BookingHandler, documents *DocumentHandler, shares *ShareHandler) {

	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Readiness: database connectivity only. Storage backends are allowed to
	// be down; uploads then fail over or return 503 per request.
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Liveness probe.
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// Public share endpoints.
	share := app.Group("/api/share")
	share.Get("/:token", shares.View)
	share.Get("/:token/download-all", shares.DownloadAll)
	share.Get("/:token/download/:docId", shares.Download)

	api := app.Group("/api", auth)

	b := api.Group("/bookings")
	// Static segments are registered before parameterized ones so
	// /bookings/trash never matches :id.
	b.Get("/trash", bookings.ListTrashed)
	b.Delete("/trash", bookings.EmptyTrash)
	b.Post("/import", bookings.ImportCSV)
	b.Get("/export", bookings.ExportCSV)

	b.Get("/", bookings.List)
	b.Post("/", bookings.Create)
	b.Get("/:id", bookings.Get)
	b.Put("/:id", bookings.Update)
	b.Delete("/:id", bookings.MoveToTrash)
	b.Post("/:id/restore", bookings.Restore)

	b.Get("/:id/documents", documents.List)
	b.Post("/:id/documents", documents.Upload)
	b.Patch("/:id/documents/:docId", documents.UpdateCategory)
	b.Delete("/:id/documents/:docId", documents.Delete)
	b.Put("/:id/itinerary", documents.UpdateItinerary)

	b.Post("/:id/share", shares.Generate)
	b.Get("/:id/share", shares.GetExisting)
}
