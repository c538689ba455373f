package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/primoteam/primotracker/app/controllers"
	"github.com/primoteam/primotracker/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/logout", middleware.RequireAuth, controllers.HandleOAuthLogout)
	app.Get("/auth/:provider", controllers.HandleOAuthLogin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Slack Events API (no CSRF, signature-verified in controller)
	app.Post("/slack/events", controllers.HandleSlackEvents)

	// Geofence check-in for the dashboard add form
	app.Post("/geo/resolve", middleware.RequireAPISessionAuth, controllers.HandleGeoResolve)

	// Weekly CSV export
	app.Get("/export.csv", middleware.RequireAuth, controllers.HandleExportCSV)
}
