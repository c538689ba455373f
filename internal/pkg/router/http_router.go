package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/primoteam/primotracker/app/controllers"
	"github.com/primoteam/primotracker/internal/pkg/middleware"
	"github.com/primoteam/primotracker/internal/pkg/oauth"
	"github.com/primoteam/primotracker/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize controllers backed by the repository factory
	controllers.InitializeAdminController()
	controllers.InitializeAdminRepsController()
	controllers.InitializeAdminStoresController()
	controllers.InitializeAdminEntriesController()
	controllers.InitializeOAuthController()

	// Slack webhook dependencies come from the environment
	controllers.InitializeSlackController()

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context
	return c.Next()
}
