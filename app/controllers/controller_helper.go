package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/primoteam/primotracker/internal/pkg/usercontext"
)

func isLoggedIn(c *fiber.Ctx) bool {
	var fromProtected bool
	if protectedValue := c.Locals(usercontext.KeyFromProtected); protectedValue != nil {
		fromProtected = protectedValue.(bool)
	}

	return fromProtected
}

// renderPage merges the request context every page needs (flash message,
// logged-in rep, csrf token) into the view bind and renders with the main layout.
func renderPage(c *fiber.Ctx, view string, bind fiber.Map) error {
	userCtx := usercontext.GetUserContext(c)

	if bind == nil {
		bind = fiber.Map{}
	}
	bind["Flash"] = flash.Get(c)
	bind["IsLoggedIn"] = userCtx.IsLoggedIn
	bind["IsAdmin"] = userCtx.IsAdmin
	bind["RepName"] = userCtx.RepName
	if csrf := c.Locals("csrf"); csrf != nil {
		bind["CSRFToken"] = csrf.(string)
	}

	return c.Render(view, bind, "layouts/main")
}
