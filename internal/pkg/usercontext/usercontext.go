package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the complete rep context for a request
type UserContext struct {
	RepID      uint   `json:"rep_id"`
	RepName    string `json:"rep_name"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false}
}

// IsLoggedIn checks if the current rep is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current rep is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetRepID returns the current rep's ID, or 0 if not logged in
func GetRepID(c *fiber.Ctx) uint {
	return GetUserContext(c).RepID
}

// GetRepName returns the current rep's name, or empty string if not logged in
func GetRepName(c *fiber.Ctx) string {
	return GetUserContext(c).RepName
}
