package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/markbates/goth"
	gothfiber "github.com/shareed2k/goth_fiber"
	"github.com/sujit-baniya/flash"

	"github.com/primoteam/primotracker/app/repository"
	"github.com/primoteam/primotracker/internal/pkg/session"
	"github.com/primoteam/primotracker/internal/pkg/usercontext"
)

// OAuthController completes the provider flow and logs the rep in. The
// provider exchange is injectable so handler tests can skip the live OAuth
// round trip.
type OAuthController struct {
	repRepo      repository.RepRepository
	completeAuth func(c *fiber.Ctx) (goth.User, error)
}

// NewOAuthController wires a controller with explicit dependencies.
func NewOAuthController(repRepo repository.RepRepository) *OAuthController {
	return &OAuthController{
		repRepo:      repRepo,
		completeAuth: func(c *fiber.Ctx) (goth.User, error) {
			return gothfiber.CompleteUserAuth(c)
		},
	}
}

var oauthController *OAuthController

// InitializeOAuthController initializes the global oauth controller
func InitializeOAuthController() {
	oauthController = NewOAuthController(repository.GetGlobalFactory().GetRepRepository())
}

// GetOAuthController returns the global oauth controller instance
func GetOAuthController() *OAuthController {
	if oauthController == nil {
		InitializeOAuthController()
	}
	return oauthController
}

// HandleOAuthLogin starts the provider flow
func HandleOAuthLogin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleOAuthCallback is the package-level handler the router binds.
func HandleOAuthCallback(c *fiber.Ctx) error {
	return GetOAuthController().HandleCallback(c)
}

// HandleCallback completes the provider flow and logs the rep in.
// There is no auto-provisioning: the Slack account must match the
// SlackUserID of an existing rep.
func (oc *OAuthController) HandleCallback(c *fiber.Ctx) error {
	u, err := oc.completeAuth(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(fmt.Sprintf("OAuth failed: %v", err))
	}

	rep, err := oc.repRepo.GetBySlackUserID(u.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("db error: %v", err))
	}
	if rep == nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "This Slack account is not linked to a rep. Ask an admin to add you.",
		}).Redirect("/login")
	}

	if !rep.IsActive() {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "This account is disabled.",
		}).Redirect("/login")
	}

	// Create app session
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("session init failed")
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyRepID, rep.ID)
	sess.Set(usercontext.KeyRepName, rep.Name)
	sess.Set(usercontext.KeyIsAdmin, rep.IsAdmin())
	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("session save failed")
	}

	// Update last login timestamp
	_ = oc.repRepo.TouchLastLogin(rep.ID, time.Now())

	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleOAuthLogout clears the provider session and the app session
func HandleOAuthLogout(c *fiber.Ctx) error {
	_ = gothfiber.Logout(c)
	return HandleAuthLogout(c)
}
