package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/primoteam/primotracker/app/models"
	"github.com/primoteam/primotracker/app/repository"
	"github.com/primoteam/primotracker/internal/pkg/session"
	"github.com/primoteam/primotracker/internal/pkg/usercontext"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		rep, err := repository.GetGlobalRepositories().Rep.GetByName(c.FormValue("username"))
		if err != nil || rep == nil {
			fm["message"] = "Invalid credentials."

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !models.CheckPasswordHash(c.FormValue("password"), rep.PasswordHash) {
			fm["message"] = "Invalid credentials."

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !rep.IsActive() {
			fm["message"] = "This account is disabled."

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(usercontext.AuthKey, true)
		sess.Set(usercontext.KeyRepID, rep.ID)
		sess.Set(usercontext.KeyRepName, rep.Name)
		sess.Set(usercontext.KeyIsAdmin, rep.IsAdmin())

		err = sess.Save()
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		_ = repository.GetGlobalRepositories().Rep.TouchLastLogin(rep.ID, time.Now())

		next := c.FormValue("next", "/")
		return flash.WithSuccess(c, fiber.Map{
			"type":    "success",
			"message": fmt.Sprintf("Welcome back, %s!", rep.Name),
		}).Redirect(next)
	}

	if isLoggedIn(c) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	next := c.Query("next", "/")
	return renderPage(c, "login", fiber.Map{
		"Title":   "Login",
		"NextURL": next,
	})
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	err = sess.Destroy()
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	c.Locals(usercontext.KeyFromProtected, false)

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "You are logged out.",
	}).Redirect("/login")
}
