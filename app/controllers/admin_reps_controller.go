package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/primoteam/primotracker/app/models"
	"github.com/primoteam/primotracker/app/repository"
)

// AdminRepsController handles admin rep management using repository pattern
type AdminRepsController struct {
	repRepo repository.RepRepository
}

// NewAdminRepsController creates a new admin reps controller with repository
func NewAdminRepsController(repRepo repository.RepRepository) *AdminRepsController {
	return &AdminRepsController{
		repRepo: repRepo,
	}
}

// handleError is a helper method for consistent error handling
func (arc *AdminRepsController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/reps")
}

// HandleAdminReps renders the rep management page
func (arc *AdminRepsController) HandleAdminReps(c *fiber.Ctx) error {
	reps, err := arc.repRepo.List(0, 200)
	if err != nil {
		return arc.handleError(c, "Failed to load reps", err)
	}

	return renderPage(c, "admin/reps", fiber.Map{
		"Title": "Rep Management",
		"Reps":  reps,
	})
}

// HandleAdminRepCreate renders the rep creation form
func (arc *AdminRepsController) HandleAdminRepCreate(c *fiber.Ctx) error {
	return renderPage(c, "admin/rep_form", fiber.Map{
		"Title": "New Rep",
	})
}

// HandleAdminRepStore handles rep creation
func (arc *AdminRepsController) HandleAdminRepStore(c *fiber.Ctx) error {
	name := c.FormValue("name")
	password := c.FormValue("password")
	role := c.FormValue("role", models.ROLE_REP)

	if name == "" || password == "" {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Name and password are required",
		}).Redirect("/admin/reps/create")
	}

	rep, err := models.CreateRep(name, password, role)
	if err != nil {
		return arc.handleError(c, "Failed to validate rep", err)
	}
	rep.SlackUserID = c.FormValue("slack_user_id")

	if err := arc.repRepo.Create(rep); err != nil {
		return arc.handleError(c, "Failed to create rep", err)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Rep " + rep.Name + " created",
	}).Redirect("/admin/reps")
}

// HandleAdminRepEdit renders the rep edit form
func (arc *AdminRepsController) HandleAdminRepEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return arc.handleError(c, "Invalid rep id", err)
	}

	rep, err := arc.repRepo.GetByID(uint(id))
	if err != nil {
		return arc.handleError(c, "Rep not found", err)
	}

	return renderPage(c, "admin/rep_form", fiber.Map{
		"Title": "Edit Rep",
		"Rep":   rep,
	})
}

// HandleAdminRepUpdate handles rep updates
func (arc *AdminRepsController) HandleAdminRepUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return arc.handleError(c, "Invalid rep id", err)
	}

	rep, err := arc.repRepo.GetByID(uint(id))
	if err != nil {
		return arc.handleError(c, "Rep not found", err)
	}

	if name := c.FormValue("name"); name != "" {
		rep.Name = name
	}
	if role := c.FormValue("role"); role != "" {
		rep.Role = role
	}
	if status := c.FormValue("status"); status != "" {
		rep.Status = status
	}
	rep.SlackUserID = c.FormValue("slack_user_id")

	// Only replace the password when a new one was typed
	if password := c.FormValue("password"); password != "" {
		hash, err := models.HashPassword(password)
		if err != nil {
			return arc.handleError(c, "Failed to hash password", err)
		}
		rep.PasswordHash = hash
	}

	if err := rep.Validate(); err != nil {
		return arc.handleError(c, "Invalid rep data", err)
	}

	if err := arc.repRepo.Update(rep); err != nil {
		return arc.handleError(c, "Failed to update rep", err)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Rep " + rep.Name + " updated",
	}).Redirect("/admin/reps")
}

// HandleAdminRepDelete handles rep deletion
func (arc *AdminRepsController) HandleAdminRepDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return arc.handleError(c, "Invalid rep id", err)
	}

	if err := arc.repRepo.Delete(uint(id)); err != nil {
		return arc.handleError(c, "Failed to delete rep", err)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Rep deleted",
	}).Redirect("/admin/reps")
}

// ============================================================================
// GLOBAL ADMIN REPS CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminRepsController *AdminRepsController

// InitializeAdminRepsController initializes the global admin reps controller
func InitializeAdminRepsController() {
	repRepo := repository.GetGlobalFactory().GetRepRepository()
	adminRepsController = NewAdminRepsController(repRepo)
}

// GetAdminRepsController returns the global admin reps controller instance
func GetAdminRepsController() *AdminRepsController {
	if adminRepsController == nil {
		InitializeAdminRepsController()
	}
	return adminRepsController
}
