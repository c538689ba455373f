package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/primoteam/primotracker/app/repository"
	"github.com/primoteam/primotracker/internal/pkg/database"
	"github.com/primoteam/primotracker/internal/pkg/slackevents"
	"github.com/primoteam/primotracker/internal/pkg/week"
)

// AdminController handles the admin overview page using repository pattern
type AdminController struct {
	repos *repository.Repositories
}

// NewAdminController creates a new admin controller with repository dependencies
func NewAdminController(repos *repository.Repositories) *AdminController {
	return &AdminController{
		repos: repos,
	}
}

// handleError is a helper method for consistent error handling
func (ac *AdminController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin")
}

// HandleAdminDashboard renders the admin overview
func (ac *AdminController) HandleAdminDashboard(c *fiber.Ctx) error {
	totalReps, err := ac.repos.Rep.Count()
	if err != nil {
		return ac.handleError(c, "Failed to get rep count", err)
	}

	totalStores, err := ac.repos.Store.Count()
	if err != nil {
		return ac.handleError(c, "Failed to get store count", err)
	}

	currentWeek := week.StartOf(time.Now())
	weekTotal, err := ac.repos.Entry.WeekTotal(currentWeek)
	if err != nil {
		return ac.handleError(c, "Failed to get week total", err)
	}

	entriesToday, err := ac.repos.Entry.CountSince(time.Now().Truncate(24 * time.Hour))
	if err != nil {
		return ac.handleError(c, "Failed to get today's entry count", err)
	}

	// Recently processed Slack deliveries for the event log panel
	recentEvents, err := slackevents.RecentEvents(database.GetDB(), 10)
	if err != nil {
		return ac.handleError(c, "Failed to get recent Slack events", err)
	}

	return renderPage(c, "admin/dashboard", fiber.Map{
		"Title":        "Admin",
		"TotalReps":    totalReps,
		"TotalStores":  totalStores,
		"WeekTotal":    weekTotal,
		"WeekLabel":    week.Label(currentWeek),
		"EntriesToday": entriesToday,
		"RecentEvents": recentEvents,
	})
}

// ============================================================================
// GLOBAL ADMIN CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminController *AdminController

// InitializeAdminController initializes the global admin controller with repositories
func InitializeAdminController() {
	adminController = NewAdminController(repository.GetGlobalRepositories())
}

// GetAdminController returns the global admin controller instance
func GetAdminController() *AdminController {
	if adminController == nil {
		InitializeAdminController()
	}
	return adminController
}
