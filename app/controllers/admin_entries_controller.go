package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/primoteam/primotracker/app/repository"
	"github.com/primoteam/primotracker/internal/pkg/statistics"
	"github.com/primoteam/primotracker/internal/pkg/week"
)

// AdminEntriesController handles admin entry management using repository pattern
type AdminEntriesController struct {
	entryRepo repository.EntryRepository
}

// NewAdminEntriesController creates a new admin entries controller with repository
func NewAdminEntriesController(entryRepo repository.EntryRepository) *AdminEntriesController {
	return &AdminEntriesController{
		entryRepo: entryRepo,
	}
}

// handleError is a helper method for consistent error handling
func (aec *AdminEntriesController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/entries")
}

// HandleAdminEntries renders the entry management page for the selected week
func (aec *AdminEntriesController) HandleAdminEntries(c *fiber.Ctx) error {
	selected := selectedWeek(c)

	entries, err := aec.entryRepo.ListByWeek(selected)
	if err != nil {
		return aec.handleError(c, "Failed to load entries", err)
	}

	weeks, err := aec.entryRepo.DistinctWeeks()
	if err != nil {
		return aec.handleError(c, "Failed to load week list", err)
	}

	type weekOption struct {
		Value string
		Label string
	}
	weekOptions := make([]weekOption, 0, len(weeks))
	for _, w := range weeks {
		weekOptions = append(weekOptions, weekOption{Value: week.Key(w), Label: week.Label(w)})
	}

	return renderPage(c, "admin/entries", fiber.Map{
		"Title":             "Entry Management",
		"Entries":           entries,
		"Weeks":             weekOptions,
		"SelectedWeekStart": week.Key(selected),
		"RangeLabel":        week.Label(selected),
	})
}

// HandleAdminEntryEdit renders the entry edit form
func (aec *AdminEntriesController) HandleAdminEntryEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return aec.handleError(c, "Invalid entry id", err)
	}

	entry, err := aec.entryRepo.GetByID(uint(id))
	if err != nil {
		return aec.handleError(c, "Entry not found", err)
	}

	return renderPage(c, "admin/entry_form", fiber.Map{
		"Title": "Edit Entry",
		"Entry": entry,
	})
}

// HandleAdminEntryUpdate handles entry updates
func (aec *AdminEntriesController) HandleAdminEntryUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return aec.handleError(c, "Invalid entry id", err)
	}

	entry, err := aec.entryRepo.GetByID(uint(id))
	if err != nil {
		return aec.handleError(c, "Entry not found", err)
	}

	qty, err := strconv.Atoi(c.FormValue("qty"))
	if err != nil || qty <= 0 {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Qty must be a whole number > 0",
		}).Redirect("/admin/entries")
	}
	entry.Qty = qty
	entry.Note = c.FormValue("note")

	if ws, ok := week.Parse(c.FormValue("week_start")); ok {
		entry.WeekStart = ws
	}

	if err := aec.entryRepo.Update(entry); err != nil {
		return aec.handleError(c, "Failed to update entry", err)
	}

	statistics.ResetCacheUpdateTimer()

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Entry updated",
	}).Redirect("/admin/entries?week=" + week.Key(entry.WeekStart))
}

// HandleAdminEntryDelete handles entry deletion
func (aec *AdminEntriesController) HandleAdminEntryDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return aec.handleError(c, "Invalid entry id", err)
	}

	if err := aec.entryRepo.Delete(uint(id)); err != nil {
		return aec.handleError(c, "Failed to delete entry", err)
	}

	statistics.ResetCacheUpdateTimer()

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Entry deleted",
	}).Redirect("/admin/entries?week=" + week.Key(week.StartOf(time.Now())))
}

// ============================================================================
// GLOBAL ADMIN ENTRIES CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminEntriesController *AdminEntriesController

// InitializeAdminEntriesController initializes the global admin entries controller
func InitializeAdminEntriesController() {
	entryRepo := repository.GetGlobalFactory().GetEntryRepository()
	adminEntriesController = NewAdminEntriesController(entryRepo)
}

// GetAdminEntriesController returns the global admin entries controller instance
func GetAdminEntriesController() *AdminEntriesController {
	if adminEntriesController == nil {
		InitializeAdminEntriesController()
	}
	return adminEntriesController
}
