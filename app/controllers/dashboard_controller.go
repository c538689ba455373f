package controllers

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/primoteam/primotracker/app/models"
	"github.com/primoteam/primotracker/app/repository"
	"github.com/primoteam/primotracker/internal/pkg/env"
	"github.com/primoteam/primotracker/internal/pkg/statistics"
	"github.com/primoteam/primotracker/internal/pkg/usercontext"
	"github.com/primoteam/primotracker/internal/pkg/week"
)

// Jug SVG geometry; the water rect is clipped into the jug outline.
const (
	jugTopY    = 64
	jugBottomY = 388
)

func weeklyGoal() int {
	goal, err := strconv.Atoi(env.GetEnv("WEEKLY_GOAL", "50"))
	if err != nil || goal <= 0 {
		return 50
	}
	return goal
}

// selectedWeek picks the week from query or form, defaulting to the current one.
func selectedWeek(c *fiber.Ctx) time.Time {
	raw := c.Query("week")
	if raw == "" {
		raw = c.FormValue("week")
	}
	if ws, ok := week.Parse(raw); ok {
		return ws
	}
	return week.StartOf(time.Now())
}

// HandleDashboard renders the weekly sales dashboard.
func HandleDashboard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	currentWeek := week.StartOf(time.Now())
	selected := selectedWeek(c)

	goal := weeklyGoal()
	weeklySales, err := repos.Entry.WeekTotal(selected)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load week total")
	}

	fillPercentage := 0.0
	if goal > 0 {
		fillPercentage = float64(weeklySales) / float64(goal) * 100
	}
	if fillPercentage > 100 {
		fillPercentage = 100
	}
	if fillPercentage < 0 {
		fillPercentage = 0
	}
	remaining := goal - weeklySales
	if remaining < 0 {
		remaining = 0
	}

	// Water fill mapping (fits the jug better at the bottom)
	usableH := float64(jugBottomY - jugTopY)
	waterH := fillPercentage / 100.0 * usableH
	waterY := float64(jugBottomY) - waterH
	if fillPercentage <= 0 {
		waterH = 0
		waterY = jugBottomY
	}

	repRows, err := repos.Entry.RepTotals(selected)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load leaderboard")
	}
	recent, err := repos.Entry.RecentByWeek(selected, 8)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load recent entries")
	}
	weeks, err := repos.Entry.DistinctWeeks()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load week list")
	}
	stores, err := repos.Store.GetActive()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load stores")
	}

	type weekOption struct {
		Value string
		Label string
	}
	weekOptions := make([]weekOption, 0, len(weeks))
	for _, w := range weeks {
		weekOptions = append(weekOptions, weekOption{Value: week.Key(w), Label: week.Label(w)})
	}

	// A store check-in from /geo/resolve preselects the matched store.
	var checkin *CheckinToken
	if token := c.Query("checkin"); token != "" {
		checkin, _ = LookupCheckinToken(token)
	}

	stats := statistics.GetStatistics()

	return renderPage(c, "dashboard", fiber.Map{
		"Title":             "Dashboard",
		"UserRep":           userCtx.RepName,
		"WeeklySales":       weeklySales,
		"Goal":              goal,
		"FillPercentage":    int(math.Round(fillPercentage)),
		"Remaining":         remaining,
		"WaterH":            int(math.Round(math.Max(0, waterH))),
		"WaterY":            int(math.Round(waterY)),
		"RangeLabel":        week.Label(selected),
		"CurrentRangeLabel": week.Label(currentWeek),
		"CurrentWeekStart":  week.Key(currentWeek),
		"SelectedWeekStart": week.Key(selected),
		"Weeks":             weekOptions,
		"RepRows":           repRows,
		"Recent":            recent,
		"Stores":            stores,
		"Checkin":           checkin,
		"Stats":             stats,
	})
}

// HandleDashboardAction handles the add / undo / reset form posts.
func HandleDashboardAction(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	selected := selectedWeek(c)
	redirectURL := "/?week=" + week.Key(selected)

	action := c.FormValue("action", "add")

	if (action == "undo" || action == "reset") && !userCtx.IsAdmin {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Permission denied.",
		}).Redirect(redirectURL)
	}

	switch action {
	case "reset":
		return handleWeekReset(c, selected, redirectURL)
	case "undo":
		return handleEntryUndo(c, selected, redirectURL)
	default:
		return handleEntryAdd(c, selected, redirectURL)
	}
}

func handleEntryAdd(c *fiber.Ctx, selected time.Time, redirectURL string) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	qty, err := strconv.Atoi(c.FormValue("sales"))
	if err != nil || qty <= 0 {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "For Add: enter a valid whole number > 0 and choose a store location.",
		}).Redirect(redirectURL)
	}

	entry := &models.SalesEntry{
		WeekStart: selected,
		RepID:     userCtx.RepID,
		Qty:       qty,
		Source:    models.SOURCE_MANUAL,
		Note:      c.FormValue("store_location"),
	}

	// Prefer a check-in token over the raw select so the matched store wins.
	if token := c.FormValue("checkin_token"); token != "" {
		if checkin, err := LookupCheckinToken(token); err == nil && checkin != nil {
			entry.StoreID = &checkin.StoreID
			entry.Note = checkin.StoreName
		}
	} else if raw := c.FormValue("store_id"); raw != "" {
		if storeID, err := strconv.ParseUint(raw, 10, 32); err == nil {
			id := uint(storeID)
			entry.StoreID = &id
		}
	}

	if err := repos.Entry.Create(entry); err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not save the entry. Please try again.",
		}).Redirect(redirectURL)
	}

	statistics.ResetCacheUpdateTimer()

	// Post the confirmation to Slack so deleting it undoes the entry.
	if ing := getIngestor(); ing != nil {
		go ing.AnnounceManualEntry(entry.ID, userCtx.RepName, entry.Qty)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Added %d sale(s) for %s.", qty, userCtx.RepName),
	}).Redirect(redirectURL)
}

func handleEntryUndo(c *fiber.Ctx, selected time.Time, redirectURL string) error {
	repos := repository.GetGlobalRepositories()

	// The newest entry of the whole week, whoever made it.
	entry, err := repos.Entry.NewestByWeek(selected)
	if err != nil || entry == nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Nothing to undo yet.",
		}).Redirect(redirectURL)
	}

	if err := repos.Entry.Delete(entry.ID); err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not undo the entry. Please try again.",
		}).Redirect(redirectURL)
	}

	statistics.ResetCacheUpdateTimer()

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Undid last entry: %s -%d.", entry.Rep.Name, entry.Qty),
	}).Redirect(redirectURL)
}

func handleWeekReset(c *fiber.Ctx, selected time.Time, redirectURL string) error {
	repos := repository.GetGlobalRepositories()

	if _, err := repos.Entry.DeleteByWeek(selected); err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not reset the week. Please try again.",
		}).Redirect(redirectURL)
	}

	statistics.ResetCacheUpdateTimer()

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Reset complete. Weekly entries cleared.",
	}).Redirect(redirectURL)
}
