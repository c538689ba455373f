package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/primoteam/primotracker/app/repository"
	"github.com/primoteam/primotracker/internal/pkg/exportarchive"
	"github.com/primoteam/primotracker/internal/pkg/week"
)

// renderWeekCSV builds the weekly export, oldest entry first.
func renderWeekCSV(weekStart time.Time) ([]byte, error) {
	entries, err := repository.GetGlobalRepositories().Entry.ListByWeek(weekStart)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"week_start", "rep", "qty", "store_location", "date"}); err != nil {
		return nil, err
	}
	// ListByWeek returns newest first; the export reads oldest first
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		storeLocation := e.Note
		if storeLocation == "" {
			storeLocation = e.StoreName()
		}
		row := []string{
			week.Key(e.WeekStart),
			e.Rep.Name,
			strconv.Itoa(e.Qty),
			storeLocation,
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HandleExportCSV streams the selected week as a CSV download.
func HandleExportCSV(c *fiber.Ctx) error {
	selected := selectedWeek(c)

	data, err := renderWeekCSV(selected)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build export")
	}

	filename := fmt.Sprintf("primo_sales_%s.csv", week.Key(selected))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}

// HandleExportArchive uploads the selected week's CSV to the S3 archive.
// Admin only; the route is registered behind RequireAdmin.
func HandleExportArchive(c *fiber.Ctx) error {
	selected := selectedWeek(c)
	redirectURL := "/?week=" + week.Key(selected)

	cfg, err := exportarchive.LoadConfig()
	if err != nil || !cfg.IsEnabled() {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "The export archive is not configured.",
		}).Redirect(redirectURL)
	}

	client, err := exportarchive.NewClient(cfg)
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not reach the export archive.",
		}).Redirect(redirectURL)
	}

	data, err := renderWeekCSV(selected)
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Failed to build the export.",
		}).Redirect(redirectURL)
	}

	objectKey := cfg.GetObjectKey(week.Key(selected), time.Now())
	result, err := client.UploadCSV(objectKey, data)
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Upload to the archive failed.",
		}).Redirect(redirectURL)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Archived %s (%d bytes).", result.ObjectKey, result.Size),
	}).Redirect(redirectURL)
}
