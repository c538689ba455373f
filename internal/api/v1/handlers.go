package apiv1

import (
	"time"

	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/primoteam/primotracker/app/controllers"
	"github.com/primoteam/primotracker/app/repository"
	"github.com/primoteam/primotracker/internal/pkg/week"
)

// APIServer implements the public JSON API
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// Pong is the ping response body
type Pong struct {
	Ping string `json:"ping"`
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetWeekSummary returns the totals for the selected (default current) week
func (s *APIServer) GetWeekSummary(c *fiber.Ctx) error {
	selected := week.StartOf(time.Now())
	if ws, ok := week.Parse(c.Query("week")); ok {
		selected = ws
	}

	repos := repository.GetGlobalRepositories()

	total, err := repos.Entry.WeekTotal(selected)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to load week total",
		})
	}

	repTotals, err := repos.Entry.RepTotals(selected)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to load leaderboard",
		})
	}

	reps := make([]fiber.Map, 0, len(repTotals))
	for _, rt := range repTotals {
		reps = append(reps, fiber.Map{
			"rep_id": rt.RepID,
			"rep":    rt.RepName,
			"total":  rt.Total,
		})
	}

	return c.JSON(fiber.Map{
		"week_start": week.Key(selected),
		"label":      week.Label(selected),
		"total":      total,
		"reps":       reps,
	})
}

// PostGeoResolve matches a GPS reading against the store geofences
func (s *APIServer) PostGeoResolve(c *fiber.Ctx) error {
	return controllers.HandleGeoResolve(c)
}

// RegisterHandlers binds the v1 routes onto the given router group
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)
	router.Get("/weeks/summary", s.GetWeekSummary)
	router.Post("/geo/resolve", s.PostGeoResolve)
}
