package controllers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/primoteam/primotracker/app/repository"
	"github.com/primoteam/primotracker/internal/pkg/cache"
	"github.com/primoteam/primotracker/internal/pkg/geofence"
)

const (
	checkinTokenTTL    = 10 * time.Minute
	checkinTokenKeyFmt = "checkin:token:%s"
)

// CheckinToken is the proof that a rep stood inside a store geofence. It is
// issued by HandleGeoResolve, cached for a short window and redeemed by the
// dashboard add form.
type CheckinToken struct {
	ID        string    `json:"id"`
	StoreID   uint      `json:"store_id"`
	StoreName string    `json:"store_name"`
	DistanceM float64   `json:"distance_m"`
	IssuedAt  time.Time `json:"issued_at"`
}

// geoResolveRequest is the browser geolocation payload.
type geoResolveRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AccuracyM float64 `json:"accuracy_m"`
	Timestamp int64   `json:"timestamp"` // unix millis from the Geolocation API
}

// HandleGeoResolve matches the caller's position against the active store
// geofences and issues a check-in token for the nearest match.
func HandleGeoResolve(c *fiber.Ctx) error {
	var req geoResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid position payload",
		})
	}

	stores, err := repository.GetGlobalRepositories().Store.GetActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to load stores",
		})
	}

	locations := make([]geofence.Location, 0, len(stores))
	for _, s := range stores {
		if !s.HasGeofence() {
			continue
		}
		locations = append(locations, geofence.Location{
			ID:      s.ID,
			Name:    s.Name,
			Lat:     s.Latitude,
			Lng:     s.Longitude,
			RadiusM: s.RadiusM,
		})
	}

	reading := geofence.Reading{
		Lat:       req.Latitude,
		Lng:       req.Longitude,
		AccuracyM: req.AccuracyM,
		Age:       time.Since(time.UnixMilli(req.Timestamp)),
	}

	resolver := geofence.NewResolver()
	match := resolver.Resolve(reading, locations)
	if match == nil {
		return c.JSON(fiber.Map{
			"matched": false,
		})
	}

	token := CheckinToken{
		ID:        uuid.New().String(),
		StoreID:   match.Location.ID,
		StoreName: match.Location.Name,
		DistanceM: match.DistanceM,
		IssuedAt:  time.Now(),
	}

	payload, err := json.Marshal(token)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to encode token",
		})
	}
	if err := cache.Set(fmt.Sprintf(checkinTokenKeyFmt, token.ID), string(payload), checkinTokenTTL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to store token",
		})
	}

	return c.JSON(fiber.Map{
		"matched":    true,
		"token":      token.ID,
		"store_id":   token.StoreID,
		"store_name": token.StoreName,
		"distance_m": token.DistanceM,
	})
}

// LookupCheckinToken redeems a check-in token from the cache. Returns nil
// when the token is unknown or expired.
func LookupCheckinToken(id string) (*CheckinToken, error) {
	raw, err := cache.Get(fmt.Sprintf(checkinTokenKeyFmt, id))
	if err != nil {
		return nil, nil
	}

	var token CheckinToken
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return nil, err
	}
	return &token, nil
}
