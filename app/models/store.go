package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Store is a retail location where water is sold. Latitude/Longitude and
// RadiusM define the geofence circle used by the check-in resolver.
type Store struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Latitude  float64        `gorm:"type:double precision;default:0" json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64        `gorm:"type:double precision;default:0" json:"longitude" validate:"gte=-180,lte=180"`
	RadiusM   float64        `gorm:"type:double precision;default:120" json:"radius_m" validate:"gte=0,lte=100000"`
	Active    bool           `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Store) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// HasGeofence reports whether the store carries usable coordinates.
func (s *Store) HasGeofence() bool {
	return s.RadiusM > 0 && (s.Latitude != 0 || s.Longitude != 0)
}
