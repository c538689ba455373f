package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	SOURCE_MANUAL = "manual"
	SOURCE_SLACK  = "slack"
)

// SalesEntry is one recorded sale (or batch of sales) bucketed into the
// Monday-start week it was made in. StoreID is nullable because entries
// counted from Slack messages arrive without a store.
type SalesEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	WeekStart time.Time `gorm:"type:date;not null;index;index:idx_sales_entries_week_rep,priority:1" json:"week_start"`
	RepID     uint      `gorm:"not null;index:idx_sales_entries_week_rep,priority:2" json:"rep_id"`
	Rep       Rep       `gorm:"foreignKey:RepID" json:"rep"`
	StoreID   *uint     `gorm:"default:null;index" json:"store_id,omitempty"`
	Store     *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Qty       int       `gorm:"not null" json:"qty" validate:"required,gt=0"`
	Source    string    `gorm:"type:varchar(20);not null;default:'manual'" json:"source" validate:"oneof=manual slack"`
	Note      string    `gorm:"type:varchar(255)" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *SalesEntry) Validate() error {
	v := validator.New()

	return v.Struct(e)
}

// StoreName is a template helper for entries without a store.
func (e *SalesEntry) StoreName() string {
	if e.Store == nil {
		return ""
	}
	return e.Store.Name
}
