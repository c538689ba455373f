package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/primoteam/primotracker/app/models"
)

// repRepository implements the RepRepository interface
type repRepository struct {
	db *gorm.DB
}

// NewRepRepository creates a new rep repository instance
func NewRepRepository(db *gorm.DB) RepRepository {
	return &repRepository{db: db}
}

// Create creates a new rep in the database
func (r *repRepository) Create(rep *models.Rep) error {
	return r.db.Create(rep).Error
}

// GetByID retrieves a rep by their ID
func (r *repRepository) GetByID(id uint) (*models.Rep, error) {
	var rep models.Rep
	err := r.db.First(&rep, id).Error
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// GetByName retrieves a rep by their login name
func (r *repRepository) GetByName(name string) (*models.Rep, error) {
	var rep models.Rep
	err := r.db.Where("name = ?", name).First(&rep).Error
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// GetBySlackUserID retrieves a rep by their Slack user id. A Slack account
// with no matching rep is not an error; callers get (nil, nil).
func (r *repRepository) GetBySlackUserID(slackUserID string) (*models.Rep, error) {
	var rep models.Rep
	err := r.db.Where("slack_user_id = ?", slackUserID).First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// Update updates an existing rep in the database
func (r *repRepository) Update(rep *models.Rep) error {
	return r.db.Save(rep).Error
}

// Delete soft deletes a rep by their ID
func (r *repRepository) Delete(id uint) error {
	return r.db.Delete(&models.Rep{}, id).Error
}

// List retrieves reps with pagination
func (r *repRepository) List(offset, limit int) ([]models.Rep, error) {
	var reps []models.Rep
	err := r.db.Order("name ASC").Offset(offset).Limit(limit).Find(&reps).Error
	return reps, err
}

// ListActive retrieves every active rep ordered by name
func (r *repRepository) ListActive() ([]models.Rep, error) {
	var reps []models.Rep
	err := r.db.Where("status = ?", models.STATUS_ACTIVE).Order("name ASC").Find(&reps).Error
	return reps, err
}

// Count returns the total number of reps
func (r *repRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Rep{}).Count(&count).Error
	return count, err
}

// TouchLastLogin records a successful login timestamp
func (r *repRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Rep{}).Where("id = ?", id).
		Update("last_login_at", at).Error
}
