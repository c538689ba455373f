package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/primoteam/primotracker/app/models"
)

// entryRepository implements the EntryRepository interface
type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository instance
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

// Create creates a new sales entry in the database
func (r *entryRepository) Create(entry *models.SalesEntry) error {
	return r.db.Create(entry).Error
}

// GetByID retrieves a sales entry by its ID
func (r *entryRepository) GetByID(id uint) (*models.SalesEntry, error) {
	var entry models.SalesEntry
	err := r.db.Preload("Rep").Preload("Store").First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update updates an existing sales entry in the database
func (r *entryRepository) Update(entry *models.SalesEntry) error {
	return r.db.Save(entry).Error
}

// Delete removes a sales entry by its ID
func (r *entryRepository) Delete(id uint) error {
	return r.db.Delete(&models.SalesEntry{}, id).Error
}

// ListByWeek retrieves every entry of a week, newest first
func (r *entryRepository) ListByWeek(weekStart time.Time) ([]models.SalesEntry, error) {
	var entries []models.SalesEntry
	err := r.db.Preload("Rep").Preload("Store").
		Where("week_start = ?", weekStart).
		Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// CountByWeek returns the number of entries in a week
func (r *entryRepository) CountByWeek(weekStart time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.SalesEntry{}).Where("week_start = ?", weekStart).Count(&count).Error
	return count, err
}

// RecentByWeek retrieves the newest entries of a week for the activity feed
func (r *entryRepository) RecentByWeek(weekStart time.Time, limit int) ([]models.SalesEntry, error) {
	var entries []models.SalesEntry
	err := r.db.Preload("Rep").Preload("Store").
		Where("week_start = ?", weekStart).
		Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// WeekTotal sums the quantities recorded in a week
func (r *entryRepository) WeekTotal(weekStart time.Time) (int, error) {
	var total int64
	err := r.db.Model(&models.SalesEntry{}).
		Where("week_start = ?", weekStart).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&total).Error
	return int(total), err
}

// RepTotals returns the per-rep leaderboard for a week, highest total first
func (r *entryRepository) RepTotals(weekStart time.Time) ([]RepTotal, error) {
	var totals []RepTotal
	err := r.db.Model(&models.SalesEntry{}).
		Select("sales_entries.rep_id AS rep_id, reps.name AS rep_name, COALESCE(SUM(sales_entries.qty), 0) AS total").
		Joins("JOIN reps ON reps.id = sales_entries.rep_id").
		Where("sales_entries.week_start = ?", weekStart).
		Group("sales_entries.rep_id, reps.name").
		Order("total DESC, rep_name ASC").
		Scan(&totals).Error
	return totals, err
}

// DistinctWeeks lists every week that has at least one entry, newest first
func (r *entryRepository) DistinctWeeks() ([]time.Time, error) {
	var weeks []time.Time
	err := r.db.Model(&models.SalesEntry{}).
		Distinct("week_start").
		Order("week_start DESC").
		Pluck("week_start", &weeks).Error
	return weeks, err
}

// NewestByWeek retrieves the most recent entry of a week regardless of who
// made it; the undo action removes the last recorded sale of the whole
// team. Returns gorm.ErrRecordNotFound when the week is empty.
func (r *entryRepository) NewestByWeek(weekStart time.Time) (*models.SalesEntry, error) {
	var entry models.SalesEntry
	err := r.db.Preload("Rep").Where("week_start = ?", weekStart).
		Order("created_at DESC").First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteByWeek removes every entry of a week and returns how many went
func (r *entryRepository) DeleteByWeek(weekStart time.Time) (int64, error) {
	res := r.db.Where("week_start = ?", weekStart).Delete(&models.SalesEntry{})
	return res.RowsAffected, res.Error
}

// CountSince returns the number of entries created after a point in time
func (r *entryRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.SalesEntry{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}
