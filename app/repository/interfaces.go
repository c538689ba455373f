package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/primoteam/primotracker/app/models"
)

// RepRepository defines the interface for rep-related database operations
type RepRepository interface {
	Create(rep *models.Rep) error
	GetByID(id uint) (*models.Rep, error)
	GetByName(name string) (*models.Rep, error)
	GetBySlackUserID(slackUserID string) (*models.Rep, error)
	Update(rep *models.Rep) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Rep, error)
	ListActive() ([]models.Rep, error)
	Count() (int64, error)
	TouchLastLogin(id uint, at time.Time) error
}

// StoreRepository defines the interface for store-related database operations
type StoreRepository interface {
	Create(store *models.Store) error
	GetByID(id uint) (*models.Store, error)
	GetByName(name string) (*models.Store, error)
	GetAll() ([]models.Store, error)
	GetActive() ([]models.Store, error)
	Update(store *models.Store) error
	Delete(id uint) error
	Count() (int64, error)
	NameExistsExceptID(name string, id uint) (bool, error)
}

// EntryRepository defines the interface for sales entry operations
type EntryRepository interface {
	Create(entry *models.SalesEntry) error
	GetByID(id uint) (*models.SalesEntry, error)
	Update(entry *models.SalesEntry) error
	Delete(id uint) error
	ListByWeek(weekStart time.Time) ([]models.SalesEntry, error)
	CountByWeek(weekStart time.Time) (int64, error)
	RecentByWeek(weekStart time.Time, limit int) ([]models.SalesEntry, error)
	WeekTotal(weekStart time.Time) (int, error)
	RepTotals(weekStart time.Time) ([]RepTotal, error)
	DistinctWeeks() ([]time.Time, error)
	NewestByWeek(weekStart time.Time) (*models.SalesEntry, error)
	DeleteByWeek(weekStart time.Time) (int64, error)
	CountSince(since time.Time) (int64, error)
}

// RepTotal is one row of the weekly leaderboard
type RepTotal struct {
	RepID   uint
	RepName string
	Total   int
}

// Repositories struct holds all repository instances
type Repositories struct {
	Rep   RepRepository
	Store StoreRepository
	Entry EntryRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Rep:   NewRepRepository(db),
		Store: NewStoreRepository(db),
		Entry: NewEntryRepository(db),
	}
}
