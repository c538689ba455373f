package repository

import (
	"gorm.io/gorm"

	"github.com/primoteam/primotracker/app/models"
)

// storeRepository implements the StoreRepository interface
type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new store repository instance
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

// Create creates a new store in the database
func (r *storeRepository) Create(store *models.Store) error {
	return r.db.Create(store).Error
}

// GetByID retrieves a store by its ID
func (r *storeRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	err := r.db.First(&store, id).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// GetByName retrieves a store by its name
func (r *storeRepository) GetByName(name string) (*models.Store, error) {
	var store models.Store
	err := r.db.Where("name = ?", name).First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// GetAll retrieves all stores ordered by name
func (r *storeRepository) GetAll() ([]models.Store, error) {
	var stores []models.Store
	err := r.db.Order("name ASC").Find(&stores).Error
	return stores, err
}

// GetActive retrieves all active stores ordered by name
func (r *storeRepository) GetActive() ([]models.Store, error) {
	var stores []models.Store
	err := r.db.Where("active = ?", true).Order("name ASC").Find(&stores).Error
	return stores, err
}

// Update updates an existing store in the database
func (r *storeRepository) Update(store *models.Store) error {
	return r.db.Save(store).Error
}

// Delete soft deletes a store by its ID
func (r *storeRepository) Delete(id uint) error {
	return r.db.Delete(&models.Store{}, id).Error
}

// Count returns the total number of stores
func (r *storeRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Store{}).Count(&count).Error
	return count, err
}

// NameExistsExceptID checks if a store name exists excluding a specific ID
func (r *storeRepository) NameExistsExceptID(name string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Store{}).Where("name = ? AND id != ?", name, id).Count(&count).Error
	return count > 0, err
}
