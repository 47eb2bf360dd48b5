package repositories

import (
	"errors"
	"fmt"

	"tokorate/internal/models"

	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(store *models.Store) error {
	if err := r.db.Create(store).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// GetByID retrieves a single store by its ID from the database.
func (r *GORMStoreRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get store by ID %d: %w", id, err)
	}
	return &store, nil
}

// GetAll retrieves all stores ordered by creation time, newest first.
func (r *GORMStoreRepository) GetAll() ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Order("created_at DESC").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to get all stores: %w", err)
	}
	return stores, nil
}

// GetByOwnerID retrieves the stores owned by a user, newest first.
func (r *GORMStoreRepository) GetByOwnerID(ownerID uint) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to get stores for owner %d: %w", ownerID, err)
	}
	return stores, nil
}

// Update rewrites only the supplied columns and returns the updated
// record, or ErrNotFound for a missing id or an empty field map.
func (r *GORMStoreRepository) Update(id uint, fields map[string]interface{}) (*models.Store, error) {
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	res := r.db.Model(&models.Store{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update store %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id)
}

// Delete removes a store. Its ratings are removed by the database
// cascade.
func (r *GORMStoreRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Store{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete store %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
