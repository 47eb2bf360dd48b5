package repositories

import "tokorate/internal/models"

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	Create(store *models.Store) error
	GetByID(id uint) (*models.Store, error)
	GetAll() ([]models.Store, error)
	GetByOwnerID(ownerID uint) ([]models.Store, error)
	Update(id uint, fields map[string]interface{}) (*models.Store, error)
	Delete(id uint) (bool, error)
}
