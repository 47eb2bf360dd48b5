package repositories

import "tokorate/internal/models"

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	Create(rating *models.Rating) error
	Update(id uint, fields map[string]interface{}) (*models.Rating, error)
	GetByUserAndStore(userID, storeID uint) (*models.Rating, error)
	GetByStoreID(storeID uint) ([]models.StoreRating, error)
	GetByUserID(userID uint) ([]models.UserRating, error)
}
