package repositories

import (
	"errors"
	"fmt"

	"tokorate/internal/models"

	"gorm.io/gorm"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{
		db: db,
	}
}

// Create inserts a new rating. A concurrent submission for the same
// (user, store) pair can win the race past the caller's existence check;
// the unique index reports that as ErrDuplicate so the caller can retry
// as an update.
func (r *GORMRatingRepository) Create(rating *models.Rating) error {
	if err := r.db.Create(rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// Update rewrites only the supplied columns and returns the updated
// record.
func (r *GORMRatingRepository) Update(id uint, fields map[string]interface{}) (*models.Rating, error) {
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	res := r.db.Model(&models.Rating{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update rating %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var rating models.Rating
	if err := r.db.First(&rating, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload rating %d: %w", id, err)
	}
	return &rating, nil
}

// GetByUserAndStore retrieves the single rating a user has submitted for
// a store, or ErrNotFound when they have not rated it.
func (r *GORMRatingRepository) GetByUserAndStore(userID, storeID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.First(&rating, "user_id = ? AND store_id = ?", userID, storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating for user %d and store %d: %w", userID, storeID, err)
	}
	return &rating, nil
}

// GetByStoreID retrieves a store's ratings joined with the submitting
// users' names, newest first.
func (r *GORMRatingRepository) GetByStoreID(storeID uint) ([]models.StoreRating, error) {
	var ratings []models.StoreRating
	err := r.db.Raw(`
		SELECT r.id, r.user_id, r.store_id, r.rating, r.comment, r.created_at, u.name AS user_name
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.store_id = ?
		ORDER BY r.created_at DESC`, storeID).Scan(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings for store %d: %w", storeID, err)
	}
	return ratings, nil
}

// GetByUserID retrieves a user's ratings joined with the rated stores'
// names, newest first.
func (r *GORMRatingRepository) GetByUserID(userID uint) ([]models.UserRating, error) {
	var ratings []models.UserRating
	err := r.db.Raw(`
		SELECT r.id, r.user_id, r.store_id, r.rating, r.comment, r.created_at, s.name AS store_name
		FROM ratings r
		JOIN stores s ON s.id = r.store_id
		WHERE r.user_id = ?
		ORDER BY r.created_at DESC`, userID).Scan(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings for user %d: %w", userID, err)
	}
	return ratings, nil
}
