package repositories

import "tokorate/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetAll() ([]models.User, error)
	// Update rewrites only the columns present in fields and returns the
	// updated record. It returns ErrNotFound when the id does not exist
	// or when fields is empty.
	Update(id uint, fields map[string]interface{}) (*models.User, error)
	// Delete reports whether a row was actually removed. Deleting a
	// nonexistent id returns (false, nil).
	Delete(id uint) (bool, error)
}
