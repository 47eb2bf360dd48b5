package services

import (
	"errors"
	"fmt"

	"tokorate/internal/models"
	"tokorate/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// AdminService handles the administrator operations: user management,
// store management across all owners, and the dashboard aggregates.
type AdminService struct {
	userRepo  repositories.UserRepository
	storeRepo repositories.StoreRepository
	statsRepo repositories.StatsRepository
	auth      *AuthService
}

// NewAdminService creates a new AdminService. User creation is delegated
// to the AuthService so hashing and role defaulting stay in one place.
func NewAdminService(userRepo repositories.UserRepository, storeRepo repositories.StoreRepository, statsRepo repositories.StatsRepository, auth *AuthService) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		storeRepo: storeRepo,
		statsRepo: statsRepo,
		auth:      auth,
	}
}

// ListUsers retrieves all users.
func (s *AdminService) ListUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// GetUser retrieves a single user.
func (s *AdminService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// CreateUser registers a user on behalf of an admin, with any role.
func (s *AdminService) CreateUser(user *models.User) error {
	return s.auth.Register(user)
}

// UpdateUser rewrites the supplied fields of a user. A changed email
// must be free, and a supplied password is re-hashed before storage.
func (s *AdminService) UpdateUser(id uint, fields map[string]interface{}) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if email, ok := fields["email"].(string); ok && email != user.Email {
		if _, err := s.userRepo.GetByEmail(email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}

	if password, ok := fields["password"].(string); ok {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password"] = string(hashed)
	}

	updated, err := s.userRepo.Update(id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

// DeleteUser removes a user; owned stores and submitted ratings go with
// it via the database cascade. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(actor *models.User, id uint) error {
	if actor.ID == id {
		return ErrSelfDelete
	}
	deleted, err := s.userRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return repositories.ErrNotFound
	}
	return nil
}

// ListStores retrieves all stores enriched with owner details and the
// current average rating.
func (s *AdminService) ListStores() ([]models.AdminStore, error) {
	stores, err := s.storeRepo.GetAll()
	if err != nil {
		return nil, err
	}

	enriched := make([]models.AdminStore, 0, len(stores))
	for _, store := range stores {
		entry := models.AdminStore{Store: store, OwnerName: "Unknown", OwnerEmail: "Unknown"}
		if owner, err := s.userRepo.GetByID(store.OwnerID); err == nil {
			entry.OwnerName = owner.Name
			entry.OwnerEmail = owner.Email
		}
		avg, _, err := s.statsRepo.AverageForStore(store.ID)
		if err != nil {
			return nil, err
		}
		entry.AverageRating = avg
		enriched = append(enriched, entry)
	}
	return enriched, nil
}

// CreateStore creates a store for an explicit owner, who must exist and
// hold the store_owner role.
func (s *AdminService) CreateStore(store *models.Store) error {
	owner, err := s.userRepo.GetByID(store.OwnerID)
	if err != nil {
		return err
	}
	if owner.Role != models.RoleStoreOwner {
		return ErrNotAStoreOwner
	}
	return s.storeRepo.Create(store)
}

// DeleteStore removes a store and, via the cascade, its ratings.
func (s *AdminService) DeleteStore(id uint) error {
	deleted, err := s.storeRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return repositories.ErrNotFound
	}
	return nil
}

// DashboardStats assembles the admin dashboard aggregates.
func (s *AdminService) DashboardStats() (*models.DashboardSummary, error) {
	return s.statsRepo.DashboardSummary()
}
