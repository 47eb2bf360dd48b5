package services

import (
	"errors"
	"fmt"

	"tokorate/internal/models"
	"tokorate/internal/repositories"
)

// UserService handles business logic for a user's own profile and
// rating activity.
type UserService struct {
	userRepo   repositories.UserRepository
	ratingRepo repositories.RatingRepository
	statsRepo  repositories.StatsRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, ratingRepo repositories.RatingRepository, statsRepo repositories.StatsRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		statsRepo:  statsRepo,
	}
}

// UpdateProfile rewrites the supplied profile fields of the acting user.
// A changed email must not already belong to another account.
func (s *UserService) UpdateProfile(actor *models.User, name, email, address string) (*models.User, error) {
	fields := make(map[string]interface{})
	if name != "" {
		fields["name"] = name
	}
	if address != "" {
		fields["address"] = address
	}
	if email != "" && email != actor.Email {
		if _, err := s.userRepo.GetByEmail(email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		fields["email"] = email
	}
	if len(fields) == 0 {
		return actor, nil
	}

	updated, err := s.userRepo.Update(actor.ID, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

// Ratings lists the acting user's ratings joined with store names.
func (s *UserService) Ratings(userID uint) ([]models.UserRating, error) {
	return s.ratingRepo.GetByUserID(userID)
}

// DashboardStats computes the acting user's rating activity numbers.
func (s *UserService) DashboardStats(userID uint) (*models.UserStats, error) {
	return s.statsRepo.UserStats(userID)
}
