package services

import (
	"errors"
	"fmt"
	"log"

	"tokorate/internal/models"
	"tokorate/internal/repositories"
	"tokorate/pkg/rabbitmq"

	"github.com/google/uuid"
)

// StoreService handles business logic for stores and their ratings.
type StoreService struct {
	storeRepo  repositories.StoreRepository
	ratingRepo repositories.RatingRepository
	statsRepo  repositories.StatsRepository
	userRepo   repositories.UserRepository
	mqClient   *rabbitmq.Client
}

// NewStoreService creates a new StoreService. The RabbitMQ client may be
// nil, in which case event publication is skipped.
func NewStoreService(storeRepo repositories.StoreRepository, ratingRepo repositories.RatingRepository, statsRepo repositories.StatsRepository, userRepo repositories.UserRepository, mqClient *rabbitmq.Client) *StoreService {
	return &StoreService{
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
		statsRepo:  statsRepo,
		userRepo:   userRepo,
		mqClient:   mqClient,
	}
}

// ListStores retrieves all stores, each enriched with its current
// average rating.
func (s *StoreService) ListStores() ([]models.StoreWithRating, error) {
	stores, err := s.storeRepo.GetAll()
	if err != nil {
		return nil, err
	}

	enriched := make([]models.StoreWithRating, 0, len(stores))
	for _, store := range stores {
		avg, count, err := s.statsRepo.AverageForStore(store.ID)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, models.StoreWithRating{
			Store:         store,
			AverageRating: avg,
			RatingCount:   count,
		})
	}
	return enriched, nil
}

// GetStore retrieves a single store with its average rating.
func (s *StoreService) GetStore(id uint) (*models.StoreWithRating, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.statsRepo.AverageForStore(store.ID)
	if err != nil {
		return nil, err
	}
	return &models.StoreWithRating{
		Store:         *store,
		AverageRating: avg,
		RatingCount:   count,
	}, nil
}

// CreateStore creates a store owned by the acting user. Only store
// owners and admins may create stores.
func (s *StoreService) CreateStore(actor *models.User, store *models.Store) error {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleStoreOwner {
		return ErrForbidden
	}
	store.OwnerID = actor.ID
	return s.storeRepo.Create(store)
}

// UpdateStore rewrites the supplied fields of a store. Only the owner of
// record or an admin may update it.
func (s *StoreService) UpdateStore(actor *models.User, id uint, fields map[string]interface{}) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.storeRepo.Update(id, fields)
}

// StoreRatings lists a store's ratings, joined with the raters' names.
func (s *StoreService) StoreRatings(storeID uint) ([]models.StoreRating, error) {
	if _, err := s.storeRepo.GetByID(storeID); err != nil {
		return nil, err
	}
	return s.ratingRepo.GetByStoreID(storeID)
}

// RateStore creates or overwrites the actor's rating for a store. The
// returned bool is true when a new rating row was created. A store's
// owner may not rate it.
//
// The find-then-insert sequence is not atomic: a concurrent submission
// by the same user can slip between the lookup and the insert. The
// unique (user, store) index is the correctness backstop, and a
// duplicate-key insert failure is retried as an update.
func (s *StoreService) RateStore(actor *models.User, storeID uint, score int, comment string) (*models.Rating, bool, error) {
	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, false, err
	}
	if store.OwnerID == actor.ID {
		return nil, false, ErrOwnStoreRating
	}

	existing, err := s.ratingRepo.GetByUserAndStore(actor.ID, storeID)
	switch {
	case err == nil:
		updated, err := s.ratingRepo.Update(existing.ID, map[string]interface{}{
			"rating":  score,
			"comment": comment,
		})
		if err != nil {
			return nil, false, err
		}
		s.publishRatingEvent(updated, "rating.updated")
		return updated, false, nil

	case errors.Is(err, repositories.ErrNotFound):
		rating := &models.Rating{
			UserID:  actor.ID,
			StoreID: storeID,
			Rating:  score,
			Comment: comment,
		}
		createErr := s.ratingRepo.Create(rating)
		if errors.Is(createErr, repositories.ErrDuplicate) {
			// Someone else just created it; overwrite instead.
			racer, err := s.ratingRepo.GetByUserAndStore(actor.ID, storeID)
			if err != nil {
				return nil, false, err
			}
			updated, err := s.ratingRepo.Update(racer.ID, map[string]interface{}{
				"rating":  score,
				"comment": comment,
			})
			if err != nil {
				return nil, false, err
			}
			s.publishRatingEvent(updated, "rating.updated")
			return updated, false, nil
		}
		if createErr != nil {
			return nil, false, createErr
		}
		s.publishRatingEvent(rating, "rating.created")
		return rating, true, nil

	default:
		return nil, false, err
	}
}

// OwnerProfile returns the store-owner profile projection: the actor's
// identity plus how many stores they own.
func (s *StoreService) OwnerProfile(actor *models.User) (*models.OwnerProfile, error) {
	if actor.Role != models.RoleStoreOwner {
		return nil, ErrForbidden
	}
	stores, err := s.storeRepo.GetByOwnerID(actor.ID)
	if err != nil {
		return nil, err
	}
	return &models.OwnerProfile{
		ID:         actor.ID,
		Name:       actor.Name,
		Email:      actor.Email,
		Role:       actor.Role,
		StoreCount: len(stores),
	}, nil
}

// publishRatingEvent publishes a rating event. Publication failures are
// logged and never fail the request; the rating is already persisted.
func (s *StoreService) publishRatingEvent(rating *models.Rating, eventType string) {
	if s.mqClient == nil {
		return
	}

	event := map[string]interface{}{
		"event_id": uuid.New().String(),
		"type":     eventType,
		"store_id": rating.StoreID,
		"user_id":  rating.UserID,
		"rating":   rating.Rating,
	}
	if err := s.mqClient.PublishRatingEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for store %d: %v", eventType, rating.StoreID, err)
	}
}

// UpdateOwnerProfile rewrites the owner's name, the only field the
// profile update accepts, and returns the refreshed projection.
func (s *StoreService) UpdateOwnerProfile(actor *models.User, name string) (*models.OwnerProfile, error) {
	if actor.Role != models.RoleStoreOwner {
		return nil, ErrForbidden
	}
	updated, err := s.userRepo.Update(actor.ID, map[string]interface{}{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to update owner profile: %w", err)
	}
	stores, err := s.storeRepo.GetByOwnerID(actor.ID)
	if err != nil {
		return nil, err
	}
	return &models.OwnerProfile{
		ID:         updated.ID,
		Name:       updated.Name,
		Email:      updated.Email,
		Role:       updated.Role,
		StoreCount: len(stores),
	}, nil
}
