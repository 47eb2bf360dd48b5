package repositories

import (
	"fmt"

	"tokorate/internal/models"

	"gorm.io/gorm"
)

// GORMStatsRepository is a GORM implementation of StatsRepository.
type GORMStatsRepository struct {
	db *gorm.DB
}

// NewGORMStatsRepository creates a new instance of GORMStatsRepository.
func NewGORMStatsRepository(db *gorm.DB) *GORMStatsRepository {
	return &GORMStatsRepository{
		db: db,
	}
}

// AverageForStore computes the arithmetic mean of a store's rating
// scores. AVG over zero rows yields NULL, which scans to a nil pointer
// and is the "no ratings yet" signal.
func (r *GORMStatsRepository) AverageForStore(storeID uint) (*float64, int64, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := r.db.Model(&models.Rating{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("store_id = ?", storeID).
		Scan(&row).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to compute average rating for store %d: %w", storeID, err)
	}
	return row.Average, row.Count, nil
}

// DashboardSummary assembles the admin dashboard aggregates. Each number
// comes from its own query; a write landing between two of them can make
// the sub-counts mutually inconsistent, which is acceptable for a
// statistics dashboard.
func (r *GORMStatsRepository) DashboardSummary() (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{
		UsersByRole: make(map[string]int64),
	}

	if err := r.db.Model(&models.User{}).Count(&summary.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := r.db.Model(&models.Store{}).Count(&summary.TotalStores).Error; err != nil {
		return nil, fmt.Errorf("failed to count stores: %w", err)
	}
	if err := r.db.Model(&models.Rating{}).Count(&summary.TotalRatings).Error; err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	var overall struct {
		Average *float64
	}
	if err := r.db.Model(&models.Rating{}).Select("AVG(rating) AS average").Scan(&overall).Error; err != nil {
		return nil, fmt.Errorf("failed to compute overall average rating: %w", err)
	}
	if overall.Average != nil {
		summary.AverageRating = *overall.Average
	}

	var roleCounts []struct {
		Role  string
		Count int64
	}
	err := r.db.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&roleCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	for _, rc := range roleCounts {
		summary.UsersByRole[rc.Role] = rc.Count
	}

	// Top five stores with at least one rating, best average first,
	// rating count breaking ties. Stores tied on both keep whatever
	// order the database returns.
	err = r.db.Raw(`
		SELECT s.id, s.name, AVG(r.rating) AS average_rating, COUNT(r.id) AS rating_count
		FROM stores s
		JOIN ratings r ON r.store_id = s.id
		GROUP BY s.id, s.name
		ORDER BY average_rating DESC, rating_count DESC
		LIMIT 5`).Scan(&summary.TopRatedStores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top rated stores: %w", err)
	}

	err = r.db.Raw(`
		SELECT r.id, r.rating, r.comment, r.created_at, u.name AS user_name, s.name AS store_name
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		JOIN stores s ON s.id = r.store_id
		ORDER BY r.created_at DESC
		LIMIT 10`).Scan(&summary.RecentRatings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent ratings: %w", err)
	}

	return summary, nil
}

// UserStats computes a user's rating activity. The average is zero when
// the user has submitted no ratings.
func (r *GORMStatsRepository) UserStats(userID uint) (*models.UserStats, error) {
	var row struct {
		TotalRatings  int64
		RatedStores   int64
		AverageRating *float64
	}
	err := r.db.Raw(`
		SELECT COUNT(*) AS total_ratings,
		       COUNT(DISTINCT store_id) AS rated_stores,
		       AVG(rating) AS average_rating
		FROM ratings
		WHERE user_id = ?`, userID).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats for user %d: %w", userID, err)
	}
	stats := &models.UserStats{
		TotalRatings: row.TotalRatings,
		RatedStores:  row.RatedStores,
	}
	if row.AverageRating != nil {
		stats.AverageRating = *row.AverageRating
	}
	return stats, nil
}
