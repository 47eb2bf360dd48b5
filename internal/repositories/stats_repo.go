package repositories

import "tokorate/internal/models"

// StatsRepository defines the interface for the read-only aggregation
// queries. Nothing here is persisted; every call recomputes from the
// current rows.
type StatsRepository interface {
	// AverageForStore returns the mean score and the rating count for a
	// store. The average is nil when the store has no ratings.
	AverageForStore(storeID uint) (*float64, int64, error)
	// DashboardSummary assembles the admin dashboard numbers from
	// independent queries with no transaction around them.
	DashboardSummary() (*models.DashboardSummary, error)
	// UserStats computes a user's own rating activity numbers.
	UserStats(userID uint) (*models.UserStats, error)
}
