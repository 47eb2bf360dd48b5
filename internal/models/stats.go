package models

import "time"

// TopStore is one entry in the dashboard's top-rated stores list.
type TopStore struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

// RecentRating is one entry in the dashboard's recent ratings feed.
type RecentRating struct {
	ID        uint      `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name"`
	StoreName string    `json:"store_name"`
}

// DashboardSummary holds the admin dashboard aggregates. It is assembled
// from independent queries with no transaction around them, so the
// sub-counts are a best-effort snapshot and may disagree under
// concurrent writes.
type DashboardSummary struct {
	TotalUsers     int64            `json:"totalUsers"`
	TotalStores    int64            `json:"totalStores"`
	TotalRatings   int64            `json:"totalRatings"`
	AverageRating  float64          `json:"averageRating"`
	UsersByRole    map[string]int64 `json:"usersByRole"`
	TopRatedStores []TopStore       `json:"topRatedStores"`
	RecentRatings  []RecentRating   `json:"recentRatings"`
}

// UserStats holds the per-user dashboard numbers. AverageRating is zero
// when the user has submitted no ratings.
type UserStats struct {
	TotalRatings  int64   `json:"totalRatings"`
	RatedStores   int64   `json:"ratedStores"`
	AverageRating float64 `json:"averageRating"`
}
