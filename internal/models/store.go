package models

import "time"

// Store is a rateable business. Every store belongs to exactly one owner;
// deleting the owner cascades to the store and its ratings.
type Store struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null" validate:"required"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Address   string    `json:"address" gorm:"type:text" validate:"required,max=400"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;index"`
	Owner     *User     `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreWithRating is the read projection of a store enriched with its
// current average rating. AverageRating is nil when the store has no
// ratings yet.
type StoreWithRating struct {
	Store
	AverageRating *float64 `json:"average_rating"`
	RatingCount   int64    `json:"rating_count"`
}

// AdminStore is the admin listing projection: store plus owner details
// and the current average rating.
type AdminStore struct {
	Store
	OwnerName     string   `json:"owner_name"`
	OwnerEmail    string   `json:"owner_email"`
	AverageRating *float64 `json:"average_rating"`
}

// OwnerProfile is the projection returned by the store-owner profile
// endpoints.
type OwnerProfile struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	StoreCount int    `json:"storeCount"`
}
