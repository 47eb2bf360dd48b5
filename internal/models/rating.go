package models

import "time"

// Rating is one user's judgment of one store. The composite unique index
// guarantees at most one row per (user, store) pair; a resubmission
// updates the existing row instead of creating a second one.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_ratings_user_store"`
	StoreID   uint      `json:"store_id" gorm:"not null;uniqueIndex:idx_ratings_user_store"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Store     *Store    `json:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreRating is a rating joined with the submitting user's name, for
// the public store ratings listing.
type StoreRating struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	StoreID   uint      `json:"store_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name"`
}

// UserRating is a rating joined with the rated store's name, for the
// "my ratings" listing.
type UserRating struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	StoreID   uint      `json:"store_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	StoreName string    `json:"store_name"`
}
