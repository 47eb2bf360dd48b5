package models

import "time"

// Roles a user account can hold. Role is only ever changed through the
// admin endpoints.
const (
	RoleAdmin      = "admin"
	RoleUser       = "user"
	RoleStoreOwner = "store_owner"
)

// User represents an account in the system.
// The password field holds a bcrypt hash and is never serialized.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=20,max=60"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null" validate:"required,min=8,max=16,strongpassword"`
	Address   string    `json:"address" gorm:"type:text" validate:"max=400"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null;default:user" validate:"omitempty,oneof=admin user store_owner"`
	CreatedAt time.Time `json:"created_at"`
}
