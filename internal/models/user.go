package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// User is an authentication principal belonging to exactly one shop.
// Emails are unique per shop, not globally.
type User struct {
	BaseModel
	ShopID       uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:idx_users_shop_email" json:"shop_id"`
	Email        string     `gorm:"uniqueIndex:idx_users_shop_email" json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}
