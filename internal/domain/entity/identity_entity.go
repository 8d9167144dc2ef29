package entity

import (
	"time"
)

// Identity is the aggregate root for people who author or administer content.
// PasswordHash holds a bcrypt hash and is never serialized.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Category     string    `json:"category"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
