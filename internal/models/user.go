package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	FullName       string
	Email          string
	Username       string
	HashedPassword string

	// Currently valid refresh token or nil if user logged out.
	// Exactly one refresh token is valid per user at any time.
	RefreshToken *string
}
