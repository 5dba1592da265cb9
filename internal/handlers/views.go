package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtarasov/passport/internal/models"
)

// Redacted user projection: password hash and refresh token never leave the service
type UserView struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
}

func NewUserView(u models.User) UserView {
	return UserView{
		ID:        u.ID,
		CreatedAt: u.CreatedAt,
		FullName:  u.FullName,
		Email:     u.Email,
		Username:  u.Username,
	}
}
