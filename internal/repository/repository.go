package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtarasov/passport/internal/models"
)

type CreateUserParams struct {
	FullName     string
	Email        string
	Username     string
	PasswordHash string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with same username or email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by it's id or by username or email (either may be empty but not both)
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByLogin(ctx context.Context, username string, email string) (models.User, error)

	// Set stored refresh token, nil clears it
	// The write is a single statement so concurrent rotations are last-writer-wins
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token *string) (models.User, error)

	// Replace stored password hash
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) (models.User, error)
}
