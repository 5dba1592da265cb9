package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtarasov/passport/internal/handlers/middleware"
	"github.com/dtarasov/passport/internal/logger"
	"github.com/dtarasov/passport/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type authService interface {
	// Register user
	// Has to return apperrors.ErrUserAlreadyExists if user already exists
	// and apperrors.ErrFieldsRequired if any field is blank after trimming
	Register(ctx context.Context, fullName string, email string, username string, password string) (models.User, error)

	// Login user with username or email
	// Has to return apperrors.ErrUserNotFound if user not found
	// and apperrors.ErrInvalidCredentials if password check fails
	Login(ctx context.Context, username string, email string, password string) (models.User, models.TokenPair, error)

	// Rotate tokens using valid refresh token
	// If token expired: has to return apperrors.ErrTokenExpired
	// If token invalid or superseded: apperrors.ErrTokenInvalid or apperrors.ErrTokenMismatch
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Clear stored refresh token, idempotent
	Logout(ctx context.Context, userID uuid.UUID) error

	// Replace password after verifying the old one
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword string, newPassword string) error

	// Set auth tokens (access, refresh) cookies to response or clear them
	SetTokenPair(w http.ResponseWriter, pair models.TokenPair)
	ClearTokenPair(w http.ResponseWriter)

	// Get refresh token from request (cookie wins over body)
	ReadRefresh(r *http.Request) (string, error)

	// Get request and return user if it authenticated or error
	UserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

func NewRouter(auth authService, l logger.Logger) http.Handler {
	authMiddleware := middleware.AuthMiddleware(auth)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	apiusers := http.NewServeMux()

	apiusers.Handle("POST /register", handleRegister(auth, l))
	apiusers.Handle("POST /login", handleLogin(auth, l))
	apiusers.Handle("POST /refresh", handleTokenRefresh(auth, l))

	apiusers.Handle("POST /logout", withAuth(handleLogout(auth, l)))
	apiusers.Handle("POST /password", withAuth(handleChangePassword(auth, l)))
	apiusers.Handle("GET /me", withAuth(handleUserMe()))

	root := http.NewServeMux()
	root.Handle("/api/users/", http.StripPrefix("/api/users", apiusers))

	handler := chain(root,
		middleware.LoggerMiddleware(l),
	)

	return handler
}
