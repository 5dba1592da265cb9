package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dtarasov/passport/internal/apperrors"
	"github.com/dtarasov/passport/internal/handlers/render"
	"github.com/dtarasov/passport/internal/handlers/userctx"
	"github.com/dtarasov/passport/internal/models"
)

type authService interface {
	UserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

// Gate for protected routes: verifies the access token and attaches the
// acting user to the request context
// Never refreshes tokens: an expired access token always rejects and the
// client has to call refresh explicitly
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.UserFromRequest(r.Context(), r)
			if err != nil {
				switch {
				case errors.Is(err, apperrors.ErrTokenExpired):
					render.ServiceError(w, "Access token expired", http.StatusUnauthorized)
				case errors.Is(err, apperrors.ErrUserNotFound):
					render.ServiceError(w, "Invalid access token", http.StatusUnauthorized)
				default:
					render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				}
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
