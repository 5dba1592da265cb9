package handlers

import (
	"errors"
	"net/http"

	"github.com/dtarasov/passport/internal/apperrors"
	"github.com/dtarasov/passport/internal/handlers/render"
	"github.com/dtarasov/passport/internal/handlers/userctx"
	"github.com/dtarasov/passport/internal/logger"
)

func handleRegister(auth authService, l logger.Logger) http.Handler {
	type request struct {
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required,min=2,max=50"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Message string   `json:"message"`
		User    UserView `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := auth.Register(r.Context(), data.FullName, data.Email, data.Username, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrFieldsRequired):
				render.ServiceError(w, "All fields are required", http.StatusBadRequest)
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "User already exists", http.StatusConflict)
			default:
				l.Error("register failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, response{
			Message: "User registered successfully",
			User:    NewUserView(user),
		}, http.StatusCreated)
	})
}

func handleLogin(auth authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username"`
		Email    string `json:"email" validate:"omitempty,email"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Message      string   `json:"message"`
		User         UserView `json:"user"`
		AccessToken  string   `json:"accessToken"`
		RefreshToken string   `json:"refreshToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := auth.Login(r.Context(), data.Username, data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrFieldsRequired):
				render.ServiceError(w, "Username or email is required", http.StatusBadRequest)
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "User not found", http.StatusNotFound)
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				render.ServiceError(w, "Invalid user credentials", http.StatusUnauthorized)
			default:
				l.Error("login failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		auth.SetTokenPair(w, pair)
		render.JSON(w, response{
			Message:      "User logged in successfully",
			User:         NewUserView(user),
			AccessToken:  pair.Access.Value,
			RefreshToken: pair.Refresh.Value,
		})
	})
}

func handleTokenRefresh(auth authService, l logger.Logger) http.Handler {
	type response struct {
		Message      string `json:"message"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented, err := auth.ReadRefresh(r)
		if err != nil {
			render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
			return
		}

		pair, err := auth.Refresh(r.Context(), presented)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				render.ServiceError(w, "Refresh token expired", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenMismatch):
				render.ServiceError(w, "Invalid refresh token", http.StatusUnauthorized)
			default:
				l.Error("token refresh failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		auth.SetTokenPair(w, pair)
		render.JSON(w, response{
			Message:      "Tokens refreshed successfully",
			AccessToken:  pair.Access.Value,
			RefreshToken: pair.Refresh.Value,
		})
	})
}

// Identity is taken from the auth middleware, logout itself never re-verifies it
func handleLogout(auth authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		if err := auth.Logout(r.Context(), user.ID); err != nil {
			l.Error("logout failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		auth.ClearTokenPair(w)
		render.JSON(w, response{Message: "User logged out successfully"})
	})
}
