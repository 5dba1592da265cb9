package handlers

import (
	"errors"
	"net/http"

	"github.com/dtarasov/passport/internal/apperrors"
	"github.com/dtarasov/passport/internal/handlers/render"
	"github.com/dtarasov/passport/internal/handlers/userctx"
	"github.com/dtarasov/passport/internal/logger"
)

func handleUserMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())
		render.JSON(w, NewUserView(user))
	})
}

func handleChangePassword(auth authService, l logger.Logger) http.Handler {
	type request struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, _ := userctx.FromContext(r.Context())

		err = auth.ChangePassword(r.Context(), user.ID, data.OldPassword, data.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrFieldsRequired):
				render.ServiceError(w, "New password must not be blank", http.StatusBadRequest)
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				render.ServiceError(w, "Invalid old password", http.StatusUnauthorized)
			default:
				l.Error("password change failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{Message: "Password changed successfully"})
	})
}
