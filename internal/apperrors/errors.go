package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrFieldsRequired     = errors.New("required field is blank")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenExpired  = errors.New("token is expired")
	ErrTokenInvalid  = errors.New("token is invalid")
	ErrTokenMismatch = errors.New("refresh token does not match stored one")
)
