package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtarasov/passport/internal/apperrors"
	"github.com/dtarasov/passport/internal/models"
	"github.com/dtarasov/passport/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (full_name, email, username, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, full_name, email, username, password_hash, refresh_token
`

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, arg.FullName, arg.Email, arg.Username, arg.PasswordHash)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return user, apperrors.ErrUserAlreadyExists
		}
	}

	return user, err
}

const getUserByID = `-- name: getUserByID
SELECT id, created_at, full_name, email, username, password_hash, refresh_token
FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, userID)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return user, apperrors.ErrUserNotFound
	}

	return user, err
}

const getUserByLogin = `-- name: getUserByLogin
SELECT id, created_at, full_name, email, username, password_hash, refresh_token
FROM users
WHERE ($1 != '' AND username = $1) OR ($2 != '' AND email = $2)
`

// Get user by username or email, whichever matches first
// Single query covers both identifiers so registration conflict check is one roundtrip
func (r *UserRepo) GetUserByLogin(ctx context.Context, username string, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByLogin, username, email)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return user, apperrors.ErrUserNotFound
	}

	return user, err
}

const updateRefreshToken = `-- name: updateRefreshToken
UPDATE users
SET refresh_token = $2
WHERE id = $1
RETURNING id, created_at, full_name, email, username, password_hash, refresh_token
`

func (r *UserRepo) UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token *string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateRefreshToken, userID, token)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return user, apperrors.ErrUserNotFound
	}

	return user, err
}

const updatePassword = `-- name: updatePassword
UPDATE users
SET password_hash = $2
WHERE id = $1
RETURNING id, created_at, full_name, email, username, password_hash, refresh_token
`

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updatePassword, userID, passwordHash)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return user, apperrors.ErrUserNotFound
	}

	return user, err
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.FullName, &u.Email, &u.Username, &u.HashedPassword, &u.RefreshToken)
	return u, err
}
