package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtarasov/passport/internal/apperrors"
	"github.com/dtarasov/passport/internal/models"
	"github.com/dtarasov/passport/internal/repository"
)

const (
	defaultAccessCookieName  = "accessToken"
	defaultRefreshCookieName = "refreshToken"
	defaultAccessAuthScheme  = "Bearer"
)

type Config struct {
	// Hasher to use during user registration or login process
	// Bcrypt hasher is used if not set
	Hasher PasswordHasher

	// Cookie names the tokens are transported in
	// If not set than default is used
	AccessCookieName  string
	RefreshCookieName string
}

// Session manager: owns credential checks, token issuance and rotation
type AuthService struct {
	codec  *TokenCodec
	hasher PasswordHasher

	userRepo repository.UserRepo

	accessCookieName  string
	refreshCookieName string
}

func NewService(cfg Config, codec *TokenCodec, userRepo repository.UserRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	setDefaultString := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefaultString(&cfg.AccessCookieName, defaultAccessCookieName)
	setDefaultString(&cfg.RefreshCookieName, defaultRefreshCookieName)

	return &AuthService{
		codec:             codec,
		hasher:            hasher,
		userRepo:          userRepo,
		accessCookieName:  cfg.AccessCookieName,
		refreshCookieName: cfg.RefreshCookieName,
	}, nil
}

// Register new user
// Plaintext password never reaches the repository
func (s *AuthService) Register(ctx context.Context, fullName string, email string, username string, password string) (models.User, error) {
	var user models.User

	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	for _, field := range []string{fullName, email, username, password} {
		if strings.TrimSpace(field) == "" {
			return user, fmt.Errorf("all fields must be filled. Err: %w", apperrors.ErrFieldsRequired)
		}
	}

	// Single lookup against both unique fields
	// The unique constraints still backstop a concurrent registration
	_, err := s.userRepo.GetUserByLogin(ctx, username, email)
	switch {
	case err == nil:
		return user, apperrors.ErrUserAlreadyExists
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return user, fmt.Errorf("error while checking user exists. Err: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err = s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		FullName:     fullName,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return user, err
	}

	// Read the row back: if it is gone the store is inconsistent
	user, err = s.userRepo.GetUserByID(ctx, user.ID)
	if err != nil {
		return user, fmt.Errorf("error while reading created user back. Err: %w", err)
	}

	return user, nil
}

// Login user with username or email (either may be empty but not both)
func (s *AuthService) Login(ctx context.Context, username string, email string, password string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" && email == "" {
		return models.User{}, pair, fmt.Errorf("username or email is required. Err: %w", apperrors.ErrFieldsRequired)
	}

	user, err := s.userRepo.GetUserByLogin(ctx, username, email)
	if err != nil {
		return user, pair, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, pair, apperrors.ErrInvalidCredentials
	}

	pair, err = s.rotatePair(ctx, user.ID)
	if err != nil {
		return models.User{}, pair, err
	}

	return user, pair, nil
}

// Exchange valid refresh token for a fresh pair
// The presented token must match the stored one exactly: a cryptographically
// valid but superseded token is rejected (replay defence)
func (s *AuthService) Refresh(ctx context.Context, presented string) (models.TokenPair, error) {
	var pair models.TokenPair

	if presented == "" {
		return pair, fmt.Errorf("no refresh token presented. Err: %w", apperrors.ErrTokenInvalid)
	}

	userID, err := s.codec.Parse(presented, TokenKindRefresh)
	if err != nil {
		return pair, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return pair, fmt.Errorf("token subject not found. Err: %w", apperrors.ErrTokenInvalid)
	case err != nil:
		return pair, fmt.Errorf("error while resolving token subject. Err: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		return pair, apperrors.ErrTokenMismatch
	}

	return s.rotatePair(ctx, user.ID)
}

// Logout clears the stored refresh token
// Idempotent: logging out twice is not an error
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	_, err := s.userRepo.UpdateRefreshToken(ctx, userID, nil)
	if err != nil {
		return fmt.Errorf("error while clearing refresh token. Err: %w", err)
	}
	return nil
}

// Change user password after verifying the old one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword string, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("new password must not be blank. Err: %w", apperrors.ErrFieldsRequired)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.HashedPassword, oldPassword); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password. Err: %w", err)
	}

	_, err = s.userRepo.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return fmt.Errorf("error while updating password. Err: %w", err)
	}

	return nil
}

// Issue fresh pair and persist the refresh token on the user row
// This is the single rotation point for login and refresh both
func (s *AuthService) rotatePair(ctx context.Context, userID uuid.UUID) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := s.codec.IssueAccess(userID)
	if err != nil {
		return pair, err
	}

	refresh, err := s.codec.IssueRefresh(userID)
	if err != nil {
		return pair, err
	}

	_, err = s.userRepo.UpdateRefreshToken(ctx, userID, &refresh.Value)
	if err != nil {
		return pair, fmt.Errorf("error while storing refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}
