package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dtarasov/passport/internal/apperrors"
	"github.com/dtarasov/passport/internal/models"
)

// HTTP transport side of the service: how tokens travel in requests and
// responses. Tokens are set as http-only cookies, access token is also
// accepted from the Authorization header for non-cookie clients.

func (s *AuthService) SetTokenPair(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, s.tokenCookie(s.accessCookieName, pair.Access))
	http.SetCookie(w, s.tokenCookie(s.refreshCookieName, pair.Refresh))
}

func (s *AuthService) ClearTokenPair(w http.ResponseWriter) {
	for _, name := range []string{s.accessCookieName, s.refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// Read refresh token from cookie, else from JSON request body
// Cookie takes precedence
func (s *AuthService) ReadRefresh(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(s.refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if r.Body != nil {
		// Decode error is not interesting: absent token is reported either way
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	if body.RefreshToken == "" {
		return "", fmt.Errorf("no refresh token in request. Err: %w", apperrors.ErrTokenInvalid)
	}
	return body.RefreshToken, nil
}

// Auth gate core: extract access token from cookie or bearer header,
// verify it and resolve the acting user
// Never rotates tokens: expired access token always rejects
func (s *AuthService) UserFromRequest(ctx context.Context, r *http.Request) (models.User, error) {
	var user models.User

	token := s.readAccess(r)
	if token == "" {
		return user, fmt.Errorf("no access token in request. Err: %w", apperrors.ErrTokenInvalid)
	}

	userID, err := s.codec.Parse(token, TokenKindAccess)
	if err != nil {
		return user, err
	}

	user, err = s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return user, fmt.Errorf("token subject not found. Err: %w", apperrors.ErrUserNotFound)
		}
		return user, fmt.Errorf("error while resolving token subject. Err: %w", err)
	}

	return user, nil
}

func (s *AuthService) readAccess(r *http.Request) string {
	if cookie, err := r.Cookie(s.accessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if scheme, token, found := strings.Cut(header, " "); found && scheme == defaultAccessAuthScheme {
		return strings.TrimSpace(token)
	}

	return ""
}

func (s *AuthService) tokenCookie(name string, token models.IssuedToken) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token.Value,
		Path:     "/",
		MaxAge:   int(time.Until(token.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
