package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtarasov/passport/internal/apperrors"
)

func mustCodec(t *testing.T, cfg TokenConfig) *TokenCodec {
	t.Helper()

	codec, err := NewTokenCodec(cfg)
	require.NoError(t, err, "token codec should be created without errors")
	return codec
}

func Test_TokenCodec(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("new defaults", func(t *testing.T) {
		codec := mustCodec(t, TokenConfig{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})

		require.Equal(t, []byte("access-secret"), codec.accessKey, "access key should be set")
		require.Equal(t, []byte("refresh-secret"), codec.refreshKey, "refresh key should be set")
		require.Equal(t, defaultAccessTokenTTL, codec.accessTTL, "default access token TTL should be set")
		require.Equal(t, defaultRefreshTokenTTL, codec.refreshTTL, "default refresh token TTL should be set")
		require.Equal(t, defaultSigningMethod, codec.alg.Alg(), "default signing method should be set")
	})

	t.Run("new fails without secrets", func(t *testing.T) {
		_, err := NewTokenCodec(TokenConfig{AccessSecret: "access-secret"})
		require.Error(t, err, "codec without refresh secret should not be created")

		_, err = NewTokenCodec(TokenConfig{RefreshSecret: "refresh-secret"})
		require.Error(t, err, "codec without access secret should not be created")
	})

	t.Run("new fails if secrets equal", func(t *testing.T) {
		_, err := NewTokenCodec(TokenConfig{AccessSecret: "same", RefreshSecret: "same"})
		require.Error(t, err, "codec with equal secrets should not be created")
	})

	t.Run("issue access", func(t *testing.T) {
		codec := mustCodec(t, TokenConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     15 * time.Minute,
		})

		token, err := codec.IssueAccess(userID)
		require.NoError(t, err)

		assert.NotEmpty(t, token.Value, "access token should not be empty")
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, time.Second)

		// Parse and verify the access token claims
		claims := &TokenClaims{}
		parsed, err := jwt.ParseWithClaims(token.Value, claims, func(token *jwt.Token) (any, error) {
			return []byte("access-secret"), nil
		})
		require.NoError(t, err)
		require.True(t, parsed.Valid, "access token should be valid")

		assert.Equal(t, userID, claims.UserID, "user ID in token should match")
		assert.NotEmpty(t, claims.ID, "token has to has jti")
		assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second, "issued at should be close to now")
		assert.WithinDuration(t, token.ExpiresAt, claims.ExpiresAt.Time, 0, "expires at should match issued token")
	})

	t.Run("issue different tokens", func(t *testing.T) {
		codec := mustCodec(t, TokenConfig{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})

		access, err := codec.IssueAccess(userID)
		require.NoError(t, err)
		refresh, err := codec.IssueRefresh(userID)
		require.NoError(t, err)

		assert.NotEqual(t, access.Value, refresh.Value, "access and refresh tokens should be different")
	})

	t.Run("parse valid token", func(t *testing.T) {
		codec := mustCodec(t, TokenConfig{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})

		access, err := codec.IssueAccess(userID)
		require.NoError(t, err)
		refresh, err := codec.IssueRefresh(userID)
		require.NoError(t, err)

		got, err := codec.Parse(access.Value, TokenKindAccess)
		require.NoError(t, err, "valid access token should be parsed without errors")
		require.Equal(t, userID, got)

		got, err = codec.Parse(refresh.Value, TokenKindRefresh)
		require.NoError(t, err, "valid refresh token should be parsed without errors")
		require.Equal(t, userID, got)
	})

	t.Run("kinds not interchangeable", func(t *testing.T) {
		codec := mustCodec(t, TokenConfig{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})

		access, err := codec.IssueAccess(userID)
		require.NoError(t, err)

		_, err = codec.Parse(access.Value, TokenKindRefresh)
		require.Error(t, err, "access token must not verify as refresh")
		require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("not a token", func(t *testing.T) {
		codec := mustCodec(t, TokenConfig{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})

		_, err := codec.Parse("invalid token", TokenKindAccess)
		require.Error(t, err, "parsing even not a token should return an error")
		require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		codec := mustCodec(t, TokenConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     -time.Minute,
		})

		access, err := codec.IssueAccess(userID)
		require.NoError(t, err)

		_, err = codec.Parse(access.Value, TokenKindAccess)
		require.Error(t, err, "token has to become expired")
		require.ErrorIs(t, err, apperrors.ErrTokenExpired)
		require.NotErrorIs(t, err, apperrors.ErrTokenInvalid, "expired token should be distinguished from invalid one")
	})

	t.Run("wrong secret", func(t *testing.T) {
		codec := mustCodec(t, TokenConfig{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})
		other := mustCodec(t, TokenConfig{AccessSecret: "other-access-secret", RefreshSecret: "other-refresh-secret"})

		access, err := other.IssueAccess(userID)
		require.NoError(t, err)

		_, err = codec.Parse(access.Value, TokenKindAccess)
		require.Error(t, err, "token signed with different secret must fail")
		require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("not signed token", func(t *testing.T) {
		codec := mustCodec(t, TokenConfig{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})

		// Create valid but unsigned token
		token := jwt.NewWithClaims(
			jwt.SigningMethodNone,
			TokenClaims{
				RegisteredClaims: jwt.RegisteredClaims{
					ID:        uuid.NewString(),
					IssuedAt:  jwt.NewNumericDate(time.Now()),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
				},
				UserID: userID,
			},
		)
		access, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Parse(access, TokenKindAccess)
		require.Error(t, err, "Valid token with empty alg must fail")
		require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})
}
