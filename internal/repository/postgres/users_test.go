package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtarasov/passport/internal/apperrors"
	"github.com/dtarasov/passport/internal/models"
	"github.com/dtarasov/passport/internal/repository"
	"github.com/dtarasov/passport/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	alice := repository.CreateUserParams{
		FullName:     "Alice Liddell",
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "hashed_password",
	}

	createUser := func(t *testing.T, repo *UserRepo, arg repository.CreateUserParams) models.User {
		t.Helper()
		user, err := repo.CreateUser(t.Context(), arg)
		require.NoError(t, err, "user should be created without errors")
		return user
	}

	t.Run("CreateUser", func(t *testing.T) {
		t.Run("ok", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &UserRepo{DB: tx}

				user := createUser(t, repo, alice)

				assert.NotEqual(t, uuid.Nil, user.ID, "id should be generated")
				assert.False(t, user.CreatedAt.IsZero(), "created at should be set")
				assert.Equal(t, "Alice Liddell", user.FullName)
				assert.Equal(t, "alice@example.com", user.Email)
				assert.Equal(t, "alice", user.Username)
				assert.Equal(t, "hashed_password", user.HashedPassword)
				assert.Nil(t, user.RefreshToken)
			})
		})

		t.Run("fail on duplicate username", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &UserRepo{DB: tx}
				createUser(t, repo, alice)

				dup := alice
				dup.Email = "other@example.com"
				_, err := repo.CreateUser(t.Context(), dup)

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})

		t.Run("fail on duplicate email", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &UserRepo{DB: tx}
				createUser(t, repo, alice)

				dup := alice
				dup.Username = "alice2"
				_, err := repo.CreateUser(t.Context(), dup)

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})
	})

	t.Run("GetUserByID", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &UserRepo{DB: tx}
			created := createUser(t, repo, alice)

			user, err := repo.GetUserByID(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, user)

			_, err = repo.GetUserByID(t.Context(), uuid.New())
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("GetUserByLogin", func(t *testing.T) {
		t.Run("matches username or email", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &UserRepo{DB: tx}
				created := createUser(t, repo, alice)

				byUsername, err := repo.GetUserByLogin(t.Context(), "alice", "")
				require.NoError(t, err)
				assert.Equal(t, created.ID, byUsername.ID)

				byEmail, err := repo.GetUserByLogin(t.Context(), "", "alice@example.com")
				require.NoError(t, err)
				assert.Equal(t, created.ID, byEmail.ID)

				mixed, err := repo.GetUserByLogin(t.Context(), "nobody", "alice@example.com")
				require.NoError(t, err, "should match when only one identifier hits")
				assert.Equal(t, created.ID, mixed.ID)
			})
		})

		t.Run("not found", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &UserRepo{DB: tx}
				createUser(t, repo, alice)

				_, err := repo.GetUserByLogin(t.Context(), "nobody", "nobody@example.com")
				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})

		t.Run("empty identifiers match nothing", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &UserRepo{DB: tx}
				createUser(t, repo, alice)

				_, err := repo.GetUserByLogin(t.Context(), "", "")
				require.ErrorIs(t, err, apperrors.ErrUserNotFound, "blank identifiers must not match any row")
			})
		})
	})

	t.Run("UpdateRefreshToken", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &UserRepo{DB: tx}
			created := createUser(t, repo, alice)

			token := "refresh-token-value"
			user, err := repo.UpdateRefreshToken(t.Context(), created.ID, &token)
			require.NoError(t, err)
			require.NotNil(t, user.RefreshToken)
			assert.Equal(t, token, *user.RefreshToken)

			user, err = repo.UpdateRefreshToken(t.Context(), created.ID, nil)
			require.NoError(t, err)
			assert.Nil(t, user.RefreshToken, "nil should clear stored token")

			_, err = repo.UpdateRefreshToken(t.Context(), uuid.New(), &token)
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("UpdatePassword", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &UserRepo{DB: tx}
			created := createUser(t, repo, alice)

			user, err := repo.UpdatePassword(t.Context(), created.ID, "new_hash")
			require.NoError(t, err)
			assert.Equal(t, "new_hash", user.HashedPassword)

			_, err = repo.UpdatePassword(t.Context(), uuid.New(), "new_hash")
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}
