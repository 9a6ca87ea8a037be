package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuth(repo *MockUserRepository) *AuthService {
	return NewAuthService(repo, NewTokenService("auth-test-secret", "itera-test", time.Hour, repo))
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("Success: Should register a valid user", func(t *testing.T) {
		repo := new(MockUserRepository)
		ctx := context.Background()

		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := newAuth(repo).Register(ctx, Credentials{Email: "Quit@Sugar.io", Password: "StrongPassword123!"})

		require.NoError(t, err)
		assert.Equal(t, "quit@sugar.io", user.Email)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, user.PasswordHash)
		repo.AssertExpectations(t)
	})

	t.Run("Fail: Should return error for invalid email", func(t *testing.T) {
		repo := new(MockUserRepository)

		user, err := newAuth(repo).Register(context.Background(), Credentials{Email: "not-an-email", Password: "pass"})

		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		assert.Nil(t, user)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should return error for short password", func(t *testing.T) {
		repo := new(MockUserRepository)

		user, err := newAuth(repo).Register(context.Background(), Credentials{Email: "valid@email.com", Password: "short"})

		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		assert.Nil(t, user)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should surface duplicate email unchanged", func(t *testing.T) {
		repo := new(MockUserRepository)
		ctx := context.Background()
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrEmailAlreadyExists)

		_, err := newAuth(repo).Register(ctx, Credentials{Email: "dup@email.com", Password: "StrongPassword123!"})

		assert.Equal(t, domain.ErrEmailAlreadyExists, err)
	})

	t.Run("Fail: Should wrap other repository errors", func(t *testing.T) {
		repo := new(MockUserRepository)
		ctx := context.Background()
		boom := errors.New("connection reset")
		repo.On("Create", ctx, mock.Anything).Return(boom)

		_, err := newAuth(repo).Register(ctx, Credentials{Email: "a@b.io", Password: "StrongPassword123!"})

		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "auth service")
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("owner-9", "runner@itera.app")
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("correct-horse"))

	t.Run("Success: Issues a token that validates back to the user", func(t *testing.T) {
		repo := new(MockUserRepository)
		ctx := context.Background()
		repo.On("GetByEmail", ctx, "runner@itera.app").Return(user, nil)
		repo.On("GetByID", mock.Anything, "owner-9").Return(user, nil)

		auth := newAuth(repo)
		token, err := auth.Login(ctx, Credentials{Email: " Runner@Itera.app ", Password: "correct-horse"})
		require.NoError(t, err)

		id, err := auth.tokens.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "owner-9", id)
	})

	t.Run("Fail: Wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		ctx := context.Background()
		repo.On("GetByEmail", ctx, "runner@itera.app").Return(user, nil)

		_, err := newAuth(repo).Login(ctx, Credentials{Email: "runner@itera.app", Password: "nope-nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Fail: Unknown email looks like a bad password", func(t *testing.T) {
		repo := new(MockUserRepository)
		ctx := context.Background()
		repo.On("GetByEmail", ctx, "ghost@itera.app").Return(nil, domain.ErrUserNotFound)

		_, err := newAuth(repo).Login(ctx, Credentials{Email: "ghost@itera.app", Password: "whatever1"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
