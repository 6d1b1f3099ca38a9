package auth_test

import (
	"context"
	"testing"

	"go-welfare/internal/auth"
	autherrors "go-welfare/internal/auth/errors"
	"go-welfare/internal/shared/contextutil"
	"go-welfare/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAuthRepository struct {
	findByEmailFn func(ctx context.Context, email string) (*user.User, error)
	findByIDFn    func(ctx context.Context, id string) (*user.User, error)
}

func (f *fakeAuthRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func testAccount(t *testing.T, password string) *user.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &user.User{
		ID:           uuid.New(),
		EmployeeID:   "EMP-001",
		Name:         "Alice",
		Email:        "alice@example.com",
		Password:     string(hashed),
		Role:         contextutil.RoleUser,
		DepartmentID: uuid.New(),
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("valid credentials yield a token pair", func(t *testing.T) {
		account := testAccount(t, "s3cret-pass")
		repo := &fakeAuthRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				assert.Equal(t, "alice@example.com", email)
				return account, nil
			},
		}
		svc := auth.NewService(repo)

		pair, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "s3cret-pass"})

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		account := testAccount(t, "s3cret-pass")
		repo := &fakeAuthRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return account, nil
			},
		}
		svc := auth.NewService(repo)

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "wrong"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email is rejected with the same error", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "whatever"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("a refresh token rotates into a new pair", func(t *testing.T) {
		account := testAccount(t, "s3cret-pass")
		repo := &fakeAuthRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return account, nil },
			findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				assert.Equal(t, account.ID.String(), id)
				return account, nil
			},
		}
		svc := auth.NewService(repo)

		pair, err := svc.Login(ctx, auth.LoginRequest{Email: account.Email, Password: "s3cret-pass"})
		assert.NoError(t, err)

		rotated, err := svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: pair.RefreshToken})

		assert.NoError(t, err)
		assert.NotEmpty(t, rotated.AccessToken)
		assert.NotEmpty(t, rotated.RefreshToken)
	})

	t.Run("an access token cannot be used as a refresh token", func(t *testing.T) {
		account := testAccount(t, "s3cret-pass")
		repo := &fakeAuthRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return account, nil },
			findByIDFn:    func(ctx context.Context, id string) (*user.User, error) { return account, nil },
		}
		svc := auth.NewService(repo)

		pair, err := svc.Login(ctx, auth.LoginRequest{Email: account.Email, Password: "s3cret-pass"})
		assert.NoError(t, err)

		_, err = svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: pair.AccessToken})

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})

		_, err := svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: "not-a-jwt"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("deleted account cannot rotate", func(t *testing.T) {
		account := testAccount(t, "s3cret-pass")
		repo := &fakeAuthRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return account, nil },
		}
		svc := auth.NewService(repo)

		pair, err := svc.Login(ctx, auth.LoginRequest{Email: account.Email, Password: "s3cret-pass"})
		assert.NoError(t, err)

		_, err = svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: pair.RefreshToken})

		assert.ErrorIs(t, err, autherrors.ErrAccountNotFound)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("returns the profile without the password", func(t *testing.T) {
		account := testAccount(t, "s3cret-pass")
		repo := &fakeAuthRepository{
			findByIDFn: func(ctx context.Context, id string) (*user.User, error) { return account, nil },
		}
		svc := auth.NewService(repo)

		me, err := svc.GetMe(ctx, account.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, account.Email, me.Email)
		assert.Equal(t, account.EmployeeID, me.EmployeeID)
	})

	t.Run("missing account", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})

		_, err := svc.GetMe(ctx, uuid.New().String())

		assert.ErrorIs(t, err, autherrors.ErrAccountNotFound)
	})
}
