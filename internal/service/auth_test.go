package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/utils/jwt"
	"github.com/swimschool/billing/internal/utils/password"
)

func newAuthService(t *testing.T) (*AuthService, *userRepoMock, *hasherMock, *jwt.Manager) {
	t.Helper()
	repo := &userRepoMock{}
	hasher := &hasherMock{}
	manager := jwt.NewManager("test-secret", time.Hour)
	t.Cleanup(func() {
		repo.AssertExpectations(t)
		hasher.AssertExpectations(t)
	})
	return NewAuthService(repo, hasher, manager, 6), repo, hasher, manager
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	admin := &domain.Session{UserID: 1, Role: domain.StaffRoleAdmin, ReportAccess: true}

	t.Run("Instructor by default", func(t *testing.T) {
		svc, repo, hasher, manager := newAuthService(t)
		hasher.On("Hash", "password123").Return("hashed", nil).Once()
		repo.On("CreateUser", mock.Anything, "coach", "hashed", domain.StaffRoleInstructor, false).
			Return(&domain.StaffUser{ID: 7, Login: "coach", Role: domain.StaffRoleInstructor}, nil).Once()

		token, err := svc.Register(ctx, nil, RegisterRequest{Login: " coach ", Password: "password123"})
		require.NoError(t, err)

		session, err := manager.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, domain.Session{UserID: 7, Role: domain.StaffRoleInstructor}, session)
	})

	t.Run("Admin grants report access", func(t *testing.T) {
		svc, repo, hasher, manager := newAuthService(t)
		hasher.On("Hash", "password123").Return("hashed", nil).Once()
		repo.On("CreateUser", mock.Anything, "accountant", "hashed", domain.StaffRoleInstructor, true).
			Return(&domain.StaffUser{ID: 8, Login: "accountant", Role: domain.StaffRoleInstructor, ReportAccess: true}, nil).Once()

		token, err := svc.Register(ctx, admin, RegisterRequest{Login: "accountant", Password: "password123", ReportAccess: true})
		require.NoError(t, err)

		session, err := manager.Validate(token)
		require.NoError(t, err)
		assert.True(t, session.ReportAccess)
	})

	t.Run("Elevation without admin session", func(t *testing.T) {
		svc, _, _, _ := newAuthService(t)
		instructor := &domain.Session{UserID: 2, Role: domain.StaffRoleInstructor, ReportAccess: true}

		_, err := svc.Register(ctx, nil, RegisterRequest{Login: "boss", Password: "password123", Role: domain.StaffRoleAdmin})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = svc.Register(ctx, instructor, RegisterRequest{Login: "viewer", Password: "password123", ReportAccess: true})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Invalid input", func(t *testing.T) {
		svc, _, _, _ := newAuthService(t)
		tests := []struct {
			name string
			req  RegisterRequest
		}{
			{name: "empty login", req: RegisterRequest{Password: "password123"}},
			{name: "empty password", req: RegisterRequest{Login: "coach"}},
			{name: "short password", req: RegisterRequest{Login: "coach", Password: "12345"}},
			{name: "unknown role", req: RegisterRequest{Login: "coach", Password: "password123", Role: "owner"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				token, err := svc.Register(ctx, admin, tt.req)
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Empty(t, token)
			})
		}
	})

	t.Run("Password too long", func(t *testing.T) {
		svc, _, hasher, _ := newAuthService(t)
		hasher.On("Hash", "password123").Return("", password.ErrTooLong).Once()

		_, err := svc.Register(ctx, nil, RegisterRequest{Login: "coach", Password: "password123"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("User already exists", func(t *testing.T) {
		svc, repo, hasher, _ := newAuthService(t)
		hasher.On("Hash", "password123").Return("hashed", nil).Once()
		repo.On("CreateUser", mock.Anything, "coach", "hashed", domain.StaffRoleInstructor, false).
			Return(nil, domain.ErrUserExists).Once()

		_, err := svc.Register(ctx, nil, RegisterRequest{Login: "coach", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrUserExists)
	})

	t.Run("Database error", func(t *testing.T) {
		svc, repo, hasher, _ := newAuthService(t)
		hasher.On("Hash", "password123").Return("hashed", nil).Once()
		repo.On("CreateUser", mock.Anything, "coach", "hashed", domain.StaffRoleInstructor, false).
			Return(nil, errors.New("db error")).Once()

		_, err := svc.Register(ctx, nil, RegisterRequest{Login: "coach", Password: "password123"})
		assert.ErrorContains(t, err, "failed to register user")
	})
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("Created", func(t *testing.T) {
		svc, repo, hasher, _ := newAuthService(t)
		hasher.On("Hash", "secret-pass").Return("hashed", nil).Once()
		repo.On("CreateUser", mock.Anything, "root", "hashed", domain.StaffRoleAdmin, true).
			Return(&domain.StaffUser{ID: 1, Login: "root", Role: domain.StaffRoleAdmin, ReportAccess: true}, nil).Once()

		created, err := svc.EnsureAdmin(ctx, "root", "secret-pass")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("Already exists", func(t *testing.T) {
		svc, repo, hasher, _ := newAuthService(t)
		hasher.On("Hash", "secret-pass").Return("hashed", nil).Once()
		repo.On("CreateUser", mock.Anything, "root", "hashed", domain.StaffRoleAdmin, true).
			Return(nil, domain.ErrUserExists).Once()

		created, err := svc.EnsureAdmin(ctx, "root", "secret-pass")
		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := &domain.StaffUser{ID: 3, Login: "coach", PasswordHash: "hashed", Role: domain.StaffRoleAdmin, ReportAccess: true}

	t.Run("Success", func(t *testing.T) {
		svc, repo, hasher, manager := newAuthService(t)
		repo.On("GetUserByLogin", mock.Anything, "coach").Return(user, nil).Once()
		hasher.On("Check", "hashed", "password123").Return(nil).Once()

		token, err := svc.Login(ctx, "coach", "password123")
		require.NoError(t, err)

		session, err := manager.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, domain.Session{UserID: 3, Role: domain.StaffRoleAdmin, ReportAccess: true}, session)
	})

	t.Run("Empty credentials", func(t *testing.T) {
		svc, _, _, _ := newAuthService(t)
		_, err := svc.Login(ctx, "", "password123")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("User not found", func(t *testing.T) {
		svc, repo, _, _ := newAuthService(t)
		repo.On("GetUserByLogin", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound).Once()

		_, err := svc.Login(ctx, "ghost", "password123")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Wrong password", func(t *testing.T) {
		svc, repo, hasher, _ := newAuthService(t)
		repo.On("GetUserByLogin", mock.Anything, "coach").Return(user, nil).Once()
		hasher.On("Check", "hashed", "wrong").Return(password.ErrMismatch).Once()

		_, err := svc.Login(ctx, "coach", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Database error", func(t *testing.T) {
		svc, repo, _, _ := newAuthService(t)
		repo.On("GetUserByLogin", mock.Anything, "coach").Return(nil, errors.New("db error")).Once()

		_, err := svc.Login(ctx, "coach", "password123")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
