package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/utils/jwt"
	"github.com/swimschool/billing/internal/utils/password"
)

// RegisterRequest данные нового сотрудника
type RegisterRequest struct {
	Login        string
	Password     string
	Role         domain.StaffRole
	ReportAccess bool
}

// AuthService регистрирует и аутентифицирует сотрудников
type AuthService struct {
	userRepo          UserRepository
	passwordHasher    password.Hasher
	jwtManager        *jwt.Manager
	minPasswordLength int
}

// NewAuthService создает новый AuthService
func NewAuthService(
	userRepo UserRepository,
	passwordHasher password.Hasher,
	jwtManager *jwt.Manager,
	minPasswordLength int,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		passwordHasher:    passwordHasher,
		jwtManager:        jwtManager,
		minPasswordLength: minPasswordLength,
	}
}

// Register регистрирует нового сотрудника и возвращает его токен.
// Роль администратора и доступ к отчетам может выдать только администратор (caller).
func (s *AuthService) Register(ctx context.Context, caller *domain.Session, req RegisterRequest) (string, error) {
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		return "", invalidInput("empty login or password")
	}
	if len(req.Password) < s.minPasswordLength {
		return "", invalidInput("password must be at least %d characters", s.minPasswordLength)
	}

	switch req.Role {
	case "":
		req.Role = domain.StaffRoleInstructor
	case domain.StaffRoleAdmin, domain.StaffRoleInstructor:
	default:
		return "", invalidInput("unknown role %q", req.Role)
	}

	elevated := req.Role == domain.StaffRoleAdmin || req.ReportAccess
	if elevated && (caller == nil || caller.Role != domain.StaffRoleAdmin) {
		return "", domain.ErrForbidden
	}

	user, err := s.createUser(ctx, req)
	if err != nil {
		return "", err
	}

	return s.issueToken(user)
}

// EnsureAdmin создает администратора с доступом к отчетам, если логин еще свободен
func (s *AuthService) EnsureAdmin(ctx context.Context, login, adminPassword string) (bool, error) {
	_, err := s.createUser(ctx, RegisterRequest{
		Login:        login,
		Password:     adminPassword,
		Role:         domain.StaffRoleAdmin,
		ReportAccess: true,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Login аутентифицирует сотрудника
func (s *AuthService) Login(ctx context.Context, login, userPassword string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || userPassword == "" {
		return "", invalidInput("empty login or password")
	}

	user, err := s.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth service: failed to get user %q: %w", login, err)
	}

	if err := s.passwordHasher.Check(user.PasswordHash, userPassword); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *AuthService) createUser(ctx context.Context, req RegisterRequest) (*domain.StaffUser, error) {
	hash, err := s.passwordHasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) || errors.Is(err, password.ErrEmpty) {
			return nil, invalidInput("%v", err)
		}
		return nil, fmt.Errorf("auth service: failed to hash password for user %q: %w", req.Login, err)
	}

	user, err := s.userRepo.CreateUser(ctx, req.Login, hash, req.Role, req.ReportAccess)
	if err != nil {
		// Не оборачиваем sentinel error
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("auth service: failed to register user %q: %w", req.Login, err)
	}

	return user, nil
}

func (s *AuthService) issueToken(user *domain.StaffUser) (string, error) {
	token, err := s.jwtManager.Generate(domain.Session{
		UserID:       user.ID,
		Role:         user.Role,
		ReportAccess: user.ReportAccess,
	})
	if err != nil {
		return "", fmt.Errorf("auth service: failed to generate token for user %d: %w", user.ID, err)
	}
	return token, nil
}
