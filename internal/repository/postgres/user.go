package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swimschool/billing/internal/domain"
)

// UserRepository хранит учетные записи сотрудников
type UserRepository struct {
	db DBTX
}

// NewUserRepository создает новый UserRepository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const staffUserColumns = `id, login, password_hash, role, report_access, created_at`

func scanStaffUser(row pgx.Row) (*domain.StaffUser, error) {
	user := &domain.StaffUser{}
	err := row.Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Role, &user.ReportAccess, &user.CreatedAt)
	return user, err
}

// CreateUser создает нового сотрудника
func (r *UserRepository) CreateUser(ctx context.Context, login, passwordHash string, role domain.StaffRole, reportAccess bool) (*domain.StaffUser, error) {
	user, err := scanStaffUser(r.db.QueryRow(ctx,
		`INSERT INTO staff_users (login, password_hash, role, report_access)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+staffUserColumns,
		login, passwordHash, role, reportAccess,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("repository: failed to create user %q: %w", login, err)
	}

	return user, nil
}

// GetUserByLogin получает сотрудника по логину
func (r *UserRepository) GetUserByLogin(ctx context.Context, login string) (*domain.StaffUser, error) {
	user, err := scanStaffUser(r.db.QueryRow(ctx,
		`SELECT `+staffUserColumns+`
		 FROM staff_users
		 WHERE login = $1`,
		login,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: failed to get user by login %q: %w", login, err)
	}

	return user, nil
}

// GetUserByID получает сотрудника по ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*domain.StaffUser, error) {
	user, err := scanStaffUser(r.db.QueryRow(ctx,
		`SELECT `+staffUserColumns+`
		 FROM staff_users
		 WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: failed to get user by id %d: %w", id, err)
	}

	return user, nil
}
