package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swimschool/billing/internal/domain"
)

// RegistrationRepository хранит регистрации участников на курсы
type RegistrationRepository struct {
	db DBTX
}

// NewRegistrationRepository создает новый RegistrationRepository
func NewRegistrationRepository(db DBTX) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, product_id, participant_id, required_amount, discount_amount,
	discount_approved, registration_date, created_at`

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var required, discount int64
	err := row.Scan(&reg.ID, &reg.ProductID, &reg.ParticipantID, &required, &discount,
		&reg.DiscountApproved, &reg.RegistrationDate, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}
	reg.RequiredAmount = fromMinor(required)
	reg.DiscountAmount = fromMinor(discount)
	return reg, nil
}

func (r *RegistrationRepository) queryRegistrations(ctx context.Context, what, sql string, args ...any) ([]domain.Registration, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list %s: %w", what, err)
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating %s: %w", what, err)
	}

	return regs, nil
}

// CreateRegistration записывает участника на курс, если в нем есть свободные места.
// Строка курса блокируется до конца транзакции, поэтому параллельные записи на один курс
// проверяют вместимость по очереди.
func (r *RegistrationRepository) CreateRegistration(ctx context.Context, reg *domain.Registration, capacity int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin registration transaction for product %d: %w", reg.ProductID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	var locked int
	err = tx.QueryRow(ctx, `SELECT 1 FROM products WHERE id = $1 FOR UPDATE`, reg.ProductID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("repository: failed to lock product %d: %w", reg.ProductID, err)
	}

	var taken int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM registrations WHERE product_id = $1`, reg.ProductID).Scan(&taken)
	if err != nil {
		return fmt.Errorf("repository: failed to count registrations for product %d: %w", reg.ProductID, err)
	}
	if taken >= capacity {
		return domain.ErrProductFull
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO registrations (product_id, participant_id, required_amount, discount_amount,
			discount_approved, registration_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		reg.ProductID, reg.ParticipantID, toMinor(reg.RequiredAmount), toMinor(reg.DiscountAmount),
		reg.DiscountApproved, reg.RegistrationDate,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrRegistrationExists
		case isForeignKeyViolation(err):
			return domain.ErrParticipantNotFound
		}
		return fmt.Errorf("repository: failed to create registration for participant %d: %w", reg.ParticipantID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit registration for participant %d: %w", reg.ParticipantID, err)
	}

	return nil
}

// GetRegistration получает регистрацию по ID
func (r *RegistrationRepository) GetRegistration(ctx context.Context, id int64) (*domain.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("repository: failed to get registration %d: %w", id, err)
	}

	return reg, nil
}

// UpdateRegistration меняет только заданные поля регистрации
func (r *RegistrationRepository) UpdateRegistration(ctx context.Context, id int64, update domain.RegistrationUpdate) (*domain.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`UPDATE registrations
		 SET required_amount = COALESCE($2, required_amount),
		     discount_amount = COALESCE($3, discount_amount),
		     discount_approved = COALESCE($4, discount_approved)
		 WHERE id = $1
		 RETURNING `+registrationColumns,
		id, toMinorPtr(update.RequiredAmount), toMinorPtr(update.DiscountAmount), update.DiscountApproved,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("repository: failed to update registration %d: %w", id, err)
	}

	return reg, nil
}

// ListRegistrationsByProduct возвращает регистрации курса
func (r *RegistrationRepository) ListRegistrationsByProduct(ctx context.Context, productID int64) ([]domain.Registration, error) {
	return r.queryRegistrations(ctx, "product registrations",
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE product_id = $1
		 ORDER BY id`,
		productID,
	)
}

// ListRegistrationsByProducts возвращает регистрации нескольких курсов одним запросом
func (r *RegistrationRepository) ListRegistrationsByProducts(ctx context.Context, productIDs []int64) ([]domain.Registration, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	return r.queryRegistrations(ctx, "registrations",
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE product_id = ANY($1)
		 ORDER BY product_id, id`,
		productIDs,
	)
}

// ListRegistrationsBySeason возвращает регистрации всех курсов сезона
func (r *RegistrationRepository) ListRegistrationsBySeason(ctx context.Context, seasonID int64) ([]domain.Registration, error) {
	return r.queryRegistrations(ctx, "season registrations",
		`SELECT r.id, r.product_id, r.participant_id, r.required_amount, r.discount_amount,
			r.discount_approved, r.registration_date, r.created_at
		 FROM registrations r
		 JOIN products p ON p.id = r.product_id
		 WHERE p.season_id = $1
		 ORDER BY r.product_id, r.id`,
		seasonID,
	)
}
