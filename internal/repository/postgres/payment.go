package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swimschool/billing/internal/domain"
)

// PaymentRepository хранит поступления по регистрациям
type PaymentRepository struct {
	db DBTX
}

// NewPaymentRepository создает новый PaymentRepository
func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, registration_id, amount, receipt_number, kind, payment_date, created_at`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	var amount int64
	err := row.Scan(&p.ID, &p.RegistrationID, &amount, &p.ReceiptNumber, &p.Kind, &p.PaymentDate, &p.CreatedAt)
	if err != nil {
		return domain.Payment{}, err
	}
	p.Amount = fromMinor(amount)
	return p, nil
}

// CreatePayment добавляет поступление
func (r *PaymentRepository) CreatePayment(ctx context.Context, p *domain.Payment) error {
	if p.Kind == "" {
		p.Kind = domain.PaymentKindPayment
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO payments (registration_id, amount, receipt_number, kind, payment_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		p.RegistrationID, toMinor(p.Amount), p.ReceiptNumber, p.Kind, p.PaymentDate,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRegistrationNotFound
		}
		return fmt.Errorf("repository: failed to create payment for registration %d: %w", p.RegistrationID, err)
	}

	return nil
}

// ListPaymentsByRegistration возвращает поступления регистрации по дате
func (r *PaymentRepository) ListPaymentsByRegistration(ctx context.Context, registrationID int64) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+`
		 FROM payments
		 WHERE registration_id = $1
		 ORDER BY payment_date, id`,
		registrationID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list payments for registration %d: %w", registrationID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating payments: %w", err)
	}

	return payments, nil
}

// ListPaymentsByRegistrations загружает поступления группы регистраций одним запросом
func (r *PaymentRepository) ListPaymentsByRegistrations(ctx context.Context, registrationIDs []int64) (map[int64][]domain.Payment, error) {
	result := make(map[int64][]domain.Payment, len(registrationIDs))
	if len(registrationIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+`
		 FROM payments
		 WHERE registration_id = ANY($1)
		 ORDER BY registration_id, payment_date, id`,
		registrationIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan payment: %w", err)
		}
		result[p.RegistrationID] = append(result[p.RegistrationID], p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating payments: %w", err)
	}

	return result, nil
}
