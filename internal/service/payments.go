package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/swimschool/billing/internal/cache"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/metrics"
	"go.uber.org/zap"
)

// PaymentInput данные поступления; пустая дата означает сегодня
type PaymentInput struct {
	RegistrationID int64
	Amount         decimal.Decimal
	ReceiptNumber  string
	PaymentDate    string
}

// PaymentService записывает реальные денежные поступления по регистрациям
type PaymentService struct {
	registrationRepo RegistrationRepository
	paymentRepo      PaymentRepository
	cache            cache.Cache
	logger           *zap.Logger
	now              func() time.Time
}

// NewPaymentService создает новый PaymentService
func NewPaymentService(
	registrationRepo RegistrationRepository,
	paymentRepo PaymentRepository,
	summaryCache cache.Cache,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		registrationRepo: registrationRepo,
		paymentRepo:      paymentRepo,
		cache:            summaryCache,
		logger:           logger,
		now:              time.Now,
	}
}

// RecordPayment сохраняет поступление. Скидки хранятся в регистрации, поэтому
// здесь принимаются только положительные суммы.
func (s *PaymentService) RecordPayment(ctx context.Context, in PaymentInput) (*domain.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, &domain.InvalidAmountError{Field: "amount", Value: in.Amount.String()}
	}

	paymentDate, err := dateOrToday(in.PaymentDate, s.now)
	if err != nil {
		return nil, err
	}

	reg, err := s.getRegistration(ctx, in.RegistrationID)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		RegistrationID: reg.ID,
		Amount:         in.Amount,
		ReceiptNumber:  strings.TrimSpace(in.ReceiptNumber),
		Kind:           domain.PaymentKindPayment,
		PaymentDate:    paymentDate,
	}
	if err := s.paymentRepo.CreatePayment(ctx, payment); err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("payment service: failed to record payment for registration %d: %w", reg.ID, err)
	}

	metrics.PaymentsRecorded.Inc()
	invalidateProductSummary(ctx, s.cache, s.logger, reg.ProductID)

	s.logger.Info("payment recorded",
		zap.Int64("registration_id", reg.ID),
		zap.Int64("payment_id", payment.ID),
		zap.String("amount", payment.Amount.StringFixed(2)),
	)

	return payment, nil
}

// ListPayments возвращает все записи о поступлениях регистрации
func (s *PaymentService) ListPayments(ctx context.Context, registrationID int64) ([]domain.Payment, error) {
	if _, err := s.getRegistration(ctx, registrationID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListPaymentsByRegistration(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("payment service: failed to list payments for registration %d: %w", registrationID, err)
	}
	return payments, nil
}

func (s *PaymentService) getRegistration(ctx context.Context, id int64) (*domain.Registration, error) {
	reg, err := s.registrationRepo.GetRegistration(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("payment service: failed to get registration %d: %w", id, err)
	}
	return reg, nil
}
