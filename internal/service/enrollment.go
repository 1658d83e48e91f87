package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/swimschool/billing/internal/billing"
	"github.com/swimschool/billing/internal/cache"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/utils/idnumber"
	"go.uber.org/zap"
)

// ParticipantInput данные нового участника
type ParticipantInput struct {
	NationalID string
	FirstName  string
	LastName   string
	Phone      string
}

// RegistrationInput данные записи на курс.
// Пустые суммы берутся из курса, пустая дата означает сегодня.
type RegistrationInput struct {
	ProductID        int64
	ParticipantID    int64
	RequiredAmount   *decimal.Decimal
	DiscountAmount   *decimal.Decimal
	DiscountApproved bool
	RegistrationDate string
}

// EnrollmentService управляет участниками и их записями на курсы
type EnrollmentService struct {
	participantRepo  ParticipantRepository
	productRepo      ProductRepository
	registrationRepo RegistrationRepository
	paymentRepo      PaymentRepository
	cache            cache.Cache
	logger           *zap.Logger
	now              func() time.Time
}

// NewEnrollmentService создает новый EnrollmentService
func NewEnrollmentService(
	participantRepo ParticipantRepository,
	productRepo ProductRepository,
	registrationRepo RegistrationRepository,
	paymentRepo PaymentRepository,
	summaryCache cache.Cache,
	logger *zap.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		participantRepo:  participantRepo,
		productRepo:      productRepo,
		registrationRepo: registrationRepo,
		paymentRepo:      paymentRepo,
		cache:            summaryCache,
		logger:           logger,
		now:              time.Now,
	}
}

// CreateParticipant проверяет номер удостоверения и сохраняет участника
func (s *EnrollmentService) CreateParticipant(ctx context.Context, in ParticipantInput) (*domain.Participant, error) {
	nationalID, ok := idnumber.Normalize(in.NationalID)
	if !ok || !idnumber.Validate(nationalID) {
		return nil, domain.ErrInvalidNationalID
	}

	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, invalidInput("first name is required")
	}

	participant := &domain.Participant{
		NationalID: nationalID,
		FirstName:  firstName,
		LastName:   strings.TrimSpace(in.LastName),
		Phone:      strings.TrimSpace(in.Phone),
	}
	if err := s.participantRepo.CreateParticipant(ctx, participant); err != nil {
		if errors.Is(err, domain.ErrParticipantExists) {
			return nil, err
		}
		return nil, fmt.Errorf("enrollment service: failed to create participant: %w", err)
	}

	return participant, nil
}

// GetParticipant возвращает участника по ID
func (s *EnrollmentService) GetParticipant(ctx context.Context, id int64) (*domain.Participant, error) {
	participant, err := s.participantRepo.GetParticipant(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("enrollment service: failed to get participant %d: %w", id, err)
	}
	return participant, nil
}

// Register записывает участника на курс с учетом вместимости курса
func (s *EnrollmentService) Register(ctx context.Context, in RegistrationInput) (*domain.Registration, error) {
	regDate, err := dateOrToday(in.RegistrationDate, s.now)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetProduct(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("enrollment service: failed to get product %d: %w", in.ProductID, err)
	}

	reg := &domain.Registration{
		ProductID:        product.ID,
		ParticipantID:    in.ParticipantID,
		RequiredAmount:   product.Price,
		DiscountAmount:   decimal.Zero,
		DiscountApproved: in.DiscountApproved,
		RegistrationDate: regDate,
	}
	if product.DiscountAmount != nil {
		reg.DiscountAmount = *product.DiscountAmount
	}
	if in.RequiredAmount != nil {
		reg.RequiredAmount = *in.RequiredAmount
	}
	if in.DiscountAmount != nil {
		reg.DiscountAmount = *in.DiscountAmount
	}
	if err := billing.ValidateRegistration(*reg); err != nil {
		return nil, err
	}

	if err := s.registrationRepo.CreateRegistration(ctx, reg, product.MaxParticipants); err != nil {
		switch {
		case errors.Is(err, domain.ErrProductFull),
			errors.Is(err, domain.ErrProductNotFound),
			errors.Is(err, domain.ErrRegistrationExists),
			errors.Is(err, domain.ErrParticipantNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("enrollment service: failed to register participant %d to product %d: %w",
			in.ParticipantID, in.ProductID, err)
	}

	invalidateProductSummary(ctx, s.cache, s.logger, product.ID)

	return reg, nil
}

// GetRegistration возвращает регистрацию по ID
func (s *EnrollmentService) GetRegistration(ctx context.Context, id int64) (*domain.Registration, error) {
	reg, err := s.registrationRepo.GetRegistration(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("enrollment service: failed to get registration %d: %w", id, err)
	}
	return reg, nil
}

// UpdateRegistration меняет суммы и одобрение скидки регистрации
func (s *EnrollmentService) UpdateRegistration(ctx context.Context, id int64, update domain.RegistrationUpdate) (*domain.Registration, error) {
	if update.IsEmpty() {
		return nil, domain.ErrEmptyRegistrationEdit
	}
	if update.RequiredAmount != nil && update.RequiredAmount.IsNegative() {
		return nil, &domain.InvalidAmountError{Field: "required_amount", Value: update.RequiredAmount.String()}
	}
	if update.DiscountAmount != nil && update.DiscountAmount.IsNegative() {
		return nil, &domain.InvalidAmountError{Field: "discount_amount", Value: update.DiscountAmount.String()}
	}

	reg, err := s.registrationRepo.UpdateRegistration(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("enrollment service: failed to update registration %d: %w", id, err)
	}

	invalidateProductSummary(ctx, s.cache, s.logger, reg.ProductID)

	return reg, nil
}

// RegistrationStatus вычисляет статус оплаты регистрации по реальным поступлениям
func (s *EnrollmentService) RegistrationStatus(ctx context.Context, id int64) (domain.PaymentStatusDetails, error) {
	reg, err := s.GetRegistration(ctx, id)
	if err != nil {
		return domain.PaymentStatusDetails{}, err
	}

	payments, err := s.paymentRepo.ListPaymentsByRegistration(ctx, id)
	if err != nil {
		return domain.PaymentStatusDetails{}, fmt.Errorf("enrollment service: failed to list payments for registration %d: %w", id, err)
	}

	return billing.Evaluate(*reg, billing.RealMoney(payments))
}

// invalidateProductSummary поднимает версию сводки курса; ошибки кэша не прерывают запрос
func invalidateProductSummary(ctx context.Context, c cache.Cache, logger *zap.Logger, productID int64) {
	if _, err := c.Incr(ctx, cache.ProductSummaryVersionKey(productID)); err != nil {
		logger.Warn("failed to invalidate product summary",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
	}
}
