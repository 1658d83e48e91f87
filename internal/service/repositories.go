package service

import (
	"context"
	"time"

	"github.com/swimschool/billing/internal/domain"
)

// UserRepository определяет методы для работы с сотрудниками
type UserRepository interface {
	CreateUser(ctx context.Context, login, passwordHash string, role domain.StaffRole, reportAccess bool) (*domain.StaffUser, error)
	GetUserByLogin(ctx context.Context, login string) (*domain.StaffUser, error)
}

// SeasonRepository определяет методы для работы с сезонами и бассейнами
type SeasonRepository interface {
	CreateSeason(ctx context.Context, season *domain.Season) error
	GetSeason(ctx context.Context, id int64) (*domain.Season, error)
	ListSeasons(ctx context.Context) ([]*domain.Season, error)
	CreatePool(ctx context.Context, pool *domain.Pool) error
	ListPools(ctx context.Context, seasonID int64) ([]*domain.Pool, error)
}

// ProductRepository определяет методы для работы с курсами
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProductsBySeason(ctx context.Context, seasonID int64) ([]*domain.Product, error)
	ListProductsActiveOn(ctx context.Context, day time.Time) ([]*domain.Product, error)
}

// ParticipantRepository определяет методы для работы с участниками
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, p *domain.Participant) error
	GetParticipant(ctx context.Context, id int64) (*domain.Participant, error)
	GetParticipantsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Participant, error)
}

// RegistrationRepository определяет методы для работы с регистрациями
type RegistrationRepository interface {
	CreateRegistration(ctx context.Context, reg *domain.Registration, capacity int) error
	GetRegistration(ctx context.Context, id int64) (*domain.Registration, error)
	UpdateRegistration(ctx context.Context, id int64, update domain.RegistrationUpdate) (*domain.Registration, error)
	ListRegistrationsByProduct(ctx context.Context, productID int64) ([]domain.Registration, error)
	ListRegistrationsByProducts(ctx context.Context, productIDs []int64) ([]domain.Registration, error)
	ListRegistrationsBySeason(ctx context.Context, seasonID int64) ([]domain.Registration, error)
}

// PaymentRepository определяет методы для работы с поступлениями
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *domain.Payment) error
	ListPaymentsByRegistration(ctx context.Context, registrationID int64) ([]domain.Payment, error)
	ListPaymentsByRegistrations(ctx context.Context, registrationIDs []int64) (map[int64][]domain.Payment, error)
}
