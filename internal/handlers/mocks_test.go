package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/service"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, caller *domain.Session, req service.RegisterRequest) (string, error) {
	args := m.Called(ctx, caller, req)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, login, password string) (string, error) {
	args := m.Called(ctx, login, password)
	return args.String(0), args.Error(1)
}

type mockCatalogService struct{ mock.Mock }

func (m *mockCatalogService) CreateSeason(ctx context.Context, in service.SeasonInput) (*domain.Season, error) {
	args := m.Called(ctx, in)
	season, _ := args.Get(0).(*domain.Season)
	return season, args.Error(1)
}

func (m *mockCatalogService) ListSeasons(ctx context.Context) ([]*domain.Season, error) {
	args := m.Called(ctx)
	seasons, _ := args.Get(0).([]*domain.Season)
	return seasons, args.Error(1)
}

func (m *mockCatalogService) CreatePool(ctx context.Context, seasonID int64, name string) (*domain.Pool, error) {
	args := m.Called(ctx, seasonID, name)
	pool, _ := args.Get(0).(*domain.Pool)
	return pool, args.Error(1)
}

func (m *mockCatalogService) ListPools(ctx context.Context, seasonID int64) ([]*domain.Pool, error) {
	args := m.Called(ctx, seasonID)
	pools, _ := args.Get(0).([]*domain.Pool)
	return pools, args.Error(1)
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, in service.ProductInput) (*domain.Product, error) {
	args := m.Called(ctx, in)
	product, _ := args.Get(0).(*domain.Product)
	return product, args.Error(1)
}

func (m *mockCatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*domain.Product)
	return product, args.Error(1)
}

func (m *mockCatalogService) ListProducts(ctx context.Context, seasonID int64) ([]*domain.Product, error) {
	args := m.Called(ctx, seasonID)
	products, _ := args.Get(0).([]*domain.Product)
	return products, args.Error(1)
}

func (m *mockCatalogService) ProductProgress(ctx context.Context, id int64, date string) (domain.Progress, error) {
	args := m.Called(ctx, id, date)
	return args.Get(0).(domain.Progress), args.Error(1)
}

type mockEnrollmentService struct{ mock.Mock }

func (m *mockEnrollmentService) CreateParticipant(ctx context.Context, in service.ParticipantInput) (*domain.Participant, error) {
	args := m.Called(ctx, in)
	participant, _ := args.Get(0).(*domain.Participant)
	return participant, args.Error(1)
}

func (m *mockEnrollmentService) GetParticipant(ctx context.Context, id int64) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	participant, _ := args.Get(0).(*domain.Participant)
	return participant, args.Error(1)
}

func (m *mockEnrollmentService) Register(ctx context.Context, in service.RegistrationInput) (*domain.Registration, error) {
	args := m.Called(ctx, in)
	reg, _ := args.Get(0).(*domain.Registration)
	return reg, args.Error(1)
}

func (m *mockEnrollmentService) GetRegistration(ctx context.Context, id int64) (*domain.Registration, error) {
	args := m.Called(ctx, id)
	reg, _ := args.Get(0).(*domain.Registration)
	return reg, args.Error(1)
}

func (m *mockEnrollmentService) UpdateRegistration(ctx context.Context, id int64, update domain.RegistrationUpdate) (*domain.Registration, error) {
	args := m.Called(ctx, id, update)
	reg, _ := args.Get(0).(*domain.Registration)
	return reg, args.Error(1)
}

func (m *mockEnrollmentService) RegistrationStatus(ctx context.Context, id int64) (domain.PaymentStatusDetails, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.PaymentStatusDetails), args.Error(1)
}

type mockPaymentService struct{ mock.Mock }

func (m *mockPaymentService) RecordPayment(ctx context.Context, in service.PaymentInput) (*domain.Payment, error) {
	args := m.Called(ctx, in)
	payment, _ := args.Get(0).(*domain.Payment)
	return payment, args.Error(1)
}

func (m *mockPaymentService) ListPayments(ctx context.Context, registrationID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, registrationID)
	payments, _ := args.Get(0).([]domain.Payment)
	return payments, args.Error(1)
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) ProductSummary(ctx context.Context, productID int64) (domain.Summary, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.Summary), args.Error(1)
}

func (m *mockReportService) SeasonSummary(ctx context.Context, seasonID int64) (domain.Summary, error) {
	args := m.Called(ctx, seasonID)
	return args.Get(0).(domain.Summary), args.Error(1)
}

func (m *mockReportService) DaySummary(ctx context.Context, date string) (domain.Summary, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(domain.Summary), args.Error(1)
}

func (m *mockReportService) ExportSeason(ctx context.Context, seasonID int64, date string) (*service.SeasonExport, error) {
	args := m.Called(ctx, seasonID, date)
	result, _ := args.Get(0).(*service.SeasonExport)
	return result, args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
