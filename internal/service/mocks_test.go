package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/swimschool/billing/internal/domain"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) CreateUser(ctx context.Context, login, passwordHash string, role domain.StaffRole, reportAccess bool) (*domain.StaffUser, error) {
	args := m.Called(ctx, login, passwordHash, role, reportAccess)
	user, _ := args.Get(0).(*domain.StaffUser)
	return user, args.Error(1)
}

func (m *userRepoMock) GetUserByLogin(ctx context.Context, login string) (*domain.StaffUser, error) {
	args := m.Called(ctx, login)
	user, _ := args.Get(0).(*domain.StaffUser)
	return user, args.Error(1)
}

type hasherMock struct{ mock.Mock }

func (m *hasherMock) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *hasherMock) Check(hash, password string) error {
	return m.Called(hash, password).Error(0)
}

type seasonRepoMock struct{ mock.Mock }

func (m *seasonRepoMock) CreateSeason(ctx context.Context, season *domain.Season) error {
	return m.Called(ctx, season).Error(0)
}

func (m *seasonRepoMock) GetSeason(ctx context.Context, id int64) (*domain.Season, error) {
	args := m.Called(ctx, id)
	season, _ := args.Get(0).(*domain.Season)
	return season, args.Error(1)
}

func (m *seasonRepoMock) ListSeasons(ctx context.Context) ([]*domain.Season, error) {
	args := m.Called(ctx)
	seasons, _ := args.Get(0).([]*domain.Season)
	return seasons, args.Error(1)
}

func (m *seasonRepoMock) CreatePool(ctx context.Context, pool *domain.Pool) error {
	return m.Called(ctx, pool).Error(0)
}

func (m *seasonRepoMock) ListPools(ctx context.Context, seasonID int64) ([]*domain.Pool, error) {
	args := m.Called(ctx, seasonID)
	pools, _ := args.Get(0).([]*domain.Pool)
	return pools, args.Error(1)
}

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) CreateProduct(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *productRepoMock) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*domain.Product)
	return product, args.Error(1)
}

func (m *productRepoMock) ListProductsBySeason(ctx context.Context, seasonID int64) ([]*domain.Product, error) {
	args := m.Called(ctx, seasonID)
	products, _ := args.Get(0).([]*domain.Product)
	return products, args.Error(1)
}

func (m *productRepoMock) ListProductsActiveOn(ctx context.Context, day time.Time) ([]*domain.Product, error) {
	args := m.Called(ctx, day)
	products, _ := args.Get(0).([]*domain.Product)
	return products, args.Error(1)
}

type participantRepoMock struct{ mock.Mock }

func (m *participantRepoMock) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	return m.Called(ctx, p).Error(0)
}

func (m *participantRepoMock) GetParticipant(ctx context.Context, id int64) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Participant)
	return p, args.Error(1)
}

func (m *participantRepoMock) GetParticipantsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Participant, error) {
	args := m.Called(ctx, ids)
	participants, _ := args.Get(0).(map[int64]domain.Participant)
	return participants, args.Error(1)
}

type registrationRepoMock struct{ mock.Mock }

func (m *registrationRepoMock) CreateRegistration(ctx context.Context, reg *domain.Registration, capacity int) error {
	return m.Called(ctx, reg, capacity).Error(0)
}

func (m *registrationRepoMock) GetRegistration(ctx context.Context, id int64) (*domain.Registration, error) {
	args := m.Called(ctx, id)
	reg, _ := args.Get(0).(*domain.Registration)
	return reg, args.Error(1)
}

func (m *registrationRepoMock) UpdateRegistration(ctx context.Context, id int64, update domain.RegistrationUpdate) (*domain.Registration, error) {
	args := m.Called(ctx, id, update)
	reg, _ := args.Get(0).(*domain.Registration)
	return reg, args.Error(1)
}

func (m *registrationRepoMock) ListRegistrationsByProduct(ctx context.Context, productID int64) ([]domain.Registration, error) {
	args := m.Called(ctx, productID)
	regs, _ := args.Get(0).([]domain.Registration)
	return regs, args.Error(1)
}

func (m *registrationRepoMock) ListRegistrationsByProducts(ctx context.Context, productIDs []int64) ([]domain.Registration, error) {
	args := m.Called(ctx, productIDs)
	regs, _ := args.Get(0).([]domain.Registration)
	return regs, args.Error(1)
}

func (m *registrationRepoMock) ListRegistrationsBySeason(ctx context.Context, seasonID int64) ([]domain.Registration, error) {
	args := m.Called(ctx, seasonID)
	regs, _ := args.Get(0).([]domain.Registration)
	return regs, args.Error(1)
}

type paymentRepoMock struct{ mock.Mock }

func (m *paymentRepoMock) CreatePayment(ctx context.Context, p *domain.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *paymentRepoMock) ListPaymentsByRegistration(ctx context.Context, registrationID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, registrationID)
	payments, _ := args.Get(0).([]domain.Payment)
	return payments, args.Error(1)
}

func (m *paymentRepoMock) ListPaymentsByRegistrations(ctx context.Context, registrationIDs []int64) (map[int64][]domain.Payment, error) {
	args := m.Called(ctx, registrationIDs)
	payments, _ := args.Get(0).(map[int64][]domain.Payment)
	return payments, args.Error(1)
}

// memoryCache хранит JSON значения в памяти и позволяет подменить ошибки
type memoryCache struct {
	data        map[string][]byte
	getErr      error
	setErr      error
	incremented []string
	setCalls    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	var n int64
	if raw, ok := c.data[key]; ok {
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, err
		}
	}
	n++
	c.data[key], _ = json.Marshal(n)
	c.incremented = append(c.incremented, key)
	return n, nil
}
