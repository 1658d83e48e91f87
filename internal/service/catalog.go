package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/swimschool/billing/internal/billing"
	"github.com/swimschool/billing/internal/domain"
)

// SeasonInput данные нового сезона; даты в формате YYYY-MM-DD
type SeasonInput struct {
	Name      string
	StartDate string
	EndDate   string
}

// ProductInput данные нового курса
type ProductInput struct {
	SeasonID        int64
	PoolID          *int64
	Name            string
	StartDate       string
	DaysOfWeek      []string
	MeetingsCount   int
	Price           decimal.Decimal
	DiscountAmount  *decimal.Decimal
	MaxParticipants int
}

// CatalogService управляет сезонами, бассейнами и курсами
type CatalogService struct {
	seasonRepo  SeasonRepository
	productRepo ProductRepository
	calc        *billing.Calculator
	now         func() time.Time
}

// NewCatalogService создает новый CatalogService
func NewCatalogService(seasonRepo SeasonRepository, productRepo ProductRepository, calc *billing.Calculator) *CatalogService {
	return &CatalogService{
		seasonRepo:  seasonRepo,
		productRepo: productRepo,
		calc:        calc,
		now:         time.Now,
	}
}

// CreateSeason создает сезон
func (s *CatalogService) CreateSeason(ctx context.Context, in SeasonInput) (*domain.Season, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidInput("season name is required")
	}

	start, err := billing.ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := billing.ParseDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, domain.NewScheduleError("end date", in.EndDate, "is before start date")
	}

	season := &domain.Season{Name: name, StartDate: start, EndDate: end}
	if err := s.seasonRepo.CreateSeason(ctx, season); err != nil {
		return nil, fmt.Errorf("catalog service: failed to create season %q: %w", name, err)
	}

	return season, nil
}

// ListSeasons возвращает все сезоны
func (s *CatalogService) ListSeasons(ctx context.Context) ([]*domain.Season, error) {
	seasons, err := s.seasonRepo.ListSeasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog service: failed to list seasons: %w", err)
	}
	return seasons, nil
}

// CreatePool добавляет бассейн в сезон
func (s *CatalogService) CreatePool(ctx context.Context, seasonID int64, name string) (*domain.Pool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("pool name is required")
	}

	pool := &domain.Pool{SeasonID: seasonID, Name: name}
	if err := s.seasonRepo.CreatePool(ctx, pool); err != nil {
		if errors.Is(err, domain.ErrSeasonNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("catalog service: failed to create pool %q: %w", name, err)
	}

	return pool, nil
}

// ListPools возвращает бассейны сезона
func (s *CatalogService) ListPools(ctx context.Context, seasonID int64) ([]*domain.Pool, error) {
	pools, err := s.seasonRepo.ListPools(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("catalog service: failed to list pools for season %d: %w", seasonID, err)
	}
	return pools, nil
}

// CreateProduct создает курс и сохраняет вычисленную дату окончания
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidInput("product name is required")
	}
	if in.MaxParticipants <= 0 {
		return nil, invalidInput("max participants must be positive")
	}
	if in.Price.IsNegative() {
		return nil, &domain.InvalidAmountError{Field: "price", Value: in.Price.String()}
	}
	if in.DiscountAmount != nil && in.DiscountAmount.IsNegative() {
		return nil, &domain.InvalidAmountError{Field: "discount_amount", Value: in.DiscountAmount.String()}
	}
	if in.MeetingsCount < 0 {
		return nil, domain.NewScheduleError("meetings count", fmt.Sprint(in.MeetingsCount), "must not be negative")
	}

	start, err := billing.ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	days, err := billing.ParseWeekdays(in.DaysOfWeek)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		SeasonID:        in.SeasonID,
		PoolID:          in.PoolID,
		Name:            name,
		StartDate:       start,
		DaysOfWeek:      in.DaysOfWeek,
		MeetingsCount:   in.MeetingsCount,
		Price:           in.Price,
		DiscountAmount:  in.DiscountAmount,
		MaxParticipants: in.MaxParticipants,
	}

	// Без количества встреч дата окончания не определена
	if in.MeetingsCount > 0 {
		end, err := billing.ComputeEndDate(start, days, in.MeetingsCount)
		if err != nil {
			return nil, err
		}
		product.EndDate = &end
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, domain.ErrSeasonNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("catalog service: failed to create product %q: %w", name, err)
	}

	return product, nil
}

// GetProduct возвращает курс по ID
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("catalog service: failed to get product %d: %w", id, err)
	}
	return product, nil
}

// ListProducts возвращает курсы сезона
func (s *CatalogService) ListProducts(ctx context.Context, seasonID int64) ([]*domain.Product, error) {
	products, err := s.productRepo.ListProductsBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("catalog service: failed to list products for season %d: %w", seasonID, err)
	}
	return products, nil
}

// ProductProgress возвращает прогресс встреч курса на дату; пустая дата означает сегодня
func (s *CatalogService) ProductProgress(ctx context.Context, id int64, date string) (domain.Progress, error) {
	ref, err := dateOrToday(date, s.now)
	if err != nil {
		return domain.Progress{}, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return domain.Progress{}, err
	}

	return s.calc.ComputeProgress(*product, ref)
}
