package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swimschool/billing/internal/billing"
	"github.com/swimschool/billing/internal/cache"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/metrics"
	"go.uber.org/zap"
)

// SeasonExport результат выгрузки сезона
type SeasonExport struct {
	Season     *domain.Season
	Projection domain.Projection
}

// ReportService строит сводки и выгрузки по снимку данных из хранилища
type ReportService struct {
	seasonRepo       SeasonRepository
	productRepo      ProductRepository
	participantRepo  ParticipantRepository
	registrationRepo RegistrationRepository
	paymentRepo      PaymentRepository
	calc             *billing.Calculator
	projector        *billing.Projector
	cache            cache.Cache
	cacheTTL         time.Duration
	logger           *zap.Logger
	now              func() time.Time
}

// NewReportService создает новый ReportService
func NewReportService(
	seasonRepo SeasonRepository,
	productRepo ProductRepository,
	participantRepo ParticipantRepository,
	registrationRepo RegistrationRepository,
	paymentRepo PaymentRepository,
	calc *billing.Calculator,
	template billing.ProgressTemplate,
	summaryCache cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		seasonRepo:       seasonRepo,
		productRepo:      productRepo,
		participantRepo:  participantRepo,
		registrationRepo: registrationRepo,
		paymentRepo:      paymentRepo,
		calc:             calc,
		projector:        billing.NewProjector(calc, template),
		cache:            summaryCache,
		cacheTTL:         cacheTTL,
		logger:           logger,
		now:              time.Now,
	}
}

// ProductSummary возвращает сводку по курсу с заполненностью; результат кэшируется
func (s *ReportService) ProductSummary(ctx context.Context, productID int64) (domain.Summary, error) {
	// Сводка хранится под текущей версией курса. Если версию прочитать не удалось,
	// кэш пропускается целиком, чтобы не записать сводку под устаревшей версией.
	cacheable := true
	var version int64
	if _, err := s.cache.Get(ctx, cache.ProductSummaryVersionKey(productID), &version); err != nil {
		cacheable = false
		metrics.SummaryCache.WithLabelValues("error").Inc()
		s.logger.Warn("failed to read summary version", zap.Int64("product_id", productID), zap.Error(err))
	}
	key := cache.ProductSummaryKey(productID, version)

	if cacheable {
		var cached domain.Summary
		found, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			cacheable = false
			metrics.SummaryCache.WithLabelValues("error").Inc()
			s.logger.Warn("failed to read cached summary", zap.String("key", key), zap.Error(err))
		case found:
			metrics.SummaryCache.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.SummaryCache.WithLabelValues("miss").Inc()
		}
	}

	product, err := s.productRepo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.Summary{}, err
		}
		return domain.Summary{}, fmt.Errorf("report service: failed to get product %d: %w", productID, err)
	}

	regs, err := s.registrationRepo.ListRegistrationsByProduct(ctx, productID)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("report service: failed to list registrations for product %d: %w", productID, err)
	}

	summary, err := s.summarize(ctx, regs, product.MaxParticipants)
	if err != nil {
		return domain.Summary{}, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache summary", zap.String("key", key), zap.Error(err))
		}
	}

	return summary, nil
}

// SeasonSummary возвращает сводку по всем курсам сезона
func (s *ReportService) SeasonSummary(ctx context.Context, seasonID int64) (domain.Summary, error) {
	if _, err := s.getSeason(ctx, seasonID); err != nil {
		return domain.Summary{}, err
	}

	regs, err := s.registrationRepo.ListRegistrationsBySeason(ctx, seasonID)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("report service: failed to list registrations for season %d: %w", seasonID, err)
	}

	return s.summarize(ctx, regs, 0)
}

// DaySummary возвращает сводку по курсам, у которых в этот день есть встреча
func (s *ReportService) DaySummary(ctx context.Context, date string) (domain.Summary, error) {
	day, err := billing.ParseDate(date)
	if err != nil {
		return domain.Summary{}, err
	}

	products, err := s.productRepo.ListProductsActiveOn(ctx, day)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("report service: failed to list products active on %s: %w", date, err)
	}

	ids := make([]int64, 0, len(products))
	for _, product := range products {
		meets, err := s.calc.MeetsOn(*product, day)
		if err != nil {
			return domain.Summary{}, fmt.Errorf("report service: product %d: %w", product.ID, err)
		}
		if meets {
			ids = append(ids, product.ID)
		}
	}

	regs, err := s.registrationRepo.ListRegistrationsByProducts(ctx, ids)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("report service: failed to list registrations for %s: %w", date, err)
	}

	return s.summarize(ctx, regs, 0)
}

// ExportSeason строит строки выгрузки сезона на дату; пустая дата означает сегодня.
// Регистрации с потерянными связями пропускаются и попадают в лог.
func (s *ReportService) ExportSeason(ctx context.Context, seasonID int64, date string) (*SeasonExport, error) {
	ref, err := dateOrToday(date, s.now)
	if err != nil {
		return nil, err
	}

	season, err := s.getSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	snap, err := s.loadSeasonSnapshot(ctx, season)
	if err != nil {
		return nil, err
	}

	projection, err := s.projector.Project(snap, ref)
	if err != nil {
		return nil, fmt.Errorf("report service: failed to project season %d: %w", seasonID, err)
	}

	if projection.Skipped > 0 {
		metrics.ExportRowsSkipped.Add(float64(projection.Skipped))
		for _, anomaly := range projection.Anomalies {
			s.logger.Warn("registration skipped in export",
				zap.Int64("season_id", seasonID),
				zap.Int64("registration_id", anomaly.RegistrationID),
				zap.String("missing", string(anomaly.Kind)),
				zap.Int64("missing_id", anomaly.ID),
			)
		}
	}

	return &SeasonExport{Season: season, Projection: projection}, nil
}

// loadSeasonSnapshot загружает все сущности сезона пакетными запросами
func (s *ReportService) loadSeasonSnapshot(ctx context.Context, season *domain.Season) (billing.Snapshot, error) {
	regs, err := s.registrationRepo.ListRegistrationsBySeason(ctx, season.ID)
	if err != nil {
		return billing.Snapshot{}, fmt.Errorf("report service: failed to list registrations for season %d: %w", season.ID, err)
	}

	products, err := s.productRepo.ListProductsBySeason(ctx, season.ID)
	if err != nil {
		return billing.Snapshot{}, fmt.Errorf("report service: failed to list products for season %d: %w", season.ID, err)
	}

	participantIDs := make([]int64, 0, len(regs))
	seen := make(map[int64]struct{}, len(regs))
	for _, reg := range regs {
		if _, ok := seen[reg.ParticipantID]; ok {
			continue
		}
		seen[reg.ParticipantID] = struct{}{}
		participantIDs = append(participantIDs, reg.ParticipantID)
	}

	participants, err := s.participantRepo.GetParticipantsByIDs(ctx, participantIDs)
	if err != nil {
		return billing.Snapshot{}, fmt.Errorf("report service: failed to load participants for season %d: %w", season.ID, err)
	}

	payments, err := s.paymentRepo.ListPaymentsByRegistrations(ctx, registrationIDs(regs))
	if err != nil {
		return billing.Snapshot{}, fmt.Errorf("report service: failed to load payments for season %d: %w", season.ID, err)
	}

	productsByID := make(map[int64]domain.Product, len(products))
	for _, product := range products {
		productsByID[product.ID] = *product
	}

	return billing.Snapshot{
		Registrations: regs,
		Participants:  participants,
		Products:      productsByID,
		Seasons:       map[int64]domain.Season{season.ID: *season},
		Payments:      payments,
	}, nil
}

func (s *ReportService) summarize(ctx context.Context, regs []domain.Registration, capacity int) (domain.Summary, error) {
	payments, err := s.paymentRepo.ListPaymentsByRegistrations(ctx, registrationIDs(regs))
	if err != nil {
		return domain.Summary{}, fmt.Errorf("report service: failed to load payments: %w", err)
	}
	return billing.Summarize(regs, payments, capacity)
}

func (s *ReportService) getSeason(ctx context.Context, id int64) (*domain.Season, error) {
	season, err := s.seasonRepo.GetSeason(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSeasonNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("report service: failed to get season %d: %w", id, err)
	}
	return season, nil
}

func registrationIDs(regs []domain.Registration) []int64 {
	ids := make([]int64, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.ID)
	}
	return ids
}
