package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swimschool/billing/internal/billing"
	"github.com/swimschool/billing/internal/cache"
	"github.com/swimschool/billing/internal/config"
	"github.com/swimschool/billing/internal/handlers"
	"github.com/swimschool/billing/internal/repository/postgres"
	"github.com/swimschool/billing/internal/service"
	"github.com/swimschool/billing/internal/utils/jwt"
	"github.com/swimschool/billing/internal/utils/password"
	"github.com/swimschool/billing/internal/worker"
	"go.uber.org/zap"
)

// repositories содержит все репозитории приложения
type repositories struct {
	user         *postgres.UserRepository
	season       *postgres.SeasonRepository
	product      *postgres.ProductRepository
	participant  *postgres.ParticipantRepository
	registration *postgres.RegistrationRepository
	payment      *postgres.PaymentRepository
}

// services содержит все сервисы приложения
type services struct {
	auth       *service.AuthService
	catalog    *service.CatalogService
	enrollment *service.EnrollmentService
	payment    *service.PaymentService
	report     *service.ReportService
}

// handlerSet содержит все хендлеры приложения
type handlerSet struct {
	auth       *handlers.AuthHandler
	catalog    *handlers.CatalogHandler
	enrollment *handlers.EnrollmentHandler
	payment    *handlers.PaymentHandler
	report     *handlers.ReportHandler
	health     *handlers.HealthHandler
}

// dependencies содержит все зависимости приложения
type dependencies struct {
	repos      *repositories
	services   *services
	handlers   *handlerSet
	jwtManager *jwt.Manager
	workerPool *worker.Pool
	closeCache func() error
}

// initDependencies создает все зависимости приложения
func initDependencies(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) *dependencies {
	// Создание репозиториев
	repos := &repositories{
		user:         postgres.NewUserRepository(dbPool),
		season:       postgres.NewSeasonRepository(dbPool),
		product:      postgres.NewProductRepository(dbPool),
		participant:  postgres.NewParticipantRepository(dbPool),
		registration: postgres.NewRegistrationRepository(dbPool),
		payment:      postgres.NewPaymentRepository(dbPool),
	}

	// Создание утилит
	passwordHasher := password.NewBCryptHasher(password.DefaultCost)
	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.JWTTokenTTL)
	calc := billing.NewCalculator(cfg.Billing.DefaultMeetingsTotal, cfg.Billing.EmptyScheduleCurrent)

	// Кэш сводок; без Redis работает no-op
	summaryCache, closeCache := cache.Connect(ctx, cache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)

	// Создание сервисов
	svcs := &services{
		auth:    service.NewAuthService(repos.user, passwordHasher, jwtManager, cfg.MinPasswordLength),
		catalog: service.NewCatalogService(repos.season, repos.product, calc),
		enrollment: service.NewEnrollmentService(
			repos.participant, repos.product, repos.registration, repos.payment, summaryCache, logger,
		),
		payment: service.NewPaymentService(repos.registration, repos.payment, summaryCache, logger),
		report: service.NewReportService(
			repos.season, repos.product, repos.participant, repos.registration, repos.payment,
			calc, billing.ProgressTemplate(cfg.Billing.ProgressTemplate),
			summaryCache, cfg.Redis.SummaryCacheTTL, logger,
		),
	}

	// Создание handlers
	hdlrs := &handlerSet{
		auth:       handlers.NewAuthHandler(svcs.auth, logger),
		catalog:    handlers.NewCatalogHandler(svcs.catalog, logger),
		enrollment: handlers.NewEnrollmentHandler(svcs.enrollment, logger),
		payment:    handlers.NewPaymentHandler(svcs.payment, logger),
		report:     handlers.NewReportHandler(svcs.report, logger),
		health:     handlers.NewHealthHandler(dbPool, logger),
	}

	// Создание worker pool
	workerPool := worker.NewPool(worker.Config{
		Workers:      cfg.Worker.PoolSize,
		QueueSize:    cfg.Worker.QueueSize,
		ScanInterval: cfg.Worker.ScanInterval,
		BatchSize:    cfg.Worker.BatchSize,
	}, repos.product, logger)

	return &dependencies{
		repos:      repos,
		services:   svcs,
		handlers:   hdlrs,
		jwtManager: jwtManager,
		workerPool: workerPool,
		closeCache: closeCache,
	}
}
