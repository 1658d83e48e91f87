package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swimschool/billing/internal/config"
	"github.com/swimschool/billing/internal/metrics"
	"github.com/swimschool/billing/internal/worker"
	"go.uber.org/zap"
)

// App представляет приложение
type App struct {
	config     *config.Config
	logger     *zap.Logger
	db         *pgxpool.Pool
	workerPool *worker.Pool
	server     *http.Server
	closeCache func() error
}

// NewApp создает новое приложение
func NewApp() (*App, error) {
	ctx := context.Background()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализация логгера
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Инициализация базы данных и миграции
	dbPool, err := initDatabase(ctx, cfg.DatabaseURI, cfg.DBConnect, logger)
	if err != nil {
		return nil, err
	}

	if cfg.MetricsEnabled {
		metrics.Register()
	}

	// Инициализация зависимостей
	deps := initDependencies(ctx, cfg, dbPool, logger)

	if cfg.Admin.Login != "" {
		created, err := deps.services.auth.EnsureAdmin(ctx, cfg.Admin.Login, cfg.Admin.Password)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to ensure admin account: %w", err)
		}
		if created {
			logger.Info("admin account created", zap.String("login", cfg.Admin.Login))
		}
	}

	// Настройка роутера
	router := setupRouter(deps.handlers, deps.repos.user, deps.jwtManager, cfg.MetricsEnabled, logger)

	// Создание HTTP сервера
	server := createServer(cfg.RunAddress, router)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         dbPool,
		workerPool: deps.workerPool,
		server:     server,
		closeCache: deps.closeCache,
	}, nil
}

// Run запускает приложение
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск фонового заполнения дат окончания курсов
	a.workerPool.Start(ctx)
	a.logger.Info("worker pool started")

	// Запуск HTTP сервера и ожидание сигнала завершения
	serverErr := a.runServer(ctx)

	// Graceful shutdown
	a.shutdown(cancel)

	if serverErr != nil {
		return fmt.Errorf("server failed: %w", serverErr)
	}
	return nil
}
