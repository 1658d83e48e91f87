package app

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swimschool/billing/internal/config"
	"github.com/swimschool/billing/internal/repository/postgres"
	"go.uber.org/zap"
)

// initDatabase создает пул соединений с базой данных и выполняет миграции.
// Подключение и ping повторяются, пока база поднимается вместе с сервисом.
func initDatabase(ctx context.Context, databaseURI string, opts config.DBConnectConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	var dbPool *pgxpool.Pool

	err := retry.Do(
		func() error {
			pool, err := pgxpool.New(ctx, databaseURI)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			if err := pool.Ping(ctx); err != nil {
				pool.Close()
				return fmt.Errorf("failed to ping database: %w", err)
			}
			dbPool = pool
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(opts.Attempts),
		retry.Delay(opts.Delay),
		retry.MaxDelay(opts.MaxDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("database is not ready, retrying",
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")

	if err := postgres.RunMigrations(ctx, dbPool, logger); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("migrations completed successfully")

	return dbPool, nil
}
