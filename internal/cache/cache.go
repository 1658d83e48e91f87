// Package cache реализует кэш сводок поверх Redis.
// Без настроенного адреса используется Noop, и сервис работает без кэша.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache хранит JSON-представления значений с ограниченным временем жизни
type Cache interface {
	// Get читает значение в dest; false означает промах
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Incr увеличивает целочисленный счетчик и возвращает новое значение
	Incr(ctx context.Context, key string) (int64, error)
}

// Options параметры подключения к Redis
type Options struct {
	Addr     string
	Password string
	DB       int
}

// ProductSummaryVersionKey ключ счетчика версий сводки курса.
// Изменение данных курса увеличивает версию вместо удаления сводки, поэтому сводка,
// посчитанная до изменения, записывается под старой версией и больше не читается.
func ProductSummaryVersionKey(productID int64) string {
	return "billing:summary:product:" + strconv.FormatInt(productID, 10) + ":version"
}

// ProductSummaryKey ключ сводки по курсу для версии version
func ProductSummaryKey(productID, version int64) string {
	return "billing:summary:product:" + strconv.FormatInt(productID, 10) + ":v" + strconv.FormatInt(version, 10)
}

// Connect подключается к Redis. Пустой адрес или недоступный сервер дают Noop.
// Возвращаемую функцию закрытия нужно вызвать при остановке.
func Connect(ctx context.Context, opts Options, logger *zap.Logger) (Cache, func() error) {
	if opts.Addr == "" {
		logger.Warn("REDIS_ADDR is not set, summary cache disabled")
		return Noop{}, func() error { return nil }
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis, summary cache disabled",
			zap.String("addr", opts.Addr), zap.Error(err))
		_ = client.Close()
		return Noop{}, func() error { return nil }
	}

	logger.Info("connected to redis", zap.String("addr", opts.Addr))
	return NewRedisCache(client), client.Close
}

// RedisCache реализация Cache на go-redis
type RedisCache struct {
	client redis.Cmdable
}

// NewRedisCache создает кэш поверх клиента Redis
func NewRedisCache(client redis.Cmdable) *RedisCache {
	return &RedisCache{client: client}
}

// Get читает значение по ключу
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache: failed to get %q: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache: failed to decode %q: %w", key, err)
	}

	return true, nil
}

// Set сохраняет значение
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: failed to encode %q: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to set %q: %w", key, err)
	}

	return nil
}

// Incr увеличивает счетчик; отсутствующий ключ считается нулем
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache: failed to incr %q: %w", key, err)
	}
	return n, nil
}

// Noop кэш, который ничего не хранит
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }

func (Noop) Incr(context.Context, string) (int64, error) { return 0, nil }
