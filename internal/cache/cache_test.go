package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRedis хранит значения в памяти; остальные команды Cmdable не используются
type fakeRedis struct {
	redis.Cmdable
	data   map[string]string
	ttl    map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	switch v, ok := f.data[key]; {
	case f.getErr != nil:
		cmd.SetErr(f.getErr)
	case ok:
		cmd.SetVal(v)
	default:
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	f.data[key] = string(value.([]byte))
	f.ttl[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "incr", key)
	n, _ := strconv.ParseInt(f.data[key], 10, 64)
	n++
	f.data[key] = strconv.FormatInt(n, 10)
	cmd.SetVal(n)
	return cmd
}

type cachedValue struct {
	Count int    `json:"count"`
	Total string `json:"total"`
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := NewRedisCache(fake)
	key := ProductSummaryKey(15, 0)

	t.Run("Miss", func(t *testing.T) {
		var v cachedValue
		found, err := c.Get(ctx, key, &v)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Set then get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, key, cachedValue{Count: 3, Total: "1400"}, time.Minute))
		assert.Equal(t, time.Minute, fake.ttl[key])

		var v cachedValue
		found, err := c.Get(ctx, key, &v)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, cachedValue{Count: 3, Total: "1400"}, v)
	})

	t.Run("Version counter", func(t *testing.T) {
		versionKey := ProductSummaryVersionKey(15)

		var version int64
		found, err := c.Get(ctx, versionKey, &version)
		require.NoError(t, err)
		assert.False(t, found)

		n, err := c.Incr(ctx, versionKey)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		n, err = c.Incr(ctx, versionKey)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		found, err = c.Get(ctx, versionKey, &version)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(2), version)
	})

	t.Run("Corrupted value", func(t *testing.T) {
		fake.data[key] = "{not json"

		var v cachedValue
		found, err := c.Get(ctx, key, &v)
		assert.Error(t, err)
		assert.False(t, found)
	})

	t.Run("Redis error", func(t *testing.T) {
		fake.getErr = errors.New("connection reset")
		defer func() { fake.getErr = nil }()

		var v cachedValue
		found, err := c.Get(ctx, key, &v)
		assert.ErrorContains(t, err, "connection reset")
		assert.False(t, found)
	})
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Noop{}

	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	found, err := c.Get(ctx, "k", new(int))
	require.NoError(t, err)
	assert.False(t, found)
	n, err := c.Incr(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConnect(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Empty address disables cache", func(t *testing.T) {
		c, closeFn := Connect(context.Background(), Options{}, logger)
		assert.IsType(t, Noop{}, c)
		assert.NoError(t, closeFn())
	})

	t.Run("Unreachable server disables cache", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		c, closeFn := Connect(ctx, Options{Addr: "127.0.0.1:1"}, logger)
		assert.IsType(t, Noop{}, c)
		assert.NoError(t, closeFn())
	})
}

func TestProductSummaryKey(t *testing.T) {
	assert.Equal(t, "billing:summary:product:42:v3", ProductSummaryKey(42, 3))
	assert.Equal(t, "billing:summary:product:42:version", ProductSummaryVersionKey(42))
}
