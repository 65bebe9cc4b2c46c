package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptavision/comptavision-api/internal/infrastructure/redis"
)

func TestLoginFailKey_Normaliza(t *testing.T) {
	assert.Equal(t, "auth:login:fail:owner@demo.cm", redis.LoginFailKey("  Owner@Demo.CM "))
}

// newTestRedis usa REDIS_TEST_ADDR; sin esa variable el test se omite.
func newTestRedis(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR no definido")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestLoginLimiter_BloqueaYReinicia(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	email := "limiter-" + time.Now().Format("150405.000") + "@demo.cm"
	l := redis.NewLoginLimiter(rdb, 2, time.Minute)
	t.Cleanup(func() { _ = l.Reset(ctx, email) })

	ok, err := l.Allowed(ctx, email)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.RecordFailure(ctx, email))
	require.NoError(t, l.RecordFailure(ctx, email))

	ok, err = l.Allowed(ctx, email)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := rdb.TTL(ctx, redis.LoginFailKey(email)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, l.Reset(ctx, email))
	ok, err = l.Allowed(ctx, email)
	require.NoError(t, err)
	assert.True(t, ok)
}
