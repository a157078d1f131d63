package app

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-crm/internal/config"
	"github.com/noah-isme/backend-crm/internal/ratelimit"
)

func TestMigrateDatabaseURL(t *testing.T) {
	require.Equal(t, "pgx5://crm:crm@db:5432/crm?sslmode=disable", migrateDatabaseURL("postgres://crm:crm@db:5432/crm?sslmode=disable"))
	require.Equal(t, "pgx5://db/crm", migrateDatabaseURL("postgresql://db/crm"))
	require.Equal(t, "pgx5://db/crm", migrateDatabaseURL("pgx5://db/crm"))
}

func TestNewAllowerSelectsBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{RateLimit: config.RateLimitConfig{Backend: "fixed"}}
	allower, err := NewAllower(cfg, client)
	require.NoError(t, err)
	require.IsType(t, ratelimit.FixedWindow{}, allower)

	cfg.RateLimit.Backend = "sliding"
	allower, err = NewAllower(cfg, client)
	require.NoError(t, err)
	require.IsType(t, ratelimit.SlidingRedis{}, allower)

	cfg.RateLimit.Backend = "leaky"
	_, err = NewAllower(cfg, client)
	require.Error(t, err)
}

func TestAsynqRedis(t *testing.T) {
	opt, err := AsynqRedis(&config.Config{RedisURL: "redis://localhost:6379/2"})
	require.NoError(t, err)
	require.NotNil(t, opt)
}
