package database

import (
	"context"
	"time"

	"github.com/pushp314/devconnect-chat/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Redis is nil when REDIS_ADDR is not configured.
var Redis *redis.Client

func InitRedis(addr, password string) {
	if addr == "" {
		logger.Info().Msg("REDIS_ADDR not set, event relay disabled")
		return
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := Redis.Ping(ctx).Result(); err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis, cross-instance events will fall back to local delivery")
		return
	}
	logger.Info().Str("addr", addr).Msg("Connected to Redis successfully")
}

// RedisStatus is used by the health check.
func RedisStatus(ctx context.Context) string {
	if Redis == nil {
		return "not configured"
	}
	if err := Redis.Ping(ctx).Err(); err != nil {
		return "error"
	}
	return "ok"
}
