package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/agendlyapp/booking-platform/internal/config"
	"github.com/agendlyapp/booking-platform/internal/logger"
)

// New connects the shared Redis client. Returns nil when no address is
// configured; callers treat a nil client as "Redis not deployed".
func New(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.L().Fatal("failed to connect to Redis", zap.Error(err))
	}

	return client
}
