// Package redis wires the shared Redis connection used for admin
// sessions, receipt summaries and the email job queue.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/semzi/sledge/config"
)

// Client is the process-wide Redis handle. The session store, summary
// cache and job queue each take the embedded *redis.Client and scope
// themselves with their own key prefixes.
type Client struct {
	*redis.Client
}

// Connect opens a Redis connection from config and verifies it responds
// before the server starts taking traffic.
func Connect(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	logger.Info("redis ready", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return &Client{Client: rdb}, nil
}
