package database

import (
	"context"
	"fmt"

	"github.com/ironcrest/proctor-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewRedisClient creates and validates a Redis client connection.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	configureRedis(opt)
	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Int("min_idle_conns", opt.MinIdleConns).
		Msg("Redis connected")

	return rdb, nil
}

// configureRedis names the client and keeps spare connections for the
// blocking violation pop and the monitor subscription, which each pin one.
// Login and cache calls honour their request deadline.
func configureRedis(opt *redis.Options) {
	opt.ClientName = applicationName
	opt.ContextTimeoutEnabled = true
	if opt.MinIdleConns < 2 {
		opt.MinIdleConns = 2
	}
}
