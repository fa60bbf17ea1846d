package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewRedis connects to the redis instance behind the given URL
// (redis://[:password@]host:port/db). Returns nil without error when no URL
// is configured: the progress cache degrades to plain database counts.
func NewRedis(url string, logger *zap.Logger) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	logger.Info("Redis connection established", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return client, nil
}
