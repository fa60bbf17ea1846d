package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dclair/task-master/internal/dto"
)

// ProgressCache caches per-board completion summaries. Every task and list
// mutation invalidates the board's entry, so a cached value is at most one
// TTL stale and never survives a write.
type ProgressCache interface {
	Get(ctx context.Context, boardID uuid.UUID) (*dto.BoardProgressResponse, bool)
	Set(ctx context.Context, boardID uuid.UUID, progress *dto.BoardProgressResponse)
	Invalidate(ctx context.Context, boardID uuid.UUID)
}

func progressKey(boardID uuid.UUID) string {
	return fmt.Sprintf("board:progress:%s", boardID)
}

// redisProgressCache is the Redis-backed ProgressCache
type redisProgressCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisProgressCache creates a Redis-backed progress cache
func NewRedisProgressCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ProgressCache {
	return &redisProgressCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *redisProgressCache) Get(ctx context.Context, boardID uuid.UUID) (*dto.BoardProgressResponse, bool) {
	data, err := c.client.Get(ctx, progressKey(boardID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Progress cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var progress dto.BoardProgressResponse
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, false
	}
	return &progress, true
}

func (c *redisProgressCache) Set(ctx context.Context, boardID uuid.UUID, progress *dto.BoardProgressResponse) {
	data, err := json.Marshal(progress)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, progressKey(boardID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Progress cache write failed", zap.Error(err))
	}
}

func (c *redisProgressCache) Invalidate(ctx context.Context, boardID uuid.UUID) {
	if err := c.client.Del(ctx, progressKey(boardID)).Err(); err != nil {
		c.logger.Warn("Progress cache invalidation failed", zap.Error(err))
	}
}

// noopProgressCache is used when Redis is not configured
type noopProgressCache struct{}

// NewNoopProgressCache creates a cache that stores nothing
func NewNoopProgressCache() ProgressCache {
	return noopProgressCache{}
}

func (noopProgressCache) Get(context.Context, uuid.UUID) (*dto.BoardProgressResponse, bool) {
	return nil, false
}
func (noopProgressCache) Set(context.Context, uuid.UUID, *dto.BoardProgressResponse) {}
func (noopProgressCache) Invalidate(context.Context, uuid.UUID)                      {}
