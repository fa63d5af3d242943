// Package cache memoizes permission checks in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskboard-pm/apiserver/config"
	"github.com/taskboard-pm/apiserver/internal/logger"
)

const (
	epochKey  = "taskboard:perm:epoch"
	keyPrefix = "taskboard:perm:"
)

// PermissionChecker answers whether a user holds a named permission.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, name string) (bool, error)
}

// Permissions caches the answers of a PermissionChecker. Every cached answer
// is keyed by the current epoch; Invalidate bumps the epoch so older answers
// are never read again and expire on their own.
type Permissions struct {
	client *redis.Client
	next   PermissionChecker
	ttl    time.Duration
}

// NewRedisClient connects to Redis and pings it.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func NewPermissions(client *redis.Client, next PermissionChecker, ttl time.Duration) *Permissions {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Permissions{client: client, next: next, ttl: ttl}
}

// HasPermission serves from Redis when possible. Redis failures fall through
// to the wrapped checker.
func (p *Permissions) HasPermission(ctx context.Context, userID, name string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("user_id", userID), zap.String("permission", name))

	epoch, err := p.epoch(ctx)
	if err != nil {
		log.Warn(ctx, "permission cache unavailable", zap.Error(err))
		return p.next.HasPermission(ctx, userID, name)
	}

	key := fmt.Sprintf("%s%d:%s:%s", keyPrefix, epoch, userID, name)
	cached, err := p.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached == "1", nil
	case !errors.Is(err, redis.Nil):
		log.Warn(ctx, "failed to read permission cache", zap.Error(err))
	}

	ok, err := p.next.HasPermission(ctx, userID, name)
	if err != nil {
		return false, err
	}

	value := "0"
	if ok {
		value = "1"
	}
	if err := p.client.Set(ctx, key, value, p.ttl).Err(); err != nil {
		log.Warn(ctx, "failed to write permission cache", zap.Error(err))
	}
	return ok, nil
}

// Invalidate drops every cached answer.
func (p *Permissions) Invalidate(ctx context.Context) error {
	if err := p.client.Incr(ctx, epochKey).Err(); err != nil {
		return fmt.Errorf("bump permission epoch: %w", err)
	}
	return nil
}

func (p *Permissions) epoch(ctx context.Context) (int64, error) {
	epoch, err := p.client.Get(ctx, epochKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return epoch, err
}
