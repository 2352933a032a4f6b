package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionKey = "leaderboard:version"

// Redis caches pages under versioned keys. Invalidate bumps the version so
// every older page becomes unreachable and expires on its own TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func (r *Redis) version(ctx context.Context) (int64, error) {
	v, err := r.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func pageKey(version int64, limit, offset int) string {
	return fmt.Sprintf("leaderboard:v%d:%d:%d", version, limit, offset)
}

// GetPage returns a generation of -1 when the version key cannot be read;
// SetPage ignores such pages.
func (r *Redis) GetPage(ctx context.Context, limit, offset int) (*Page, int64, bool) {
	v, err := r.version(ctx)
	if err != nil {
		slog.Warn("leaderboard cache version read failed", "error", err)
		return nil, -1, false
	}
	raw, err := r.client.Get(ctx, pageKey(v, limit, offset)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("leaderboard cache read failed", "error", err)
		}
		return nil, v, false
	}
	var page Page
	if err := json.Unmarshal(raw, &page); err != nil {
		slog.Warn("leaderboard cache entry corrupt", "error", err)
		return nil, v, false
	}
	return &page, v, true
}

func (r *Redis) SetPage(ctx context.Context, generation int64, limit, offset int, page *Page) {
	if generation < 0 {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, pageKey(generation, limit, offset), raw, r.ttl).Err(); err != nil {
		slog.Warn("leaderboard cache write failed", "error", err)
	}
}

func (r *Redis) Invalidate(ctx context.Context) {
	if err := r.client.Incr(ctx, versionKey).Err(); err != nil {
		slog.Warn("leaderboard cache invalidation failed", "error", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
