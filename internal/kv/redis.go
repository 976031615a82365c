package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devanshgoyal/shopkart/internal/config"
	"github.com/redis/go-redis/v9"
)

const changeChannelPrefix = "records:"

// Redis persists records as plain string keys and announces every write on a
// per-key pub/sub channel, so Watch observes writes from other processes —
// the analog of the browser's cross-tab storage events.
type Redis struct {
	client *redis.Client
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}

	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}

	if err := r.client.Publish(ctx, changeChannelPrefix+key, "set").Err(); err != nil {
		// The write itself landed; a missed change announcement only delays
		// refresh in other processes.
		slog.Warn("failed to publish record change", slog.String("key", key), slog.Any("error", err))
	}

	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}

	if err := r.client.Publish(ctx, changeChannelPrefix+key, "del").Err(); err != nil {
		slog.Warn("failed to publish record change", slog.String("key", key), slog.Any("error", err))
	}

	return nil
}

func (r *Redis) Watch(key string, fn func()) func() {
	pubsub := r.client.Subscribe(context.Background(), changeChannelPrefix+key)

	go func() {
		for range pubsub.Channel() {
			fn()
		}
	}()

	return func() {
		if err := pubsub.Close(); err != nil {
			slog.Warn("failed to close record watch", slog.String("key", key), slog.Any("error", err))
		}
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
