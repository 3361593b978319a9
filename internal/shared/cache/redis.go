package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobprep-backend/resume/model"
)

// Redis stores JSON-encoded results with a TTL.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisFromURL parses a redis:// URL and returns a cache using it.
func NewRedisFromURL(rawURL string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return &Redis{Client: redis.NewClient(opts), TTL: ttl}, nil
}

// Ping tests the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) (model.AnalysisResult, bool, error) {
	raw, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.AnalysisResult{}, false, nil
	}
	if err != nil {
		return model.AnalysisResult{}, false, fmt.Errorf("redis get: %w", err)
	}
	var out model.AnalysisResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return model.AnalysisResult{}, false, fmt.Errorf("decode cached analysis: %w", err)
	}
	return out, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, result model.AnalysisResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := r.Client.Set(ctx, key, raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
