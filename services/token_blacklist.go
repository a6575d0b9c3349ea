package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultBlacklistTTL applies when a token carries no expiry.
const defaultBlacklistTTL = 24 * time.Hour

type RedisTokenBlacklist struct {
	Client *redis.Client
}

// NewRedisClient parses redisURL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{Client: client}
}

func blacklistTTL(expiresAt time.Time) time.Duration {
	if expiresAt.IsZero() {
		return defaultBlacklistTTL
	}
	return time.Until(expiresAt)
}

// BlacklistToken revokes token until expiresAt, after which Redis drops the key.
func (tb *RedisTokenBlacklist) BlacklistToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := blacklistTTL(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := tb.Client.Set(ctx, blacklistKey(token), "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token in Redis: %w", err)
	}
	return nil
}

// RevokeIfNew revokes token and reports whether this call did it. Only one of
// several concurrent callers with the same token gets true.
func (tb *RedisTokenBlacklist) RevokeIfNew(ctx context.Context, token string, expiresAt time.Time) (bool, error) {
	ttl := blacklistTTL(expiresAt)
	if ttl <= 0 {
		return false, nil
	}

	ok, err := tb.Client.SetNX(ctx, blacklistKey(token), "true", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to revoke token in Redis: %w", err)
	}
	return ok, nil
}

// IsBlacklisted reports whether token was revoked. Lookup failures surface
// as errors so callers can decide whether to fail closed.
func (tb *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := tb.Client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

// IsConnected checks if the Redis connection is alive
func (tb *RedisTokenBlacklist) IsConnected(ctx context.Context) bool {
	if tb == nil || tb.Client == nil {
		return false
	}
	return tb.Client.Ping(ctx).Err() == nil
}

func (tb *RedisTokenBlacklist) Close() error {
	return tb.Client.Close()
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}
