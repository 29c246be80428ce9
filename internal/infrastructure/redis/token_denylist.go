package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/config"
	"github.com/debrief-hq/debrief-platform/backend/services/auth-service/internal/domain/interfaces"
)

// NewClient connects to redis and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type tokenDenylist struct {
	client *redis.Client
	logger *zap.Logger
}

// NewTokenDenylist creates the redis-backed denylist of revoked access
// tokens. Entries expire with the token itself, so the set stays bounded
// by the access token TTL.
func NewTokenDenylist(client *redis.Client, logger *zap.Logger) interfaces.TokenDenylist {
	return &tokenDenylist{client: client, logger: logger}
}

func denylistKey(tokenHash string) string {
	return fmt.Sprintf("denylist:access:%s", tokenHash)
}

func (d *tokenDenylist) Add(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, the verifier rejects it anyway.
		return nil
	}
	if err := d.client.Set(ctx, denylistKey(tokenHash), "1", ttl).Err(); err != nil {
		d.logger.Error("Failed to add token to denylist", zap.Error(err))
		return fmt.Errorf("failed to add token to denylist: %w", err)
	}
	return nil
}

func (d *tokenDenylist) Contains(ctx context.Context, tokenHash string) (bool, error) {
	exists, err := d.client.Exists(ctx, denylistKey(tokenHash)).Result()
	if err != nil {
		d.logger.Error("Failed to check token denylist", zap.Error(err))
		return false, fmt.Errorf("failed to check token denylist: %w", err)
	}
	return exists > 0, nil
}

var _ interfaces.TokenDenylist = (*tokenDenylist)(nil)
