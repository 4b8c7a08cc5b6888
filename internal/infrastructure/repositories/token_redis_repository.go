package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const tokenPrefix = "chatloop_tokens"

// TokenRedisRepository provides Redis-backed storage for refresh tokens and
// the access-token blacklist. Keys expire with the tokens they track, so
// no sweeper is needed.
type TokenRedisRepository struct {
	client redis.Cmdable
	logger *logrus.Logger
}

func NewTokenRedisRepository(client redis.Cmdable, logger *logrus.Logger) ports.TokenRepository {
	return &TokenRedisRepository{client: client, logger: logger}
}

func hashToken(token string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(token)))
}

func refreshKey(tokenHash string) string {
	return fmt.Sprintf("%s:refresh:%s", tokenPrefix, tokenHash)
}

func blacklistKey(tokenHash string) string {
	return fmt.Sprintf("%s:blacklist:%s", tokenPrefix, tokenHash)
}

func (r *TokenRedisRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}

	stored := &ports.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh token: %w", err)
	}

	if err := r.client.Set(ctx, refreshKey(stored.TokenHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token in Redis: %w", err)
	}

	return nil
}

func (r *TokenRedisRepository) GetRefreshToken(ctx context.Context, token string) (*ports.RefreshToken, error) {
	data, err := r.client.Get(ctx, refreshKey(hashToken(token))).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("refresh token not found or expired")
		}
		return nil, fmt.Errorf("failed to get refresh token from Redis: %w", err)
	}

	var stored ports.RefreshToken
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal refresh token: %w", err)
	}

	return &stored, nil
}

func (r *TokenRedisRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, refreshKey(hashToken(token))).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *TokenRedisRepository) BlacklistToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Token is already expired; nothing to blacklist.
		return nil
	}

	if err := r.client.Set(ctx, blacklistKey(tokenHash), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"user_id": userID}).Debug("redis: token blacklisted")
	}

	return nil
}

func (r *TokenRedisRepository) IsTokenBlacklisted(ctx context.Context, tokenHash string) (bool, error) {
	n, err := r.client.Exists(ctx, blacklistKey(tokenHash)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}
