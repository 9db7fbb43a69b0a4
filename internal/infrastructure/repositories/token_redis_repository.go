package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sportweather/sportweather-api/internal/core/ports"
)

// TokenRedisRepository stores refresh tokens in Redis, keyed by token hash so
// raw tokens never land in the store. Expiry is delegated to Redis TTLs.
type TokenRedisRepository struct {
	r      redis.Cmdable
	logger *logrus.Logger
}

func NewTokenRedisRepository(r redis.Cmdable, logger *logrus.Logger) ports.TokenRepository {
	return &TokenRedisRepository{r: r, logger: logger}
}

func (repo *TokenRedisRepository) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "refresh:" + hex.EncodeToString(sum[:])
}

func (repo *TokenRedisRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}
	if err := repo.r.Set(ctx, repo.key(token), userID.String(), ttl).Err(); err != nil {
		if repo.logger != nil {
			repo.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("redis: failed to store refresh token")
		}
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (repo *TokenRedisRepository) GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := repo.r.Get(ctx, repo.key(token)).Result()
	if err == redis.Nil {
		return uuid.Nil, fmt.Errorf("refresh token not found")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt refresh token entry: %w", err)
	}
	return userID, nil
}

func (repo *TokenRedisRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	return repo.r.Del(ctx, repo.key(token)).Err()
}
