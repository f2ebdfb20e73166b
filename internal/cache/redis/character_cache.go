// Package redis provides a read-through cache over the character
// repository, used to keep session hydration off the database hot path.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/platform/metrics"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository"
)

// CharacterCache is a read-through cache in front of a CharacterLister.
// Cache failures degrade to the underlying source and are never returned
// to the caller.
type CharacterCache struct {
	client *redis.Client
	source repository.CharacterLister
	logger *zap.Logger
	ttl    time.Duration
}

// NewCharacterCache creates a CharacterCache backed by the given source.
func NewCharacterCache(client *redis.Client, source repository.CharacterLister, logger *zap.Logger, ttl time.Duration) *CharacterCache {
	return &CharacterCache{
		client: client,
		source: source,
		logger: logger,
		ttl:    ttl,
	}
}

func characterListKey(accountID uuid.UUID) string {
	return fmt.Sprintf("characters:%s", accountID.String())
}

// ListByAccount implements repository.CharacterLister.
func (c *CharacterCache) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Character, error) {
	key := characterListKey(accountID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var characters []*entity.Character
		if err := json.Unmarshal(data, &characters); err == nil {
			metrics.CacheOperationsTotal.WithLabelValues("get", "hit").Inc()
			return characters, nil
		}
		c.logger.Warn("Failed to unmarshal cached character list, falling through",
			zap.String("account_id", accountID.String()))
	} else if err != redis.Nil {
		c.logger.Warn("Failed to get character list from cache",
			zap.Error(err), zap.String("account_id", accountID.String()))
	}
	metrics.CacheOperationsTotal.WithLabelValues("get", "miss").Inc()

	characters, err := c.source.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(characters); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to set character list in cache",
				zap.Error(err), zap.String("account_id", accountID.String()))
		}
	}
	return characters, nil
}

// Invalidate drops the cached list for an account. Called whenever a
// character belonging to the account is created, updated or deleted.
func (c *CharacterCache) Invalidate(ctx context.Context, accountID uuid.UUID) {
	if err := c.client.Del(ctx, characterListKey(accountID)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate character list cache",
			zap.Error(err), zap.String("account_id", accountID.String()))
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues("del", "ok").Inc()
}
