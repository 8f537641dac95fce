package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/domain/repository"
	"go.uber.org/zap"
)

const documentKeyPrefix = "calibration:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

// DocumentKey - ключ документа калибровки в Redis
func DocumentKey(id uuid.UUID) string {
	return documentKeyPrefix + id.String()
}

func (r *cacheRepository) GetDocument(ctx context.Context, id uuid.UUID) (*domain.CalibrationDocument, error) {
	key := DocumentKey(id)
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var doc domain.CalibrationDocument
	if err := json.Unmarshal(val, &doc); err != nil {
		// Повреждённая запись считается промахом и удаляется
		r.logger.Warn("Corrupted cache entry", zap.String("key", key), zap.Error(err))
		_ = r.client.Del(ctx, key).Err()
		return nil, nil
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return &doc, nil
}

func (r *cacheRepository) SetDocument(ctx context.Context, id uuid.UUID, doc *domain.CalibrationDocument, ttl time.Duration) error {
	key := DocumentKey(id)
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	key := DocumentKey(id)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}
