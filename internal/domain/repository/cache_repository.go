package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/twin-calibration/internal/domain"
)

// CacheRepository определяет методы для кеширования документов калибровки
type CacheRepository interface {
	// GetDocument возвращает документ или nil при промахе
	GetDocument(ctx context.Context, id uuid.UUID) (*domain.CalibrationDocument, error)

	// SetDocument сохраняет документ с TTL
	SetDocument(ctx context.Context, id uuid.UUID, doc *domain.CalibrationDocument, ttl time.Duration) error

	// DeleteDocument удаляет документ из кеша
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}
