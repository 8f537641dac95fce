package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/twin-calibration/internal/domain"
)

// CalibrationRepository - хранилище рассчитанных калибровок
type CalibrationRepository interface {
	// Save сохраняет калибровку. Если Active=true, остальные калибровки деактивируются.
	Save(ctx context.Context, cal *domain.Calibration) error

	// GetByID возвращает калибровку или ErrCalibrationNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Calibration, error)

	// GetActive возвращает активную калибровку или ErrCalibrationNotFound
	GetActive(ctx context.Context) (*domain.Calibration, error)

	// List возвращает краткую информацию, новые первыми
	List(ctx context.Context, limit, offset int) ([]domain.CalibrationSummary, error)

	// Activate делает калибровку единственной активной
	Activate(ctx context.Context, id uuid.UUID) error

	// Delete удаляет калибровку
	Delete(ctx context.Context, id uuid.UUID) error
}
