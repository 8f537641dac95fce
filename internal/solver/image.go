package solver

import (
	"math"

	"github.com/twin-calibration/internal/domain"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
)

// FitImage подбирает преобразование по пикселям изображения высотой imageHeight.
// Ось Y переворачивается (y' = imageHeight − y), дальше подгонка та же, что и для модели:
// x играет роль X модели, y' - роль Z.
func FitImage(points []domain.ImagePoint, imageHeight float64) (*FitResult, error) {
	if !(imageHeight > 0) || math.IsInf(imageHeight, 0) {
		return nil, apperrors.ErrInvalidRequest.WithMessage("image height must be positive, got %v", imageHeight)
	}
	return FitDetailed(FlipImagePoints(points, imageHeight))
}

// FlipImagePoints переводит пиксели в систему с осью Y вверх
func FlipImagePoints(points []domain.ImagePoint, imageHeight float64) []domain.CalibrationPoint {
	flipped := make([]domain.CalibrationPoint, len(points))
	for i, p := range points {
		flipped[i] = domain.CalibrationPoint{
			ModelX: p.X,
			ModelZ: imageHeight - p.Y,
			Lat:    p.Lat,
			Lon:    p.Lon,
			Name:   p.Name,
		}
	}
	return flipped
}
