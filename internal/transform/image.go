package transform

import (
	"math"

	"github.com/twin-calibration/internal/domain"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
)

// ImageCalibration - преобразование между пикселями изображения и широтой/долготой.
// Коэффициенты заданы в системе с осью Y вверх, пиксели - с осью Y вниз.
type ImageCalibration struct {
	coeffs      domain.AffineCoefficients
	imageHeight float64
	det         float64
}

// NewImageCalibration проверяет коэффициенты и высоту изображения
func NewImageCalibration(coeffs domain.AffineCoefficients, imageHeight float64) (*ImageCalibration, error) {
	if err := coeffs.Validate(); err != nil {
		return nil, err
	}
	if !(imageHeight > 0) || math.IsInf(imageHeight, 0) {
		return nil, apperrors.ErrInvalidRequest.WithMessage("image height must be positive, got %v", imageHeight)
	}
	return &ImageCalibration{
		coeffs:      coeffs,
		imageHeight: imageHeight,
		det:         coeffs.Determinant(),
	}, nil
}

// ScreenToGeo переводит пиксель в географическую координату
func (c *ImageCalibration) ScreenToGeo(x, y float64) domain.GeoPoint {
	return modelToGeo(c.coeffs, x, c.imageHeight-y)
}

// GeoToScreen - обратное преобразование, результат снова с осью Y вниз
func (c *ImageCalibration) GeoToScreen(lat, lon float64) (domain.ScreenPoint, error) {
	p, err := geoToModel(c.coeffs, c.det, lat, lon)
	if err != nil {
		return domain.ScreenPoint{}, err
	}
	return domain.ScreenPoint{X: p.X, Y: c.imageHeight - p.Z}, nil
}
