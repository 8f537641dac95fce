package transform

import (
	"math"

	"github.com/twin-calibration/internal/domain"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
)

// Calibration - неизменяемая пара коэффициентов и границ модели.
// Создаётся только через NewCalibration и никогда не изменяется.
type Calibration struct {
	coeffs domain.AffineCoefficients
	bounds domain.ModelBounds
	det    float64
}

// NewCalibration проверяет коэффициенты и границы и возвращает готовую калибровку
func NewCalibration(coeffs domain.AffineCoefficients, bounds domain.ModelBounds) (*Calibration, error) {
	if err := coeffs.Validate(); err != nil {
		return nil, err
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	return &Calibration{
		coeffs: coeffs,
		bounds: bounds,
		det:    coeffs.Determinant(),
	}, nil
}

// Coefficients возвращает копию коэффициентов
func (c *Calibration) Coefficients() domain.AffineCoefficients {
	return c.coeffs
}

// Bounds возвращает копию границ модели
func (c *Calibration) Bounds() domain.ModelBounds {
	return c.bounds
}

// Determinant возвращает определитель, использованный для обратного преобразования
func (c *Calibration) Determinant() float64 {
	return c.det
}

// ModelToGeo - прямое аффинное преобразование
func (c *Calibration) ModelToGeo(x, z float64) domain.GeoPoint {
	return modelToGeo(c.coeffs, x, z)
}

// GeoToModel - обратное преобразование по правилу Крамера
func (c *Calibration) GeoToModel(lat, lon float64) (domain.ModelPoint, error) {
	return geoToModel(c.coeffs, c.det, lat, lon)
}

func modelToGeo(k domain.AffineCoefficients, x, z float64) domain.GeoPoint {
	return domain.GeoPoint{
		Lat: k.A1*x + k.B1*z + k.C1,
		Lon: k.A2*x + k.B2*z + k.C2,
	}
}

// geoToModel решает систему
//
//	lat − c1 = a1·x + b1·z
//	lon − c2 = a2·x + b2·z
func geoToModel(k domain.AffineCoefficients, det, lat, lon float64) (domain.ModelPoint, error) {
	if math.Abs(det) <= domain.DeterminantEpsilon || math.IsNaN(det) {
		return domain.ModelPoint{}, apperrors.ErrDegenerateTransform.WithDetails(map[string]interface{}{
			"determinant": det,
		})
	}
	latDiff := lat - k.C1
	lonDiff := lon - k.C2
	return domain.ModelPoint{
		X: (latDiff*k.B2 - lonDiff*k.B1) / det,
		Z: (lonDiff*k.A1 - latDiff*k.A2) / det,
	}, nil
}
