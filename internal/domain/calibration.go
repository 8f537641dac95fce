package domain

import (
	"math"

	apperrors "github.com/twin-calibration/internal/pkg/errors"
)

// DeterminantEpsilon - минимальный модуль определителя 2×2 части аффинного преобразования
const DeterminantEpsilon = 1e-15

// CalibrationPoint - соответствие точки модели и географической координаты.
// ModelY не участвует в двумерной подгонке.
type CalibrationPoint struct {
	ModelX float64 `json:"modelX" db:"model_x" validate:"finite"`
	ModelY float64 `json:"modelY" db:"model_y" validate:"finite"`
	ModelZ float64 `json:"modelZ" db:"model_z" validate:"finite"`
	Lat    float64 `json:"lat" db:"lat" validate:"min=-90,max=90"`
	Lon    float64 `json:"lon" db:"lon" validate:"min=-180,max=180"`
	Name   string  `json:"name" db:"name"`
}

// AffineCoefficients задаёт преобразование
//
//	lat = A1·x + B1·z + C1
//	lon = A2·x + B2·z + C2
type AffineCoefficients struct {
	A1 float64 `json:"a1"`
	B1 float64 `json:"b1"`
	C1 float64 `json:"c1"`
	A2 float64 `json:"a2"`
	B2 float64 `json:"b2"`
	C2 float64 `json:"c2"`
}

// Determinant возвращает a1·b2 − a2·b1. Единственная реализация, используемая и
// солвером, и обратным преобразованием.
func (c AffineCoefficients) Determinant() float64 {
	return c.A1*c.B2 - c.A2*c.B1
}

// Validate проверяет невырожденность преобразования
func (c AffineCoefficients) Validate() error {
	for _, v := range []float64{c.A1, c.B1, c.C1, c.A2, c.B2, c.C2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.ErrDegenerateTransform.WithMessage("coefficients must be finite")
		}
	}
	det := c.Determinant()
	if math.Abs(det) <= DeterminantEpsilon {
		return apperrors.ErrDegenerateTransform.WithDetails(map[string]interface{}{
			"determinant": det,
		})
	}
	return nil
}

// ModelBounds - ограничивающий прямоугольник в пространстве модели.
// Y хранится для файла калибровки, но в UV-отображении не используется.
type ModelBounds struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
	MinZ float64 `json:"minZ"`
	MaxZ float64 `json:"maxZ"`
}

// Validate проверяет, что по X и Z прямоугольник невырожден
func (b ModelBounds) Validate() error {
	if !(b.MaxX > b.MinX) || !(b.MaxZ > b.MinZ) {
		return apperrors.ErrInvalidBounds.WithDetails(map[string]interface{}{
			"minX": b.MinX, "maxX": b.MaxX,
			"minZ": b.MinZ, "maxZ": b.MaxZ,
		})
	}
	return nil
}

// GeoBounds - географический охват калибровочных точек
type GeoBounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

// BoundsFromPoints вычисляет ModelBounds по калибровочным точкам.
// Для пустого набора возвращается нулевой (невалидный) прямоугольник.
func BoundsFromPoints(points []CalibrationPoint) ModelBounds {
	if len(points) == 0 {
		return ModelBounds{}
	}
	b := ModelBounds{
		MinX: points[0].ModelX, MaxX: points[0].ModelX,
		MinY: points[0].ModelY, MaxY: points[0].ModelY,
		MinZ: points[0].ModelZ, MaxZ: points[0].ModelZ,
	}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.ModelX)
		b.MaxX = math.Max(b.MaxX, p.ModelX)
		b.MinY = math.Min(b.MinY, p.ModelY)
		b.MaxY = math.Max(b.MaxY, p.ModelY)
		b.MinZ = math.Min(b.MinZ, p.ModelZ)
		b.MaxZ = math.Max(b.MaxZ, p.ModelZ)
	}
	return b
}

// GeoBoundsFromPoints вычисляет географический охват точек
func GeoBoundsFromPoints(points []CalibrationPoint) GeoBounds {
	if len(points) == 0 {
		return GeoBounds{}
	}
	g := GeoBounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		g.MinLat = math.Min(g.MinLat, p.Lat)
		g.MaxLat = math.Max(g.MaxLat, p.Lat)
		g.MinLon = math.Min(g.MinLon, p.Lon)
		g.MaxLon = math.Max(g.MaxLon, p.Lon)
	}
	return g
}
