package utils

import (
	"math"

	"github.com/golang/geo/s2"
)

const (
	earthRadiusMeters = 6371008.8
	// MetersPerDegree - приблизительная длина градуса широты
	MetersPerDegree = 111000.0
)

// FlatEarthErrorMeters оценивает расстояние между двумя близкими точками в метрах.
// Корректно только для участков масштаба города (несколько километров).
func FlatEarthErrorMeters(lat1, lon1, lat2, lon2 float64) float64 {
	latErr := math.Abs(lat1-lat2) * MetersPerDegree
	lonErr := math.Abs(lon1-lon2) * MetersPerDegree * math.Cos(lat2*math.Pi/180)
	return math.Hypot(latErr, lonErr)
}

// GreatCircleMeters вычисляет расстояние по большому кругу в метрах
func GreatCircleMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
