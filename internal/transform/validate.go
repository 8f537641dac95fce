package transform

import (
	"math"

	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/pkg/utils"
)

// Validate сравнивает предсказания преобразования с калибровочными точками.
// Ошибка в метрах считается в приближении плоской Земли (градус = 111 км,
// долгота масштабируется cos(lat)), что допустимо только для участков
// в несколько километров; для контроля дополнительно считается ошибка
// по большому кругу. Отчёт формируется всегда, даже для вырожденных коэффициентов:
// тогда обратное преобразование помечается как недоступное.
func Validate(points []domain.CalibrationPoint, coeffs domain.AffineCoefficients) *domain.ValidationReport {
	report := &domain.ValidationReport{
		Points: make([]domain.PointReport, 0, len(points)),
	}
	if len(points) == 0 {
		return report
	}

	det := coeffs.Determinant()
	var total float64
	for _, p := range points {
		predicted := modelToGeo(coeffs, p.ModelX, p.ModelZ)

		pr := domain.PointReport{
			Name:         p.Name,
			ActualLat:    p.Lat,
			ActualLon:    p.Lon,
			PredictedLat: predicted.Lat,
			PredictedLon: predicted.Lon,
			ModelX:       p.ModelX,
			ModelZ:       p.ModelZ,
			GeoErrorMeters: utils.FlatEarthErrorMeters(
				predicted.Lat, predicted.Lon, p.Lat, p.Lon),
			GeodesicErrorMeters: utils.GreatCircleMeters(
				predicted.Lat, predicted.Lon, p.Lat, p.Lon),
		}

		if reverse, err := geoToModel(coeffs, det, p.Lat, p.Lon); err == nil {
			pr.ReverseX = reverse.X
			pr.ReverseZ = reverse.Z
			pr.ModelError = math.Hypot(reverse.X-p.ModelX, reverse.Z-p.ModelZ)
			pr.InverseOK = true
		}

		total += pr.GeoErrorMeters
		report.MaxErrorMeters = math.Max(report.MaxErrorMeters, pr.GeoErrorMeters)
		report.MaxGeodesicErrorMeters = math.Max(report.MaxGeodesicErrorMeters, pr.GeodesicErrorMeters)
		report.Points = append(report.Points, pr)
	}
	report.AverageErrorMeters = total / float64(len(points))

	return report
}
