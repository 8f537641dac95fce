package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/solver"
	"github.com/twin-calibration/internal/transform"
)

func TestValidate_ExactFitHasNoResidual(t *testing.T) {
	points := []domain.CalibrationPoint{
		{Name: "a", ModelX: -72.40295394451705, ModelZ: 812.9764577390581, Lat: 31.242242, Lon: 121.491427},
		{Name: "b", ModelX: -292.64232281821876, ModelZ: 160.30996285669252, Lat: 31.2372, Lon: 121.4851},
		{Name: "c", ModelX: 106.19976971292328, ModelZ: 500.0, Lat: 31.2419, Lon: 121.4817},
	}
	coeffs, err := solver.Fit(points)
	require.NoError(t, err)

	report := transform.Validate(points, coeffs)

	require.Len(t, report.Points, 3)
	assert.Less(t, report.MaxErrorMeters, 0.01)
	assert.Less(t, report.AverageErrorMeters, 0.01)
	assert.Less(t, report.MaxGeodesicErrorMeters, 0.01)
	for _, p := range report.Points {
		assert.True(t, p.InverseOK, p.Name)
		assert.Less(t, p.ModelError, 1e-3, p.Name)
	}
	assert.Equal(t, "b", report.Points[1].Name)
}

func TestValidate_ReportsResiduals(t *testing.T) {
	coeffs := domain.AffineCoefficients{A1: 1e-5, B2: 1e-5, C1: 31, C2: 121}
	points := []domain.CalibrationPoint{
		{Name: "exact", ModelX: 100, ModelZ: 100, Lat: 31.001, Lon: 121.001},
		// 0.001° севернее предсказания
		{Name: "off", ModelX: 100, ModelZ: 100, Lat: 31.002, Lon: 121.001},
	}

	report := transform.Validate(points, coeffs)

	require.Len(t, report.Points, 2)
	assert.InDelta(t, 0, report.Points[0].GeoErrorMeters, 1e-6)
	assert.InDelta(t, 111, report.Points[1].GeoErrorMeters, 1e-3)
	assert.InDelta(t, 111, report.MaxErrorMeters, 1e-3)
	assert.InDelta(t, 55.5, report.AverageErrorMeters, 1e-3)
	assert.InDelta(t, 100, report.Points[1].ReverseZ, 1e-6)
	assert.InDelta(t, 200, report.Points[1].ReverseX, 1e-6)
	assert.InDelta(t, 100, report.Points[1].ModelError, 1e-6)
	assert.InEpsilon(t, 111.2, report.MaxGeodesicErrorMeters, 0.01)
}

func TestValidate_NeverFails(t *testing.T) {
	empty := transform.Validate(nil, domain.AffineCoefficients{})
	assert.Empty(t, empty.Points)
	assert.Zero(t, empty.AverageErrorMeters)

	report := transform.Validate([]domain.CalibrationPoint{{Lat: 1, Lon: 1}}, domain.AffineCoefficients{C1: 1, C2: 1})
	require.Len(t, report.Points, 1)
	assert.False(t, report.Points[0].InverseOK)
	assert.Zero(t, report.Points[0].GeoErrorMeters)
}
