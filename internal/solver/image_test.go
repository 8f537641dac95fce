package solver_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twin-calibration/internal/domain"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
	"github.com/twin-calibration/internal/solver"
)

// mapCoeffs are expressed with the y axis pointing up
var mapCoeffs = domain.AffineCoefficients{
	A1: 1e-5, B1: 2e-6, C1: 31.2,
	A2: -3e-6, B2: 1.2e-5, C2: 121.4,
}

const mapHeight = 1000.0

func imagePoint(name string, x, y float64) domain.ImagePoint {
	up := mapHeight - y
	return domain.ImagePoint{
		Name: name,
		X:    x,
		Y:    y,
		Lat:  mapCoeffs.A1*x + mapCoeffs.B1*up + mapCoeffs.C1,
		Lon:  mapCoeffs.A2*x + mapCoeffs.B2*up + mapCoeffs.C2,
	}
}

func mapPoints() []domain.ImagePoint {
	return []domain.ImagePoint{
		imagePoint("bottom-left", 100, 900),
		imagePoint("bottom-right", 800, 900),
		imagePoint("top-left", 100, 100),
		imagePoint("top-right", 800, 150),
	}
}

func TestFitImage_FlipsYAxis(t *testing.T) {
	res, err := solver.FitImage(mapPoints(), mapHeight)
	require.NoError(t, err)

	got := res.Coefficients
	assert.InDelta(t, mapCoeffs.A1, got.A1, 1e-15)
	assert.InDelta(t, mapCoeffs.B1, got.B1, 1e-15)
	assert.InDelta(t, mapCoeffs.C1, got.C1, 1e-10)
	assert.InDelta(t, mapCoeffs.A2, got.A2, 1e-15)
	assert.InDelta(t, mapCoeffs.B2, got.B2, 1e-15)
	assert.InDelta(t, mapCoeffs.C2, got.C2, 1e-10)
	assert.Equal(t, 4, res.PointCount)
}

func TestFitImage_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		points []domain.ImagePoint
		height float64
		want   *apperrors.AppError
	}{
		{"zero height", mapPoints(), 0, apperrors.ErrInvalidRequest},
		{"negative height", mapPoints(), -10, apperrors.ErrInvalidRequest},
		{"infinite height", mapPoints(), math.Inf(1), apperrors.ErrInvalidRequest},
		{"two points", mapPoints()[:2], mapHeight, apperrors.ErrInsufficientData},
		{"points on one row", []domain.ImagePoint{
			imagePoint("a", 0, 500), imagePoint("b", 10, 500), imagePoint("c", 20, 500),
		}, mapHeight, apperrors.ErrSingularMatrix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := solver.FitImage(tt.points, tt.height)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFlipImagePoints(t *testing.T) {
	flipped := solver.FlipImagePoints([]domain.ImagePoint{{Name: "p", X: 3, Y: 250, Lat: 31, Lon: 121}}, 1000)
	require.Len(t, flipped, 1)
	assert.Equal(t, domain.CalibrationPoint{Name: "p", ModelX: 3, ModelZ: 750, Lat: 31, Lon: 121}, flipped[0])
}
