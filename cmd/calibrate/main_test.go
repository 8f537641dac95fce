package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/config"
	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/repository/sqldb"
	"github.com/twin-calibration/internal/transform"
	"github.com/twin-calibration/internal/usecase"
)

func corners() []domain.CalibrationPoint {
	coeffs := domain.AffineCoefficients{
		A1: 1.0058368e-5, B1: 3.897104e-6, C1: 31.239836286743987,
		A2: -4.47792356e-6, B2: 1.1466107e-5, C2: 121.48174634639462,
	}
	var points []domain.CalibrationPoint
	for _, c := range [][2]float64{{-292.6, 160.3}, {106.2, 160.3}, {-292.6, 813}, {106.2, 813}} {
		points = append(points, domain.CalibrationPoint{
			ModelX: c[0],
			ModelZ: c[1],
			Lat:    coeffs.A1*c[0] + coeffs.B1*c[1] + coeffs.C1,
			Lon:    coeffs.A2*c[0] + coeffs.B2*c[1] + coeffs.C2,
		})
	}
	return points
}

func TestStore_PersistsWrittenDocument(t *testing.T) {
	log := zap.NewNop()
	opts := usecase.CalibrationOptions{HeatmapWidth: 1000, HeatmapHeight: 800}
	bounds := domain.ModelBounds{MinX: -400, MaxX: 200, MinZ: 100, MaxZ: 900}

	uc := usecase.NewCalibrationUseCase(nil, nil, nil, nil, transform.NewService(log), opts, log)
	doc, _, err := uc.BuildDocument(corners(), &bounds)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "calibration.db")
	require.NoError(t, store(path, doc, opts, log))

	db, err := sqldb.New(&config.DatabaseConfig{Driver: sqldb.DriverSQLite, Path: path}, log)
	require.NoError(t, err)
	defer db.Close()

	active, err := sqldb.NewCalibrationRepository(db).GetActive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "calibration.db", active.Name)
	require.NotNil(t, active.Document.ModelBounds)
	assert.Equal(t, bounds, *active.Document.ModelBounds)
	assert.Equal(t, bounds, active.Document.TransformationMatrix.ModelBounds)
	require.NotNil(t, active.Document.UserTestResult)
	assert.Equal(t, *doc.UserTestResult, *active.Document.UserTestResult)
}
