package usecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/domain"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
	"github.com/twin-calibration/internal/transform"
	"github.com/twin-calibration/internal/usecase"
	"github.com/twin-calibration/internal/usecase/dto"
)

var plantBounds = domain.ModelBounds{
	MinX: -292.64232281821876, MaxX: 106.19976971292328,
	MinZ: 160.30996285669252, MaxZ: 812.9764577390581,
}

func calibratedProjection(t *testing.T, width, height int) *usecase.ProjectionUseCase {
	t.Helper()
	cal, err := transform.NewCalibration(plantCoeffs, plantBounds)
	require.NoError(t, err)

	svc := transform.NewService(zap.NewNop())
	svc.Load(cal)
	return usecase.NewProjectionUseCase(svc, width, height)
}

func TestProjectionUseCase_Uncalibrated(t *testing.T) {
	uc := usecase.NewProjectionUseCase(transform.NewService(nil), 0, 0)
	assert.False(t, uc.Calibrated())

	_, err := uc.ModelToGeo(dto.ModelToGeoRequest{X: 1, Z: 2})
	assert.True(t, errors.Is(err, apperrors.ErrNotCalibrated))
}

func TestProjectionUseCase_RoundTrip(t *testing.T) {
	uc := calibratedProjection(t, 0, 0)

	geo, err := uc.ModelToGeo(dto.ModelToGeoRequest{X: -72.40295394451705, Z: 812.9764577390581})
	require.NoError(t, err)

	model, err := uc.GeoToModel(dto.GeoToModelRequest{Lat: geo.Lat, Lon: geo.Lon})
	require.NoError(t, err)
	assert.InDelta(t, -72.40295394451705, model.X, 1e-6)
	assert.InDelta(t, 812.9764577390581, model.Z, 1e-6)

	_, err = uc.GeoToModel(dto.GeoToModelRequest{Lat: 91, Lon: 0})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCoordinates))
}

func TestProjectionUseCase_UV(t *testing.T) {
	uc := calibratedProjection(t, 0, 0)

	uv, err := uc.UV(dto.UVRequest{Model: &dto.ModelToGeoRequest{X: plantBounds.MinX, Z: plantBounds.MaxZ}})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, uv.U, 1e-12)
	assert.InDelta(t, 0.0, uv.V, 1e-12)

	_, err = uc.UV(dto.UVRequest{})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidRequest))

	_, err = uc.UV(dto.UVRequest{
		Model: &dto.ModelToGeoRequest{},
		Geo:   &dto.GeoToModelRequest{Lat: 31.2, Lon: 121.4},
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidRequest))
}

func TestProjectionUseCase_HeatmapPixel(t *testing.T) {
	t.Run("configured canvas is the default", func(t *testing.T) {
		uc := calibratedProjection(t, 500, 100)
		resp, err := uc.HeatmapPixel(dto.HeatmapPixelRequest{
			UVRequest: dto.UVRequest{Model: &dto.ModelToGeoRequest{X: plantBounds.MaxX, Z: plantBounds.MinZ}},
		})
		require.NoError(t, err)
		assert.Equal(t, 500, resp.Width)
		assert.Equal(t, 100, resp.Height)
		assert.Equal(t, domain.HeatmapPixel{X: 499, Y: 99}, resp.Pixel)
	})

	t.Run("request overrides canvas", func(t *testing.T) {
		uc := calibratedProjection(t, 0, 0)
		resp, err := uc.HeatmapPixel(dto.HeatmapPixelRequest{
			UVRequest: dto.UVRequest{Model: &dto.ModelToGeoRequest{X: plantBounds.MinX - 1000, Z: plantBounds.MaxZ + 1000}},
			Width:     64,
			Height:    32,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.HeatmapPixel{X: 0, Y: 0}, resp.Pixel, "clamped to the canvas")
		assert.Equal(t, 64, resp.Width)
	})
}

func TestProjectionUseCase_Frame(t *testing.T) {
	uc := calibratedProjection(t, 0, 0)

	frame, err := uc.Frame(dto.HeatmapFrameRequest{Samples: []domain.DensitySample{
		{Model: &domain.ModelPoint{X: plantBounds.MinX, Z: plantBounds.MinZ}, Value: 2},
		{Model: &domain.ModelPoint{X: plantBounds.MaxX, Z: plantBounds.MaxZ}, Value: 7},
	}})
	require.NoError(t, err)
	assert.Equal(t, 7.0, frame.Max)
	require.Len(t, frame.Data, 2)
	assert.Equal(t, domain.HeatmapDataPoint{X: 0, Y: 249, Value: 2}, frame.Data[0])
	assert.Equal(t, domain.HeatmapDataPoint{X: 249, Y: 0, Value: 7}, frame.Data[1])
}

func TestProjectionUseCase_TestCoordinate(t *testing.T) {
	uc := calibratedProjection(t, 0, 0)

	res, err := uc.TestCoordinate(dto.GeoToModelRequest{Lat: usecase.ReferenceTestLat, Lon: usecase.ReferenceTestLon})
	require.NoError(t, err)
	assert.Equal(t, 3, res.HeatmapX)
	assert.Equal(t, 188, res.HeatmapY)
}

func TestProjectionUseCase_ImageFit(t *testing.T) {
	coeffs := domain.AffineCoefficients{A1: 1e-5, B1: 2e-6, C1: 31.2, A2: -3e-6, B2: 1.2e-5, C2: 121.4}
	const height = 1000.0
	pixel := func(x, y float64) domain.ImagePoint {
		up := height - y
		return domain.ImagePoint{X: x, Y: y, Lat: coeffs.A1*x + coeffs.B1*up + coeffs.C1, Lon: coeffs.A2*x + coeffs.B2*up + coeffs.C2}
	}

	// the model calibration is not needed
	uc := usecase.NewProjectionUseCase(transform.NewService(nil), 0, 0)

	resp, err := uc.ImageFit(dto.ImageFitRequest{
		Points:      []domain.ImagePoint{pixel(100, 900), pixel(800, 900), pixel(100, 100), pixel(800, 150)},
		ImageHeight: height,
		Screen:      []domain.ScreenPoint{{X: 450, Y: 500}},
		Geo:         []dto.GeoToModelRequest{{Lat: 31.2055, Lon: 121.40465}},
	})
	require.NoError(t, err)

	assert.InDelta(t, coeffs.B1, resp.Coefficients.B1, 1e-15)
	assert.Less(t, resp.Validation.MaxErrorMeters, 1e-6)
	require.Len(t, resp.Geo, 1)
	assert.InDelta(t, 31.2055, resp.Geo[0].Lat, 1e-10)
	assert.InDelta(t, 121.40465, resp.Geo[0].Lon, 1e-10)
	require.Len(t, resp.Screen, 1)
	assert.InDelta(t, 450, resp.Screen[0].X, 1e-4)
	assert.InDelta(t, 500, resp.Screen[0].Y, 1e-4)
	assert.False(t, uc.Calibrated())

	t.Run("geo query out of range", func(t *testing.T) {
		_, err := uc.ImageFit(dto.ImageFitRequest{
			Points:      []domain.ImagePoint{pixel(100, 900), pixel(800, 900), pixel(100, 100)},
			ImageHeight: height,
			Geo:         []dto.GeoToModelRequest{{Lat: 95, Lon: 0}},
		})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidCoordinates))
	})
}
