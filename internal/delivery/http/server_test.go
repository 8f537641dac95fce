package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/config"
	httpdelivery "github.com/twin-calibration/internal/delivery/http"
	"github.com/twin-calibration/internal/delivery/http/handler"
	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/repository/file"
	"github.com/twin-calibration/internal/repository/sqldb"
	"github.com/twin-calibration/internal/repository/sqldb/testhelpers"
	"github.com/twin-calibration/internal/transform"
	"github.com/twin-calibration/internal/usecase"
)

var coeffs = domain.AffineCoefficients{
	A1: 1.0058368e-5, B1: 3.897104e-6, C1: 31.239836286743987,
	A2: -4.47792356e-6, B2: 1.1466107e-5, C2: 121.48174634639462,
}

func cornerPoints() []domain.CalibrationPoint {
	xs := []float64{-292.64232281821876, 106.19976971292328}
	zs := []float64{160.30996285669252, 812.9764577390581}
	var points []domain.CalibrationPoint
	for _, x := range xs {
		for _, z := range zs {
			points = append(points, domain.CalibrationPoint{
				ModelX: x,
				ModelZ: z,
				Lat:    coeffs.A1*x + coeffs.B1*z + coeffs.C1,
				Lon:    coeffs.A2*x + coeffs.B2*z + coeffs.C2,
			})
		}
	}
	return points
}

func newTestServer(t *testing.T) *httpdelivery.Server {
	t.Helper()
	tdb := testhelpers.SetupSQLite(t)
	t.Cleanup(tdb.Close)

	logger := zap.NewNop()
	svc := transform.NewService(logger)
	calibrationUC := usecase.NewCalibrationUseCase(
		sqldb.NewCalibrationRepository(tdb.Wrap()),
		nil,
		nil,
		file.NewDocumentStore(logger),
		svc,
		usecase.CalibrationOptions{HeatmapWidth: 250, HeatmapHeight: 250},
		logger,
	)
	projectionUC := usecase.NewProjectionUseCase(svc, 250, 250)

	cfg := &config.Config{Server: config.ServerConfig{AllowOrigins: "*"}}
	return httpdelivery.NewServer(
		cfg,
		logger,
		handler.NewCalibrationHandler(calibrationUC, logger),
		handler.NewTransformHandler(projectionUC, logger),
		projectionUC.Calibrated,
	)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string                 `json:"code"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func do(t *testing.T, srv *httpdelivery.Server, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var health struct {
		Status     string `json:"status"`
		Calibrated bool   `json:"calibrated"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", health.Status)
	assert.False(t, health.Calibrated)
}

func TestServer_TransformBeforeCalibration(t *testing.T) {
	srv := newTestServer(t)

	status, env := do(t, srv, http.MethodPost, "/api/v1/transform/model-to-geo", map[string]float64{"x": 1, "z": 2})
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_CALIBRATED", env.Error.Code)
}

func TestServer_CalibrationFlow(t *testing.T) {
	srv := newTestServer(t)

	status, env := do(t, srv, http.MethodPost, "/api/v1/calibrations", map[string]interface{}{
		"name":     "plant",
		"points":   cornerPoints(),
		"activate": true,
	})
	require.Equal(t, http.StatusCreated, status)

	var created struct {
		ID     string `json:"id"`
		Active bool   `json:"active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.Active)
	require.NotEmpty(t, created.ID)

	t.Run("transforms use the active calibration", func(t *testing.T) {
		status, env := do(t, srv, http.MethodPost, "/api/v1/transform/model-to-geo", map[string]float64{
			"x": -72.40295394451705, "z": 812.9764577390581,
		})
		require.Equal(t, http.StatusOK, status)

		var geo struct{ Lat, Lon float64 }
		require.NoError(t, json.Unmarshal(env.Data, &geo))
		assert.InDelta(t, coeffs.A1*-72.40295394451705+coeffs.B1*812.9764577390581+coeffs.C1, geo.Lat, 1e-9)

		status, env = do(t, srv, http.MethodPost, "/api/v1/transform/heatmap-pixel", map[string]interface{}{
			"geo": map[string]float64{"lat": 31.2382, "lon": 121.486697},
		})
		require.Equal(t, http.StatusOK, status)
		var px struct {
			Pixel struct{ X, Y int } `json:"pixel"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &px))
		assert.Equal(t, 3, px.Pixel.X)
		assert.Equal(t, 188, px.Pixel.Y)
	})

	t.Run("active and export", func(t *testing.T) {
		status, _ := do(t, srv, http.MethodGet, "/api/v1/calibrations/active", nil)
		assert.Equal(t, http.StatusOK, status)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/calibrations/"+created.ID+"/export", nil)
		resp, err := srv.App().Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

		var doc domain.CalibrationDocument
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		assert.Len(t, doc.CalibrationPoints, 4)
		assert.Equal(t, domain.DocumentVersion, doc.Version)
	})

	t.Run("list", func(t *testing.T) {
		status, env := do(t, srv, http.MethodGet, "/api/v1/calibrations?limit=10", nil)
		require.Equal(t, http.StatusOK, status)
		var list struct {
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Equal(t, 1, list.Total)
	})

	t.Run("active calibration cannot be deleted", func(t *testing.T) {
		status, env := do(t, srv, http.MethodDelete, "/api/v1/calibrations/"+created.ID, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
	})

	t.Run("recalculate without streams", func(t *testing.T) {
		status, _ := do(t, srv, http.MethodPost, "/api/v1/calibrations/"+created.ID+"/recalculate", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestServer_Errors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"too few points", http.MethodPost, "/api/v1/calibrations", map[string]interface{}{
			"name": "x", "points": cornerPoints()[:2],
		}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing name", http.MethodPost, "/api/v1/calibrations", map[string]interface{}{
			"points": cornerPoints(),
		}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad id", http.MethodGet, "/api/v1/calibrations/not-a-uuid", nil, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown id", http.MethodGet, "/api/v1/calibrations/7d444840-9dc0-11d1-b245-5ffdce74fad2", nil,
			http.StatusNotFound, "CALIBRATION_NOT_FOUND"},
		{"no active", http.MethodGet, "/api/v1/calibrations/active", nil, http.StatusNotFound, "CALIBRATION_NOT_FOUND"},
		{"latitude out of range", http.MethodPost, "/api/v1/transform/geo-to-model", map[string]float64{
			"lat": 120, "lon": 0,
		}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"uv with no point", http.MethodPost, "/api/v1/transform/uv", map[string]interface{}{},
			http.StatusBadRequest, "INVALID_REQUEST"},
		{"empty frame", http.MethodPost, "/api/v1/heatmap/frame", map[string]interface{}{"samples": []interface{}{}},
			http.StatusBadRequest, "INVALID_REQUEST"},
		{"image without height", http.MethodPost, "/api/v1/transform/image-fit", map[string]interface{}{
			"points": []map[string]float64{{"x": 0, "y": 0}, {"x": 1, "y": 0}, {"x": 0, "y": 1}},
		}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown route", http.MethodGet, "/api/v1/nope", nil, http.StatusNotFound, "HTTP_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestServer_DegenerateCalibration(t *testing.T) {
	srv := newTestServer(t)

	collinear := []domain.CalibrationPoint{
		{ModelX: 0, ModelZ: 0, Lat: 31, Lon: 121},
		{ModelX: 1, ModelZ: 1, Lat: 31.1, Lon: 121.1},
		{ModelX: 2, ModelZ: 2, Lat: 31.2, Lon: 121.2},
	}
	status, env := do(t, srv, http.MethodPost, "/api/v1/calibrations", map[string]interface{}{
		"name": "line", "points": collinear,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, []string{"SINGULAR_MATRIX", "DEGENERATE_TRANSFORM"}, env.Error.Code)
}

func TestServer_ImageFit(t *testing.T) {
	srv := newTestServer(t)

	// lat = 1e-5·x + 31.2, lon = 1e-5·(800 − y) + 121.4 on an 800 px tall image
	status, env := do(t, srv, http.MethodPost, "/api/v1/transform/image-fit", map[string]interface{}{
		"image_height": 800,
		"points": []map[string]float64{
			{"x": 0, "y": 800, "lat": 31.2, "lon": 121.4},
			{"x": 600, "y": 800, "lat": 31.206, "lon": 121.4},
			{"x": 0, "y": 0, "lat": 31.2, "lon": 121.408},
		},
		"screen": []map[string]float64{{"x": 300, "y": 400}},
	})
	require.Equal(t, http.StatusOK, status)

	var fit struct {
		Geo []struct{ Lat, Lon float64 } `json:"geo"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fit))
	require.Len(t, fit.Geo, 1)
	assert.InDelta(t, 31.203, fit.Geo[0].Lat, 1e-9)
	assert.InDelta(t, 121.404, fit.Geo[0].Lon, 1e-9)

	status, env = do(t, srv, http.MethodPost, "/api/v1/transform/image-fit", map[string]interface{}{
		"image_height": 800,
		"points": []map[string]float64{
			{"x": 0, "y": 100, "lat": 31.2, "lon": 121.4},
			{"x": 10, "y": 100, "lat": 31.3, "lon": 121.4},
			{"x": 20, "y": 100, "lat": 31.4, "lon": 121.4},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SINGULAR_MATRIX", env.Error.Code)
}
