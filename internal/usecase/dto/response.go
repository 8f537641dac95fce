package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/twin-calibration/internal/domain"
)

// CalibrationResponse - результат расчёта калибровки
type CalibrationResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	Name               string                    `json:"name"`
	Active             bool                      `json:"active"`
	CreatedAt          time.Time                 `json:"created_at"`
	Coefficients       domain.AffineCoefficients `json:"coefficients"`
	ModelBounds        domain.ModelBounds        `json:"model_bounds"`
	GeoBounds          domain.GeoBounds          `json:"geo_bounds"`
	Validation         *domain.ValidationReport  `json:"validation"`
	UserTestResult     *domain.UserTestResult    `json:"user_test_result,omitempty"`
	TransformationCode string                    `json:"transformation_code"`
}

// CalibrationListResponse - список сохранённых калибровок
type CalibrationListResponse struct {
	Calibrations []domain.CalibrationSummary `json:"calibrations"`
	Total        int                         `json:"total"`
}

// GeoResponse - результат прямого преобразования
type GeoResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ModelResponse - результат обратного преобразования
type ModelResponse struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// HeatmapPixelResponse - пиксель холста с нормализованной координатой
type HeatmapPixelResponse struct {
	UV     domain.UVCoordinate `json:"uv"`
	Pixel  domain.HeatmapPixel `json:"pixel"`
	Width  int                 `json:"width"`
	Height int                 `json:"height"`
}

// ImageFitResponse - коэффициенты калибровки изображения и преобразованные точки.
// В Validation координаты точек указаны с осью Y вверх.
type ImageFitResponse struct {
	Coefficients    domain.AffineCoefficients `json:"coefficients"`
	Determinant     float64                   `json:"determinant"`
	ConditionNumber float64                   `json:"condition_number"`
	ImageHeight     float64                   `json:"image_height"`
	Validation      *domain.ValidationReport  `json:"validation"`
	Geo             []GeoResponse             `json:"geo,omitempty"`
	Screen          []domain.ScreenPoint      `json:"screen,omitempty"`
}

// RecalculateResponse - идентификатор запроса на пересчёт
type RecalculateResponse struct {
	RequestID string `json:"request_id"`
	StreamID  string `json:"stream_id"`
}

// HealthResponse - состояние сервиса
type HealthResponse struct {
	Status     string `json:"status"`
	Calibrated bool   `json:"calibrated"`
}
