package dto

import (
	"github.com/twin-calibration/internal/domain"
)

// CreateCalibrationRequest - запрос на расчёт калибровки по набору точек
type CreateCalibrationRequest struct {
	Name     string                    `json:"name" validate:"required,max=200"`
	Points   []domain.CalibrationPoint `json:"points" validate:"required,min=3,max=1000,dive"`
	Bounds   *domain.ModelBounds       `json:"bounds,omitempty"`
	Activate bool                      `json:"activate"`
}

// ModelToGeoRequest - координата модели на плоскости XZ
type ModelToGeoRequest struct {
	X float64 `json:"x" validate:"finite"`
	Z float64 `json:"z" validate:"finite"`
}

// GeoToModelRequest - географическая координата
type GeoToModelRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// UVRequest - точка для проекции в UV: задаётся ровно одно из geo и model
type UVRequest struct {
	Geo   *GeoToModelRequest `json:"geo,omitempty"`
	Model *ModelToGeoRequest `json:"model,omitempty"`
}

// HasSinglePoint сообщает, задана ли ровно одна из координат
func (r UVRequest) HasSinglePoint() bool {
	return (r.Geo == nil) != (r.Model == nil)
}

// HeatmapPixelRequest - точка и размер холста. Нулевой размер заменяется значением по умолчанию.
type HeatmapPixelRequest struct {
	UVRequest
	Width  int `json:"width" validate:"omitempty,min=1,max=8192"`
	Height int `json:"height" validate:"omitempty,min=1,max=8192"`
}

// HeatmapFrameRequest - набор значений плотности для проекции на холст
type HeatmapFrameRequest struct {
	Samples []domain.DensitySample `json:"samples" validate:"required,min=1,max=100000"`
	Width   int                    `json:"width" validate:"omitempty,min=1,max=8192"`
	Height  int                    `json:"height" validate:"omitempty,min=1,max=8192"`
}

// RecalculateRequest - постановка пересчёта калибровки в очередь
type RecalculateRequest struct {
	Activate bool `json:"activate"`
}

// ImageFitRequest - калибровка по пикселям изображения и преобразование точек по ней.
// Screen переводится в широту/долготу, Geo - в пиксели.
type ImageFitRequest struct {
	Points      []domain.ImagePoint  `json:"points" validate:"required,min=3,max=1000,dive"`
	ImageHeight float64              `json:"image_height" validate:"gt=0,finite"`
	Screen      []domain.ScreenPoint `json:"screen,omitempty" validate:"max=10000,dive"`
	Geo         []GeoToModelRequest  `json:"geo,omitempty" validate:"max=10000,dive"`
}
