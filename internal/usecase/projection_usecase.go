package usecase

import (
	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/pkg/errors"
	"github.com/twin-calibration/internal/pkg/utils"
	"github.com/twin-calibration/internal/solver"
	"github.com/twin-calibration/internal/transform"
	"github.com/twin-calibration/internal/usecase/dto"
)

// ProjectionUseCase обслуживает запросы преобразования координат по текущей калибровке
type ProjectionUseCase struct {
	service       *transform.Service
	defaultWidth  int
	defaultHeight int
}

func NewProjectionUseCase(service *transform.Service, width, height int) *ProjectionUseCase {
	if width <= 0 {
		width = domain.DefaultHeatmapWidth
	}
	if height <= 0 {
		height = domain.DefaultHeatmapHeight
	}
	return &ProjectionUseCase{
		service:       service,
		defaultWidth:  width,
		defaultHeight: height,
	}
}

func (uc *ProjectionUseCase) ModelToGeo(req dto.ModelToGeoRequest) (*dto.GeoResponse, error) {
	p, err := uc.service.ModelToGeo(req.X, req.Z)
	if err != nil {
		return nil, err
	}
	return &dto.GeoResponse{Lat: p.Lat, Lon: p.Lon}, nil
}

func (uc *ProjectionUseCase) GeoToModel(req dto.GeoToModelRequest) (*dto.ModelResponse, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	p, err := uc.service.GeoToModel(req.Lat, req.Lon)
	if err != nil {
		return nil, err
	}
	return &dto.ModelResponse{X: p.X, Z: p.Z}, nil
}

// UV переводит гео- или модельную точку в нормализованные координаты
func (uc *ProjectionUseCase) UV(req dto.UVRequest) (*domain.UVCoordinate, error) {
	if !req.HasSinglePoint() {
		return nil, errors.ErrInvalidRequest.WithMessage("exactly one of geo and model must be set")
	}

	var (
		uv  domain.UVCoordinate
		err error
	)
	if req.Geo != nil {
		if !utils.ValidateCoordinates(req.Geo.Lat, req.Geo.Lon) {
			return nil, errors.ErrInvalidCoordinates
		}
		uv, err = uc.service.GeoToUV(req.Geo.Lat, req.Geo.Lon)
	} else {
		uv, err = uc.service.XZToUV(req.Model.X, req.Model.Z)
	}
	if err != nil {
		return nil, err
	}
	return &uv, nil
}

// HeatmapPixel переводит точку в пиксель холста заданного или настроенного размера
func (uc *ProjectionUseCase) HeatmapPixel(req dto.HeatmapPixelRequest) (*dto.HeatmapPixelResponse, error) {
	uv, err := uc.UV(req.UVRequest)
	if err != nil {
		return nil, err
	}

	width, height := uc.canvas(req.Width, req.Height)
	return &dto.HeatmapPixelResponse{
		UV:     *uv,
		Pixel:  transform.ToHeatmapPixel(*uv, width, height),
		Width:  width,
		Height: height,
	}, nil
}

// Frame проецирует набор значений плотности в кадр тепловой карты
func (uc *ProjectionUseCase) Frame(req dto.HeatmapFrameRequest) (*domain.HeatmapFrame, error) {
	width, height := uc.canvas(req.Width, req.Height)
	return uc.service.ProjectFrame(req.Samples, width, height)
}

// TestCoordinate - круговая проверка произвольной координаты на текущей калибровке
func (uc *ProjectionUseCase) TestCoordinate(req dto.GeoToModelRequest) (*domain.UserTestResult, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	return uc.service.TestCoordinate(req.Lat, req.Lon, uc.defaultWidth, uc.defaultHeight)
}

// ImageFit подбирает калибровку по пикселям изображения и переводит по ней точки.
// Текущая калибровка модели не используется и не меняется.
func (uc *ProjectionUseCase) ImageFit(req dto.ImageFitRequest) (*dto.ImageFitResponse, error) {
	fit, err := solver.FitImage(req.Points, req.ImageHeight)
	if err != nil {
		return nil, err
	}
	cal, err := transform.NewImageCalibration(fit.Coefficients, req.ImageHeight)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImageFitResponse{
		Coefficients:    fit.Coefficients,
		Determinant:     fit.Determinant,
		ConditionNumber: fit.ConditionNumber,
		ImageHeight:     req.ImageHeight,
		Validation:      transform.Validate(solver.FlipImagePoints(req.Points, req.ImageHeight), fit.Coefficients),
	}
	for _, p := range req.Screen {
		g := cal.ScreenToGeo(p.X, p.Y)
		resp.Geo = append(resp.Geo, dto.GeoResponse{Lat: g.Lat, Lon: g.Lon})
	}
	for _, g := range req.Geo {
		if !utils.ValidateCoordinates(g.Lat, g.Lon) {
			return nil, errors.ErrInvalidCoordinates
		}
		p, err := cal.GeoToScreen(g.Lat, g.Lon)
		if err != nil {
			return nil, err
		}
		resp.Screen = append(resp.Screen, p)
	}
	return resp, nil
}

// Calibrated сообщает, загружена ли калибровка
func (uc *ProjectionUseCase) Calibrated() bool {
	return uc.service.IsCalibrated()
}

func (uc *ProjectionUseCase) canvas(width, height int) (int, int) {
	if width <= 0 {
		width = uc.defaultWidth
	}
	if height <= 0 {
		height = uc.defaultHeight
	}
	return width, height
}
