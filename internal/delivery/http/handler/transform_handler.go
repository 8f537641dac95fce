package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/pkg/errors"
	"github.com/twin-calibration/internal/pkg/utils"
	"github.com/twin-calibration/internal/pkg/validator"
	"github.com/twin-calibration/internal/usecase"
	"github.com/twin-calibration/internal/usecase/dto"
)

// TransformHandler обрабатывает запросы преобразования координат
type TransformHandler struct {
	projectionUC *usecase.ProjectionUseCase
	logger       *zap.Logger
}

// NewTransformHandler создает новый экземпляр TransformHandler
func NewTransformHandler(projectionUC *usecase.ProjectionUseCase, logger *zap.Logger) *TransformHandler {
	return &TransformHandler{
		projectionUC: projectionUC,
		logger:       logger,
	}
}

// ModelToGeo godoc
// @Summary Model XZ to lat/lon
// @Tags Transform
// @Accept json
// @Produce json
// @Param request body dto.ModelToGeoRequest true "Model point"
// @Success 200 {object} utils.SuccessResponse{data=dto.GeoResponse}
// @Failure 409 {object} utils.ErrorResponse "Not calibrated"
// @Router /api/v1/transform/model-to-geo [post]
func (h *TransformHandler) ModelToGeo(c *fiber.Ctx) error {
	var req dto.ModelToGeoRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.projectionUC.ModelToGeo(req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, nil)
}

// GeoToModel godoc
// @Summary Lat/lon to model XZ
// @Tags Transform
// @Accept json
// @Produce json
// @Param request body dto.GeoToModelRequest true "Geographic point"
// @Success 200 {object} utils.SuccessResponse{data=dto.ModelResponse}
// @Failure 409 {object} utils.ErrorResponse "Not calibrated"
// @Router /api/v1/transform/geo-to-model [post]
func (h *TransformHandler) GeoToModel(c *fiber.Ctx) error {
	var req dto.GeoToModelRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.projectionUC.GeoToModel(req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, nil)
}

// UV godoc
// @Summary Point to UV
// @Description Принимает ровно одно из geo и model, возвращает нормализованные UV с перевёрнутой осью V
// @Tags Transform
// @Accept json
// @Produce json
// @Param request body dto.UVRequest true "Point"
// @Success 200 {object} utils.SuccessResponse{data=domain.UVCoordinate}
// @Router /api/v1/transform/uv [post]
func (h *TransformHandler) UV(c *fiber.Ctx) error {
	var req dto.UVRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.projectionUC.UV(req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, nil)
}

// HeatmapPixel godoc
// @Summary Point to heatmap pixel
// @Tags Transform
// @Accept json
// @Produce json
// @Param request body dto.HeatmapPixelRequest true "Point and canvas"
// @Success 200 {object} utils.SuccessResponse{data=dto.HeatmapPixelResponse}
// @Router /api/v1/transform/heatmap-pixel [post]
func (h *TransformHandler) HeatmapPixel(c *fiber.Ctx) error {
	var req dto.HeatmapPixelRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.projectionUC.HeatmapPixel(req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, nil)
}

// TestCoordinate godoc
// @Summary Round-trip check of a coordinate
// @Tags Transform
// @Accept json
// @Produce json
// @Param request body dto.GeoToModelRequest true "Geographic point"
// @Success 200 {object} utils.SuccessResponse{data=domain.UserTestResult}
// @Router /api/v1/transform/test [post]
func (h *TransformHandler) TestCoordinate(c *fiber.Ctx) error {
	var req dto.GeoToModelRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.projectionUC.TestCoordinate(req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, nil)
}

// ImageFit godoc
// @Summary Fit an image calibration
// @Description Подбирает преобразование по пикселям изображения (ось Y вниз) и переводит переданные точки screen ↔ geo.
// @Description Текущая калибровка модели не используется.
// @Tags Transform
// @Accept json
// @Produce json
// @Param request body dto.ImageFitRequest true "Control points and queries"
// @Success 200 {object} utils.SuccessResponse{data=dto.ImageFitResponse}
// @Failure 422 {object} utils.ErrorResponse "Singular or degenerate fit"
// @Router /api/v1/transform/image-fit [post]
func (h *TransformHandler) ImageFit(c *fiber.Ctx) error {
	var req dto.ImageFitRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.projectionUC.ImageFit(req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, nil)
}

// HeatmapFrame godoc
// @Summary Project density samples
// @Description Проецирует значения плотности в кадр тепловой карты {max, data}
// @Tags Heatmap
// @Accept json
// @Produce json
// @Param request body dto.HeatmapFrameRequest true "Samples"
// @Success 200 {object} utils.SuccessResponse{data=domain.HeatmapFrame}
// @Router /api/v1/heatmap/frame [post]
func (h *TransformHandler) HeatmapFrame(c *fiber.Ctx) error {
	var req dto.HeatmapFrameRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	frame, err := h.projectionUC.Frame(req)
	if err != nil {
		return utils.SendError(c, err)
	}

	h.logger.Debug("Heatmap frame projected", zap.Int("samples", len(req.Samples)), zap.Float64("max", frame.Max))
	return utils.SendSuccess(c, frame, &utils.Meta{Total: len(frame.Data)})
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.ErrInvalidRequest.WithMessage("invalid body: %v", err)
	}
	return validator.ValidateRequest(out)
}
