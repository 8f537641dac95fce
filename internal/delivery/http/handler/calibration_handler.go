package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/pkg/errors"
	"github.com/twin-calibration/internal/pkg/utils"
	"github.com/twin-calibration/internal/pkg/validator"
	"github.com/twin-calibration/internal/usecase"
	"github.com/twin-calibration/internal/usecase/dto"
)

// CalibrationHandler обрабатывает запросы управления калибровками
type CalibrationHandler struct {
	calibrationUC *usecase.CalibrationUseCase
	logger        *zap.Logger
}

// NewCalibrationHandler создает новый экземпляр CalibrationHandler
func NewCalibrationHandler(calibrationUC *usecase.CalibrationUseCase, logger *zap.Logger) *CalibrationHandler {
	return &CalibrationHandler{
		calibrationUC: calibrationUC,
		logger:        logger,
	}
}

// Create godoc
// @Summary Fit a calibration
// @Description Подгоняет аффинное преобразование по точкам, проверяет точность и сохраняет результат
// @Tags Calibrations
// @Accept json
// @Produce json
// @Param request body dto.CreateCalibrationRequest true "Calibration points"
// @Success 201 {object} utils.SuccessResponse{data=dto.CalibrationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/calibrations [post]
func (h *CalibrationHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCalibrationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid body: %v", err))
	}
	if err := validator.ValidateRequest(req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.calibrationUC.Create(c.Context(), req)
	if err != nil {
		h.logger.Warn("Calibration failed", zap.String("name", req.Name), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, resp)
}

// List godoc
// @Summary List calibrations
// @Tags Calibrations
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} utils.SuccessResponse{data=dto.CalibrationListResponse}
// @Router /api/v1/calibrations [get]
func (h *CalibrationHandler) List(c *fiber.Ctx) error {
	resp, err := h.calibrationUC.List(c.Context(), c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, &utils.Meta{Total: resp.Total})
}

// Get godoc
// @Summary Get calibration
// @Tags Calibrations
// @Produce json
// @Param id path string true "Calibration ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Calibration}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/calibrations/{id} [get]
func (h *CalibrationHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	cal, err := h.calibrationUC.Get(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, cal, nil)
}

// GetActive godoc
// @Summary Get active calibration
// @Tags Calibrations
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.Calibration}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/calibrations/active [get]
func (h *CalibrationHandler) GetActive(c *fiber.Ctx) error {
	cal, err := h.calibrationUC.GetActive(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, cal, nil)
}

// Export godoc
// @Summary Export calibration file
// @Description Возвращает файл калибровки в исходном формате
// @Tags Calibrations
// @Produce json
// @Param id path string true "Calibration ID"
// @Success 200 {object} domain.CalibrationDocument
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/calibrations/{id}/export [get]
func (h *CalibrationHandler) Export(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	doc, err := h.calibrationUC.Export(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Attachment("calibration-" + id.String() + ".json")
	return c.JSON(doc)
}

// Activate godoc
// @Summary Activate calibration
// @Description Делает калибровку активной и атомарно переключает на неё сервис преобразований
// @Tags Calibrations
// @Produce json
// @Param id path string true "Calibration ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Calibration}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/calibrations/{id}/activate [post]
func (h *CalibrationHandler) Activate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	cal, err := h.calibrationUC.Activate(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, cal, nil)
}

// Recalculate godoc
// @Summary Queue recalculation
// @Description Ставит пересчёт калибровки в очередь воркера (Redis Streams)
// @Tags Calibrations
// @Accept json
// @Produce json
// @Param id path string true "Calibration ID"
// @Param request body dto.RecalculateRequest false "Options"
// @Success 202 {object} utils.SuccessResponse{data=dto.RecalculateResponse}
// @Router /api/v1/calibrations/{id}/recalculate [post]
func (h *CalibrationHandler) Recalculate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.RecalculateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid body: %v", err))
		}
	}

	resp, err := h.calibrationUC.EnqueueRecalculation(c.Context(), id, req.Activate)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(utils.SuccessResponse{Data: resp})
}

// Delete godoc
// @Summary Delete calibration
// @Tags Calibrations
// @Param id path string true "Calibration ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/calibrations/{id} [delete]
func (h *CalibrationHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := h.calibrationUC.Delete(c.Context(), id); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidRequest.WithMessage("invalid calibration id %q", c.Params("id"))
	}
	return id, nil
}
