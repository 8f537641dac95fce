package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/config"
	"github.com/twin-calibration/internal/delivery/http/handler"
	"github.com/twin-calibration/internal/delivery/http/middleware"
	"github.com/twin-calibration/internal/pkg/utils"
	"github.com/twin-calibration/internal/usecase/dto"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	calibrationHandler *handler.CalibrationHandler
	transformHandler   *handler.TransformHandler
	calibrated         func() bool
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	calibrationHandler *handler.CalibrationHandler,
	transformHandler *handler.TransformHandler,
	calibrated func() bool,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Twin Calibration",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                app,
		config:             cfg,
		logger:             logger,
		calibrationHandler: calibrationHandler,
		transformHandler:   transformHandler,
		calibrated:         calibrated,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App возвращает fiber-приложение (используется в тестах)
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	calibrations := api.Group("/calibrations")
	calibrations.Post("/", s.calibrationHandler.Create)
	calibrations.Get("/", s.calibrationHandler.List)
	// active регистрируется раньше :id
	calibrations.Get("/active", s.calibrationHandler.GetActive)
	calibrations.Get("/:id", s.calibrationHandler.Get)
	calibrations.Get("/:id/export", s.calibrationHandler.Export)
	calibrations.Post("/:id/activate", s.calibrationHandler.Activate)
	calibrations.Post("/:id/recalculate", s.calibrationHandler.Recalculate)
	calibrations.Delete("/:id", s.calibrationHandler.Delete)

	transform := api.Group("/transform")
	transform.Post("/model-to-geo", s.transformHandler.ModelToGeo)
	transform.Post("/geo-to-model", s.transformHandler.GeoToModel)
	transform.Post("/uv", s.transformHandler.UV)
	transform.Post("/heatmap-pixel", s.transformHandler.HeatmapPixel)
	transform.Post("/test", s.transformHandler.TestCoordinate)
	transform.Post("/image-fit", s.transformHandler.ImageFit)

	api.Post("/heatmap/frame", s.transformHandler.HeatmapFrame)
}

// health godoc
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:     "healthy",
		Calibrated: s.calibrated != nil && s.calibrated(),
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}
