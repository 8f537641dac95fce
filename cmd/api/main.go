package main

// @title Twin Calibration API
// @version 2.0.0
// @description Калибровка цифрового двойника: аффинное преобразование между координатами 3D-модели (X, Z) и WGS84.
// @description
// @description Основные возможности:
// @description - Подгонка калибровки по точкам и оценка точности в метрах
// @description - Хранение калибровок и атомарное переключение активной
// @description - Преобразования model ↔ geo, UV и пиксели тепловой карты
// @description - Фоновый пересчёт через Redis Streams

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/twin-calibration/docs"
	"github.com/twin-calibration/internal/config"
	httpDelivery "github.com/twin-calibration/internal/delivery/http"
	"github.com/twin-calibration/internal/delivery/http/handler"
	"github.com/twin-calibration/internal/domain/repository"
	"github.com/twin-calibration/internal/pkg/logger"
	"github.com/twin-calibration/internal/repository/cache"
	"github.com/twin-calibration/internal/repository/file"
	redisRepo "github.com/twin-calibration/internal/repository/redis"
	"github.com/twin-calibration/internal/repository/sqldb"
	"github.com/twin-calibration/internal/transform"
	"github.com/twin-calibration/internal/usecase"
	"github.com/twin-calibration/internal/worker"
	"github.com/twin-calibration/internal/worker/calibration"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Twin Calibration API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 3. Connect to database
	db, err := sqldb.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis (optional)
	var (
		cacheRepo  repository.CacheRepository
		streamRepo repository.StreamRepository
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		cacheRepo = cache.NewCacheRepository(redisClient)
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log, redisRepo.StreamOptions{
			Block:     cfg.Worker.StreamReadTimeout,
			BatchSize: cfg.Worker.BatchSize,
		})
		log.Info("Redis connected")
	}

	// 5. Initialize use cases
	service := transform.NewService(log)
	calibrationUC := usecase.NewCalibrationUseCase(
		sqldb.NewCalibrationRepository(db),
		cacheRepo,
		streamRepo,
		file.NewDocumentStore(log),
		service,
		usecase.CalibrationOptions{
			CacheTTL:      cfg.Cache.CalibrationCacheTTL,
			HeatmapWidth:  cfg.Heatmap.Width,
			HeatmapHeight: cfg.Heatmap.Height,
		},
		log,
	)
	projectionUC := usecase.NewProjectionUseCase(service, cfg.Heatmap.Width, cfg.Heatmap.Height)

	// 6. Restore active calibration
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := calibrationUC.Bootstrap(ctx, cfg.Bootstrap.CalibrationFile); err != nil {
		log.Warn("Starting uncalibrated", zap.Error(err))
	}
	cancel()

	// 7. Follow activations made by the worker and other API instances
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	var workerManager *worker.WorkerManager
	if streamRepo != nil {
		workerManager = worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
		workerManager.Register(calibration.NewActivationWorker(
			streamRepo,
			calibrationUC,
			cfg.Worker.SyncGroupPrefix,
			log,
		))
		if err := workerManager.Start(workerCtx); err != nil {
			log.Fatal("Failed to start activation sync", zap.Error(err))
		}
	}

	// 8. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewCalibrationHandler(calibrationUC, log),
		handler.NewTransformHandler(projectionUC, log),
		projectionUC.Calibrated,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.Bool("calibrated", service.IsCalibrated()),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if workerManager != nil {
		stopWorkers()
		if err := workerManager.Stop(); err != nil {
			log.Error("Error stopping workers", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
