package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/twin-calibration/internal/config"
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

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true and REDIS_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Calibration Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Duration("stream_read_timeout", cfg.Worker.StreamReadTimeout),
		zap.Int("batch_size", cfg.Worker.BatchSize))

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

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log, redisRepo.StreamOptions{
		Block:     cfg.Worker.StreamReadTimeout,
		BatchSize: cfg.Worker.BatchSize,
	})

	// 6. Initialize use cases. У воркера свой экземпляр сервиса: API узнаёт об активации из stream:calibration:done.
	calibrationUC := usecase.NewCalibrationUseCase(
		sqldb.NewCalibrationRepository(db),
		cache.NewCacheRepository(redisClient),
		streamRepo,
		file.NewDocumentStore(log),
		transform.NewService(log),
		usecase.CalibrationOptions{
			CacheTTL:      cfg.Cache.CalibrationCacheTTL,
			HeatmapWidth:  cfg.Heatmap.Width,
			HeatmapHeight: cfg.Heatmap.Height,
		},
		log,
	)

	// 7. Register workers
	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(calibration.NewRecalibrationWorker(
		streamRepo,
		calibrationUC,
		cfg.Worker.ConsumerGroup,
		log,
	))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
