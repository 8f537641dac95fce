package calibration

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/domain/repository"
	"github.com/twin-calibration/internal/worker"
)

const activationWorkerName = "calibration-activation-sync"

// ActiveReloader - часть CalibrationUseCase, которая перечитывает активную калибровку
type ActiveReloader interface {
	ReloadActive(ctx context.Context) (*domain.Calibration, error)
}

// ActivationWorker читает stream:calibration:done и перезагружает активную калибровку
// в сервис процесса, когда событие сообщает об активации. У каждого процесса своя
// consumer group, поэтому событие получает каждый экземпляр API.
type ActivationWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	uc         ActiveReloader
}

// NewActivationWorker создает ActivationWorker с группой groupPrefix-hostname-pid
func NewActivationWorker(
	streamRepo repository.StreamRepository,
	uc ActiveReloader,
	groupPrefix string,
	logger *zap.Logger,
) *ActivationWorker {
	return &ActivationWorker{
		BaseWorker: worker.NewBaseWorker(activationWorkerName, groupPrefix+"-"+worker.InstanceName(), logger),
		streamRepo: streamRepo,
		uc:         uc,
	}
}

// Start создает consumer group и обрабатывает события до остановки
func (w *ActivationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ActivationWorker", zap.String("consumer_group", w.ConsumerGroup()))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamCalibrationDone, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := w.streamRepo.ConsumeStream(ctx, domain.StreamCalibrationDone, w.ConsumerGroup(), w.ConsumerName())
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			w.HandleMessage(ctx, msg)
		}
	}
}

// HandleMessage обрабатывает одно done-событие. Перезагрузка идемпотентна,
// поэтому сообщение подтверждается и при ошибке.
func (w *ActivationWorker) HandleMessage(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))
	defer func() {
		if err := w.streamRepo.AckMessage(ctx, domain.StreamCalibrationDone, w.ConsumerGroup(), msg.ID); err != nil {
			logger.Error("Failed to ack message", zap.Error(err))
		}
	}()

	var event domain.CalibrationDoneEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		w.MarkProcessed(false)
		return
	}
	if !event.Activated || event.Error != "" {
		return
	}

	cal, err := w.uc.ReloadActive(ctx)
	if err != nil {
		logger.Error("Failed to reload active calibration",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
		w.MarkProcessed(false)
		return
	}
	w.MarkProcessed(true)

	logger.Info("Active calibration synced",
		zap.String("request_id", event.RequestID.String()),
		zap.String("calibration_id", cal.ID.String()))
}
