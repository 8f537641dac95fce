package calibration

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/domain/repository"
	"github.com/twin-calibration/internal/pkg/errors"
	"github.com/twin-calibration/internal/worker"
)

const workerName = "calibration-recalculate"

// Recalibrator - часть CalibrationUseCase, нужная воркеру
type Recalibrator interface {
	Recalculate(ctx context.Context, id uuid.UUID, activate bool) (*domain.Calibration, error)
	CreateFromPoints(ctx context.Context, name string, points []domain.CalibrationPoint, activate bool) (*domain.Calibration, error)
}

// RecalibrationWorker читает stream:calibration:recalculate, пересчитывает калибровку
// и публикует результат в stream:calibration:done
type RecalibrationWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	uc         Recalibrator
}

// NewRecalibrationWorker создает новый RecalibrationWorker
func NewRecalibrationWorker(
	streamRepo repository.StreamRepository,
	uc Recalibrator,
	consumerGroup string,
	logger *zap.Logger,
) *RecalibrationWorker {
	return &RecalibrationWorker{
		BaseWorker: worker.NewBaseWorker(workerName, consumerGroup, logger),
		streamRepo: streamRepo,
		uc:         uc,
	}
}

// Start создает consumer group и обрабатывает сообщения до остановки
func (w *RecalibrationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting RecalibrationWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamCalibrationRecalculate, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := w.streamRepo.ConsumeStream(ctx, domain.StreamCalibrationRecalculate, w.ConsumerGroup(), w.ConsumerName())
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

// HandleMessage обрабатывает одно сообщение. Сообщение подтверждается всегда:
// ошибка пересчёта не исправится повторной попыткой и уходит в done-событие.
func (w *RecalibrationWorker) HandleMessage(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))
	defer func() {
		if err := w.streamRepo.AckMessage(ctx, domain.StreamCalibrationRecalculate, w.ConsumerGroup(), msg.ID); err != nil {
			logger.Error("Failed to ack message", zap.Error(err))
		}
	}()

	var event domain.RecalculateEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		w.MarkProcessed(false)
		return
	}

	done := w.process(ctx, &event)
	w.MarkProcessed(done.Error == "")

	if _, err := w.streamRepo.PublishToStream(ctx, domain.StreamCalibrationDone, done); err != nil {
		logger.Error("Failed to publish done event",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
	}
}

func (w *RecalibrationWorker) process(ctx context.Context, event *domain.RecalculateEvent) *domain.CalibrationDoneEvent {
	done := &domain.CalibrationDoneEvent{RequestID: event.RequestID}

	var (
		cal *domain.Calibration
		err error
	)
	switch {
	case event.CalibrationID != nil:
		cal, err = w.uc.Recalculate(ctx, *event.CalibrationID, event.Activate)
	case len(event.Points) > 0:
		name := event.Name
		if name == "" {
			name = "recalculated " + event.RequestID.String()
		}
		cal, err = w.uc.CreateFromPoints(ctx, name, event.Points, event.Activate)
	default:
		err = errors.ErrInvalidRequest.WithMessage("event has neither calibration_id nor points")
	}

	if err != nil {
		w.Logger().Warn("Recalculation failed",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
		done.Error = err.Error()
		done.ErrorCode = errors.ErrInternalServer.Code
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			done.ErrorCode = appErr.Code
			done.Error = appErr.Message
		}
		return done
	}

	id := cal.ID
	done.CalibrationID = &id
	done.Activated = cal.Active
	if tm := cal.Document.TransformationMatrix; tm != nil {
		done.AverageError = tm.AverageError
		done.MaxError = tm.MaxError
	}

	w.Logger().Info("Calibration recalculated",
		zap.String("request_id", event.RequestID.String()),
		zap.String("calibration_id", id.String()),
		zap.Float64("average_error", done.AverageError),
		zap.Float64("max_error", done.MaxError))
	return done
}
