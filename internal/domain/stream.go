package domain

import "github.com/google/uuid"

// Имена стримов
const (
	StreamCalibrationRecalculate = "stream:calibration:recalculate"
	StreamCalibrationDone        = "stream:calibration:done"
)

// RecalculateEvent - запрос на пересчёт калибровки. Если CalibrationID задан,
// пересчитываются точки сохранённой калибровки, иначе используются Points.
type RecalculateEvent struct {
	RequestID     uuid.UUID          `json:"request_id"`
	CalibrationID *uuid.UUID         `json:"calibration_id,omitempty"`
	Name          string             `json:"name,omitempty"`
	Points        []CalibrationPoint `json:"points,omitempty"`
	Activate      bool               `json:"activate"`
}

// CalibrationDoneEvent - результат пересчёта
type CalibrationDoneEvent struct {
	RequestID     uuid.UUID  `json:"request_id"`
	CalibrationID *uuid.UUID `json:"calibration_id,omitempty"`
	AverageError  float64    `json:"average_error"`
	MaxError      float64    `json:"max_error"`
	Activated     bool       `json:"activated"`
	ErrorCode     string     `json:"error_code,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
