package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DocumentVersion - версия формата файла калибровки
	DocumentVersion = "2.0"
	// MethodAffine - единственный поддерживаемый метод преобразования
	MethodAffine = "affine"
)

// TransformationMatrix - параметры подгонки в файле калибровки
type TransformationMatrix struct {
	ModelBounds  ModelBounds        `json:"modelBounds"`
	GeoBounds    GeoBounds          `json:"geoBounds"`
	AffineCoeffs AffineCoefficients `json:"affineCoeffs"`
	PointCount   int                `json:"pointCount"`
	AverageError float64            `json:"averageError"`
	MaxError     float64            `json:"maxError"`
	Method       string             `json:"method"`
}

// CalibrationDocument - файл калибровки, единственный долговременный артефакт движка
type CalibrationDocument struct {
	CalibrationPoints    []CalibrationPoint    `json:"calibrationPoints"`
	TransformationMatrix *TransformationMatrix `json:"transformationMatrix,omitempty"`
	ModelBounds          *ModelBounds          `json:"modelBounds,omitempty"`
	GeoBounds            *GeoBounds            `json:"geoBounds,omitempty"`
	TransformationCode   string                `json:"transformationCode,omitempty"`
	ExportTime           time.Time             `json:"exportTime"`
	Version              string                `json:"version,omitempty"`
	Recalculated         bool                  `json:"recalculated"`
	UserTestResult       *UserTestResult       `json:"userTestResult,omitempty"`
}

// HasTransform проверяет, содержит ли документ рассчитанное преобразование
func (d *CalibrationDocument) HasTransform() bool {
	return d.TransformationMatrix != nil && d.TransformationMatrix.Method == MethodAffine
}

// Calibration - сохранённая калибровка
type Calibration struct {
	ID        uuid.UUID           `json:"id" db:"id"`
	Name      string              `json:"name" db:"name"`
	Document  CalibrationDocument `json:"document"`
	Active    bool                `json:"active" db:"active"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
}

// CalibrationSummary - краткая информация о калибровке для списков
type CalibrationSummary struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	PointCount   int       `json:"point_count" db:"point_count"`
	AverageError float64   `json:"average_error" db:"average_error"`
	MaxError     float64   `json:"max_error" db:"max_error"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
