package repository

import "github.com/twin-calibration/internal/domain"

// DocumentStore читает и пишет файлы калибровки
type DocumentStore interface {
	Read(path string) (*domain.CalibrationDocument, error)
	Write(path string, doc *domain.CalibrationDocument) error
}
