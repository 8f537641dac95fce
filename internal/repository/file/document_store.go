package file

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/domain/repository"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
)

const correctedPrefix = "fbx-coordinate-calibration-corrected-"

type documentStore struct {
	logger *zap.Logger
}

// NewDocumentStore создает хранилище файлов калибровки на локальном диске
func NewDocumentStore(logger *zap.Logger) repository.DocumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &documentStore{logger: logger}
}

// CorrectedFileName - имя пересчитанного файла для даты t (UTC)
func CorrectedFileName(t time.Time) string {
	return correctedPrefix + t.UTC().Format("2006-01-02") + ".json"
}

func (s *documentStore) Read(path string) (*domain.CalibrationDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calibration file: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.logger.Info("Calibration file read",
		zap.String("path", path),
		zap.Int("points", len(doc.CalibrationPoints)),
		zap.Bool("has_transform", doc.HasTransform()),
	)
	return doc, nil
}

// Write пишет документ во временный файл и переименовывает его, чтобы не оставить обрезанный файл
func (s *documentStore) Write(path string, doc *domain.CalibrationDocument) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".calibration-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename calibration file: %w", err)
	}

	s.logger.Info("Calibration file written", zap.String("path", path))
	return nil
}

// Decode разбирает файл калибровки. Документ без точек отклоняется.
func Decode(r io.Reader) (*domain.CalibrationDocument, error) {
	var doc domain.CalibrationDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.ErrInvalidRequest.WithMessage("invalid calibration file: %v", err)
	}
	if len(doc.CalibrationPoints) == 0 {
		return nil, apperrors.ErrInsufficientData.WithMessage("calibration file has no calibrationPoints")
	}
	return &doc, nil
}

// Encode пишет документ в виде JSON с отступом в два пробела
func Encode(w io.Writer, doc *domain.CalibrationDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode calibration document: %w", err)
	}
	return nil
}
