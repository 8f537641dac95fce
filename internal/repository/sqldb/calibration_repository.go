package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/domain/repository"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type calibrationRow struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Document     string    `db:"document"`
	AverageError float64   `db:"average_error"`
	MaxError     float64   `db:"max_error"`
	PointCount   int       `db:"point_count"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
}

type calibrationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewCalibrationRepository создает новый экземпляр CalibrationRepository
func NewCalibrationRepository(db *DB) repository.CalibrationRepository {
	return &calibrationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Save вставляет или обновляет калибровку
func (r *calibrationRepository) Save(ctx context.Context, cal *domain.Calibration) error {
	row, err := toRow(cal)
	if err != nil {
		return err
	}

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if row.Active {
			if err := deactivateAll(ctx, tx); err != nil {
				return err
			}
		}

		query := tx.Rebind(`
			INSERT INTO calibrations
				(id, name, document, average_error, max_error, point_count, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				document = excluded.document,
				average_error = excluded.average_error,
				max_error = excluded.max_error,
				point_count = excluded.point_count,
				active = excluded.active
		`)
		_, err := tx.ExecContext(ctx, query,
			row.ID, row.Name, row.Document, row.AverageError, row.MaxError,
			row.PointCount, row.Active, row.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to save calibration", zap.String("id", row.ID.String()), zap.Error(err))
			return apperrors.ErrDatabaseError
		}
		return nil
	})
}

// GetByID возвращает калибровку по ID
func (r *calibrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Calibration, error) {
	var row calibrationRow
	query := r.db.Rebind(`
		SELECT id, name, document, average_error, max_error, point_count, active, created_at
		FROM calibrations
		WHERE id = ?
	`)

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrCalibrationNotFound.WithDetails(map[string]interface{}{"id": id.String()})
	}
	if err != nil {
		r.logger.Error("Failed to get calibration by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return fromRow(&row)
}

// GetActive возвращает активную калибровку
func (r *calibrationRepository) GetActive(ctx context.Context) (*domain.Calibration, error) {
	var row calibrationRow
	query := r.db.Rebind(`
		SELECT id, name, document, average_error, max_error, point_count, active, created_at
		FROM calibrations
		WHERE active = ?
		ORDER BY created_at DESC
		LIMIT 1
	`)

	err := r.db.GetContext(ctx, &row, query, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrCalibrationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get active calibration", zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return fromRow(&row)
}

// List возвращает калибровки без документов, новые первыми
func (r *calibrationRepository) List(ctx context.Context, limit, offset int) ([]domain.CalibrationSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.Rebind(`
		SELECT id, name, point_count, average_error, max_error, active, created_at
		FROM calibrations
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`)

	summaries := make([]domain.CalibrationSummary, 0)
	if err := r.db.SelectContext(ctx, &summaries, query, limit, offset); err != nil {
		r.logger.Error("Failed to list calibrations", zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return summaries, nil
}

// Activate делает калибровку единственной активной
func (r *calibrationRepository) Activate(ctx context.Context, id uuid.UUID) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM calibrations WHERE id = ?`), id)
		if err != nil {
			r.logger.Error("Failed to check calibration", zap.String("id", id.String()), zap.Error(err))
			return apperrors.ErrDatabaseError
		}
		if exists == 0 {
			return apperrors.ErrCalibrationNotFound.WithDetails(map[string]interface{}{"id": id.String()})
		}

		if err := deactivateAll(ctx, tx); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE calibrations SET active = ? WHERE id = ?`), true, id); err != nil {
			r.logger.Error("Failed to activate calibration", zap.String("id", id.String()), zap.Error(err))
			return apperrors.ErrDatabaseError
		}
		return nil
	})
}

// Delete удаляет калибровку
func (r *calibrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM calibrations WHERE id = ?`), id)
	if err != nil {
		r.logger.Error("Failed to delete calibration", zap.String("id", id.String()), zap.Error(err))
		return apperrors.ErrDatabaseError
	}

	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return apperrors.ErrCalibrationNotFound.WithDetails(map[string]interface{}{"id": id.String()})
	}
	return nil
}

func (r *calibrationRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return apperrors.ErrDatabaseError
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return apperrors.ErrDatabaseError
	}
	return nil
}

func deactivateAll(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE calibrations SET active = ? WHERE active = ?`), false, true)
	if err != nil {
		return fmt.Errorf("deactivate calibrations: %w", apperrors.ErrDatabaseError)
	}
	return nil
}

func toRow(cal *domain.Calibration) (*calibrationRow, error) {
	doc, err := json.Marshal(cal.Document)
	if err != nil {
		return nil, fmt.Errorf("marshal calibration document: %w", err)
	}

	row := &calibrationRow{
		ID:         cal.ID,
		Name:       cal.Name,
		Document:   string(doc),
		PointCount: len(cal.Document.CalibrationPoints),
		Active:     cal.Active,
		CreatedAt:  cal.CreatedAt.UTC(),
	}
	if tm := cal.Document.TransformationMatrix; tm != nil {
		row.AverageError = tm.AverageError
		row.MaxError = tm.MaxError
		row.PointCount = tm.PointCount
	}
	return row, nil
}

func fromRow(row *calibrationRow) (*domain.Calibration, error) {
	cal := &domain.Calibration{
		ID:        row.ID,
		Name:      row.Name,
		Active:    row.Active,
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal([]byte(row.Document), &cal.Document); err != nil {
		return nil, fmt.Errorf("decode calibration %s: %w", row.ID, apperrors.ErrDatabaseError)
	}
	return cal, nil
}
