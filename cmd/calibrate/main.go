// Command calibrate пересчитывает файл калибровки офлайн: подгоняет аффинное
// преобразование по точкам, проверяет точность и пишет исправленный файл
// fbx-coordinate-calibration-corrected-YYYY-MM-DD.json.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/config"
	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/pkg/logger"
	"github.com/twin-calibration/internal/repository/file"
	"github.com/twin-calibration/internal/repository/sqldb"
	"github.com/twin-calibration/internal/solver"
	"github.com/twin-calibration/internal/transform"
	"github.com/twin-calibration/internal/usecase"
)

const dateLayout = "2006-01-02"

func main() {
	flags := pflag.NewFlagSet("calibrate", pflag.ExitOnError)
	flags.StringSliceP("input", "i", nil, "calibration files with calibrationPoints (repeatable)")
	flags.StringP("output-dir", "o", ".", "directory for the corrected file")
	flags.String("date", "", "date in the output file name (YYYY-MM-DD), today by default")
	flags.Int("width", 0, "heatmap width for the reference test (HEATMAP_WIDTH)")
	flags.Int("height", 0, "heatmap height for the reference test (HEATMAP_HEIGHT)")
	flags.String("store", "", "also save the result as the active calibration in this SQLite file")
	flags.String("log-level", "info", "log level")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	v.SetEnvPrefix("CALIBRATE")
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("Failed to bind flags: %v", err))
	}

	log, err := logger.New(v.GetString("log-level"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := run(v, log); err != nil {
		log.Error("Calibration failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(v *viper.Viper, log *zap.Logger) error {
	inputs := v.GetStringSlice("input")
	if len(inputs) == 0 {
		return fmt.Errorf("--input is required")
	}

	date := time.Now()
	if raw := v.GetString("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", raw, err)
		}
		date = parsed
	}

	docs := file.NewDocumentStore(log)
	sources := make(map[string]*domain.CalibrationDocument, len(inputs))
	sets := make([]solver.PointSet, 0, len(inputs))
	for _, input := range inputs {
		source, err := docs.Read(input)
		if err != nil {
			return err
		}
		sources[input] = source
		sets = append(sets, solver.PointSet{Name: input, Points: source.CalibrationPoints})
	}

	// Сначала подгоняем все наборы, чтобы сообщить обо всех ошибках сразу
	results := solver.FitBatch(sets)
	if failed := solver.Failed(results); len(failed) > 0 {
		for _, f := range failed {
			log.Error("Fit failed", zap.String("input", f.Name), zap.Error(f.Err))
		}
		return fmt.Errorf("%d of %d calibrations failed", len(failed), len(results))
	}

	opts := usecase.CalibrationOptions{
		HeatmapWidth:  v.GetInt("width"),
		HeatmapHeight: v.GetInt("height"),
	}
	uc := usecase.NewCalibrationUseCase(nil, nil, nil, docs, transform.NewService(log), opts, log)

	var last *domain.CalibrationDocument
	for _, input := range inputs {
		source := sources[input]
		doc, report, err := uc.BuildDocument(source.CalibrationPoints, source.ModelBounds)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}

		name := file.CorrectedFileName(date)
		if len(inputs) > 1 {
			name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + "-" + name
		}
		output := filepath.Join(v.GetString("output-dir"), name)
		if err := docs.Write(output, doc); err != nil {
			return err
		}
		last = doc

		for _, p := range report.Points {
			log.Info("Point error",
				zap.String("name", p.Name),
				zap.Float64("error_m", p.GeoErrorMeters),
				zap.Float64("geodesic_m", p.GeodesicErrorMeters),
				zap.Float64("model_error", p.ModelError))
		}
		log.Info("Corrected calibration written",
			zap.String("input", input),
			zap.String("output", output),
			zap.Float64("average_error_m", report.AverageErrorMeters),
			zap.Float64("max_error_m", report.MaxErrorMeters),
			zap.Float64("user_x", doc.UserTestResult.UserX),
			zap.Float64("user_z", doc.UserTestResult.UserZ))
	}

	if path := v.GetString("store"); path != "" {
		// Активной становится последняя калибровка, в том виде, в каком она записана в файл
		return store(path, last, opts, log)
	}
	return nil
}

func store(path string, doc *domain.CalibrationDocument, opts usecase.CalibrationOptions, log *zap.Logger) error {
	db, err := sqldb.New(&config.DatabaseConfig{Driver: sqldb.DriverSQLite, Path: path}, log)
	if err != nil {
		return err
	}
	defer db.Close()

	uc := usecase.NewCalibrationUseCase(sqldb.NewCalibrationRepository(db), nil, nil,
		file.NewDocumentStore(log), transform.NewService(log), opts, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cal, err := uc.SaveDocument(ctx, filepath.Base(path), doc, true)
	if err != nil {
		return err
	}
	log.Info("Calibration stored", zap.String("db", path), zap.String("id", cal.ID.String()))
	return nil
}
