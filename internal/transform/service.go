// Package transform отвечает за преобразования модель ↔ гео ↔ UV/пиксели
// и за проверку точности калибровки.
package transform

import (
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/twin-calibration/internal/domain"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
	"github.com/twin-calibration/internal/pkg/utils"
	"github.com/twin-calibration/internal/solver"
)

// Service хранит текущую калибровку. До первой успешной калибровки все запросы
// возвращают ErrNotCalibrated. Замена калибровки - атомарная подмена указателя,
// поэтому параллельные запросы всегда видят согласованный набор коэффициентов.
type Service struct {
	current atomic.Pointer[Calibration]
	logger  *zap.Logger
}

// NewService создает некалиброванный сервис
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Calibrate подгоняет преобразование по точкам и атомарно заменяет состояние.
// Если bounds == nil, границы вычисляются по самим точкам.
func (s *Service) Calibrate(points []domain.CalibrationPoint, bounds *domain.ModelBounds) (*Calibration, error) {
	coeffs, err := solver.Fit(points)
	if err != nil {
		return nil, err
	}

	b := domain.BoundsFromPoints(points)
	if bounds != nil {
		b = *bounds
	}

	cal, err := NewCalibration(coeffs, b)
	if err != nil {
		return nil, err
	}
	s.Load(cal)
	return cal, nil
}

// Load устанавливает готовую калибровку, заменяя предыдущую целиком
func (s *Service) Load(cal *Calibration) {
	if cal == nil {
		return
	}
	prev := s.current.Swap(cal)
	s.logger.Info("Calibration loaded",
		zap.Bool("replaced", prev != nil),
		zap.Float64("determinant", cal.Determinant()),
		zap.Float64("min_x", cal.bounds.MinX),
		zap.Float64("max_x", cal.bounds.MaxX),
		zap.Float64("min_z", cal.bounds.MinZ),
		zap.Float64("max_z", cal.bounds.MaxZ),
	)
}

// IsCalibrated сообщает, загружена ли калибровка
func (s *Service) IsCalibrated() bool {
	return s.current.Load() != nil
}

// Snapshot возвращает текущую калибровку
func (s *Service) Snapshot() (*Calibration, error) {
	cal := s.current.Load()
	if cal == nil {
		return nil, apperrors.ErrNotCalibrated
	}
	return cal, nil
}

// ModelToGeo переводит координаты модели в широту/долготу
func (s *Service) ModelToGeo(x, z float64) (domain.GeoPoint, error) {
	cal, err := s.Snapshot()
	if err != nil {
		return domain.GeoPoint{}, err
	}
	return cal.ModelToGeo(x, z), nil
}

// GeoToModel переводит широту/долготу в координаты модели
func (s *Service) GeoToModel(lat, lon float64) (domain.ModelPoint, error) {
	cal, err := s.Snapshot()
	if err != nil {
		return domain.ModelPoint{}, err
	}
	return cal.GeoToModel(lat, lon)
}

// XZToUV нормализует координаты модели в границах текущей калибровки
func (s *Service) XZToUV(x, z float64) (domain.UVCoordinate, error) {
	cal, err := s.Snapshot()
	if err != nil {
		return domain.UVCoordinate{}, err
	}
	return XZToUV(x, z, cal.bounds), nil
}

// GeoToUV - гео → модель → UV
func (s *Service) GeoToUV(lat, lon float64) (domain.UVCoordinate, error) {
	cal, err := s.Snapshot()
	if err != nil {
		return domain.UVCoordinate{}, err
	}
	p, err := cal.GeoToModel(lat, lon)
	if err != nil {
		return domain.UVCoordinate{}, err
	}
	return XZToUV(p.X, p.Z, cal.bounds), nil
}

// ModelToHeatmapPixel - модель → UV → пиксель
func (s *Service) ModelToHeatmapPixel(x, z float64, width, height int) (domain.HeatmapPixel, error) {
	uv, err := s.XZToUV(x, z)
	if err != nil {
		return domain.HeatmapPixel{}, err
	}
	return ToHeatmapPixel(uv, width, height), nil
}

// GeoToHeatmapPixel - гео → модель → UV → пиксель
func (s *Service) GeoToHeatmapPixel(lat, lon float64, width, height int) (domain.HeatmapPixel, error) {
	uv, err := s.GeoToUV(lat, lon)
	if err != nil {
		return domain.HeatmapPixel{}, err
	}
	return ToHeatmapPixel(uv, width, height), nil
}

// ProjectFrame проецирует значения плотности на холст тепловой карты.
// Все точки кадра считаются по одной и той же калибровке.
func (s *Service) ProjectFrame(samples []domain.DensitySample, width, height int) (*domain.HeatmapFrame, error) {
	cal, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	frame := &domain.HeatmapFrame{Data: make([]domain.HeatmapDataPoint, 0, len(samples))}
	for i, sample := range samples {
		var p domain.ModelPoint
		switch {
		case sample.Geo != nil:
			p, err = cal.GeoToModel(sample.Geo.Lat, sample.Geo.Lon)
			if err != nil {
				return nil, err
			}
		case sample.Model != nil:
			p = *sample.Model
		default:
			return nil, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"index":  i,
				"reason": "sample has neither geo nor model coordinates",
			})
		}

		px := ToHeatmapPixel(XZToUV(p.X, p.Z, cal.bounds), width, height)
		frame.Data = append(frame.Data, domain.HeatmapDataPoint{X: px.X, Y: px.Y, Value: sample.Value})
		if i == 0 || sample.Value > frame.Max {
			frame.Max = sample.Value
		}
	}
	return frame, nil
}

// TestCoordinate переводит гео-координату в модель и на холст, затем обратно,
// и оценивает ошибку круговой проверки. Пиксель не прижимается к краям,
// чтобы было видно, насколько точка вышла за границы калибровки.
func (s *Service) TestCoordinate(lat, lon float64, width, height int) (*domain.UserTestResult, error) {
	cal, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return testCoordinate(cal, lat, lon, width, height)
}

// TestCoordinate выполняет круговую проверку на конкретной калибровке
func (c *Calibration) TestCoordinate(lat, lon float64, width, height int) (*domain.UserTestResult, error) {
	return testCoordinate(c, lat, lon, width, height)
}

func testCoordinate(cal *Calibration, lat, lon float64, width, height int) (*domain.UserTestResult, error) {
	width, height = canvasSize(width, height)

	p, err := cal.GeoToModel(lat, lon)
	if err != nil {
		return nil, err
	}

	b := cal.bounds
	xRatio := (p.X - b.MinX) / (b.MaxX - b.MinX)
	zRatio := (p.Z - b.MinZ) / (b.MaxZ - b.MinZ)

	verify := cal.ModelToGeo(p.X, p.Z)
	return &domain.UserTestResult{
		UserX:      p.X,
		UserZ:      p.Z,
		HeatmapX:   int(math.Floor(xRatio * float64(width))),
		HeatmapY:   int(math.Floor(float64(height) - zRatio*float64(height))),
		VerifyLat:  verify.Lat,
		VerifyLon:  verify.Lon,
		TotalError: utils.FlatEarthErrorMeters(verify.Lat, verify.Lon, lat, lon),
	}, nil
}

// Validate проверяет текущую калибровку на переданных точках
func (s *Service) Validate(points []domain.CalibrationPoint) (*domain.ValidationReport, error) {
	cal, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return Validate(points, cal.coeffs), nil
}
