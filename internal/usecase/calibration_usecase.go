package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/domain/repository"
	"github.com/twin-calibration/internal/pkg/errors"
	"github.com/twin-calibration/internal/solver"
	"github.com/twin-calibration/internal/transform"
	"github.com/twin-calibration/internal/usecase/dto"
)

// Контрольная координата, на которой каждая новая калибровка проходит круговую проверку
const (
	ReferenceTestLat = 31.2382
	ReferenceTestLon = 121.486697
)

// CalibrationOptions - параметры CalibrationUseCase
type CalibrationOptions struct {
	CacheTTL      time.Duration
	HeatmapWidth  int
	HeatmapHeight int
}

type CalibrationUseCase struct {
	repo    repository.CalibrationRepository
	cache   repository.CacheRepository
	streams repository.StreamRepository
	docs    repository.DocumentStore
	service *transform.Service
	opts    CalibrationOptions
	logger  *zap.Logger
	now     func() time.Time
}

// NewCalibrationUseCase собирает usecase. cache и streams могут быть nil, если Redis отключён.
func NewCalibrationUseCase(
	repo repository.CalibrationRepository,
	cache repository.CacheRepository,
	streams repository.StreamRepository,
	docs repository.DocumentStore,
	service *transform.Service,
	opts CalibrationOptions,
	logger *zap.Logger,
) *CalibrationUseCase {
	if opts.HeatmapWidth <= 0 {
		opts.HeatmapWidth = domain.DefaultHeatmapWidth
	}
	if opts.HeatmapHeight <= 0 {
		opts.HeatmapHeight = domain.DefaultHeatmapHeight
	}
	return &CalibrationUseCase{
		repo:    repo,
		cache:   cache,
		streams: streams,
		docs:    docs,
		service: service,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// BuildDocument подгоняет преобразование, проверяет точность и собирает полный файл калибровки.
// Текущее состояние сервиса не меняется.
func (uc *CalibrationUseCase) BuildDocument(
	points []domain.CalibrationPoint,
	bounds *domain.ModelBounds,
) (*domain.CalibrationDocument, *domain.ValidationReport, error) {
	coeffs, err := solver.Fit(points)
	if err != nil {
		return nil, nil, err
	}

	modelBounds := domain.BoundsFromPoints(points)
	if bounds != nil {
		modelBounds = *bounds
	}
	geoBounds := domain.GeoBoundsFromPoints(points)

	cal, err := transform.NewCalibration(coeffs, modelBounds)
	if err != nil {
		return nil, nil, err
	}

	report := transform.Validate(points, coeffs)

	code, err := solver.TransformationCode(coeffs, len(points), report.AverageErrorMeters)
	if err != nil {
		return nil, nil, fmt.Errorf("render transformation code: %w", err)
	}

	userTest, err := cal.TestCoordinate(ReferenceTestLat, ReferenceTestLon, uc.opts.HeatmapWidth, uc.opts.HeatmapHeight)
	if err != nil {
		return nil, nil, err
	}

	doc := &domain.CalibrationDocument{
		CalibrationPoints: points,
		TransformationMatrix: &domain.TransformationMatrix{
			ModelBounds:  modelBounds,
			GeoBounds:    geoBounds,
			AffineCoeffs: coeffs,
			PointCount:   len(points),
			AverageError: report.AverageErrorMeters,
			MaxError:     report.MaxErrorMeters,
			Method:       domain.MethodAffine,
		},
		ModelBounds:        &modelBounds,
		GeoBounds:          &geoBounds,
		TransformationCode: code,
		ExportTime:         uc.now().UTC(),
		Version:            domain.DocumentVersion,
		Recalculated:       true,
		UserTestResult:     userTest,
	}

	uc.logger.Info("Calibration fitted",
		zap.Int("points", len(points)),
		zap.Float64("average_error_m", report.AverageErrorMeters),
		zap.Float64("max_error_m", report.MaxErrorMeters),
		zap.Float64("determinant", cal.Determinant()),
	)

	return doc, report, nil
}

// Create рассчитывает и сохраняет калибровку; при Activate=true она сразу начинает обслуживать запросы
func (uc *CalibrationUseCase) Create(ctx context.Context, req dto.CreateCalibrationRequest) (*dto.CalibrationResponse, error) {
	cal, report, err := uc.create(ctx, req.Name, req.Points, req.Bounds, req.Activate)
	if err != nil {
		return nil, err
	}
	if cal.Active {
		uc.announceActivation(ctx, cal)
	}
	return toCalibrationResponse(cal, report), nil
}

// CreateFromPoints сохраняет новую калибровку без DTO (используется воркером)
func (uc *CalibrationUseCase) CreateFromPoints(ctx context.Context, name string, points []domain.CalibrationPoint, activate bool) (*domain.Calibration, error) {
	cal, _, err := uc.create(ctx, name, points, nil, activate)
	return cal, err
}

func (uc *CalibrationUseCase) create(
	ctx context.Context,
	name string,
	points []domain.CalibrationPoint,
	bounds *domain.ModelBounds,
	activate bool,
) (*domain.Calibration, *domain.ValidationReport, error) {
	doc, report, err := uc.BuildDocument(points, bounds)
	if err != nil {
		return nil, nil, err
	}

	cal := &domain.Calibration{
		ID:        uuid.New(),
		Name:      name,
		Document:  *doc,
		Active:    activate,
		CreatedAt: doc.ExportTime,
	}
	if err := uc.store(ctx, cal); err != nil {
		return nil, nil, err
	}
	return cal, report, nil
}

// Recalculate пересчитывает сохранённую калибровку по её точкам и сохраняет результат как новую запись.
// Границы модели берутся из исходной калибровки.
func (uc *CalibrationUseCase) Recalculate(ctx context.Context, id uuid.UUID, activate bool) (*domain.Calibration, error) {
	src, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cal, _, err := uc.create(ctx, src.Name, src.Document.CalibrationPoints, documentBounds(&src.Document), activate)
	return cal, err
}

// SaveDocument сохраняет уже собранный документ калибровки как новую запись
func (uc *CalibrationUseCase) SaveDocument(ctx context.Context, name string, doc *domain.CalibrationDocument, activate bool) (*domain.Calibration, error) {
	if !doc.HasTransform() {
		return nil, errors.ErrInsufficientData.WithMessage("calibration document has no affine transform")
	}
	cal := &domain.Calibration{
		ID:        uuid.New(),
		Name:      name,
		Document:  *doc,
		Active:    activate,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.store(ctx, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

// ReloadActive заново загружает в сервис активную калибровку из хранилища.
// Повторный вызов безопасен.
func (uc *CalibrationUseCase) ReloadActive(ctx context.Context) (*domain.Calibration, error) {
	active, err := uc.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	runtime, err := CalibrationFromDocument(&active.Document)
	if err != nil {
		return nil, fmt.Errorf("active calibration %s: %w", active.ID, err)
	}
	uc.service.Load(runtime)
	uc.logger.Info("Active calibration reloaded", zap.String("id", active.ID.String()))
	return active, nil
}

// Get возвращает сохранённую калибровку
func (uc *CalibrationUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Calibration, error) {
	return uc.repo.GetByID(ctx, id)
}

// GetActive возвращает активную калибровку
func (uc *CalibrationUseCase) GetActive(ctx context.Context) (*domain.Calibration, error) {
	return uc.repo.GetActive(ctx)
}

// List возвращает краткую информацию о калибровках
func (uc *CalibrationUseCase) List(ctx context.Context, limit, offset int) (*dto.CalibrationListResponse, error) {
	items, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &dto.CalibrationListResponse{Calibrations: items, Total: len(items)}, nil
}

// Export возвращает файл калибровки, сначала из кеша
func (uc *CalibrationUseCase) Export(ctx context.Context, id uuid.UUID) (*domain.CalibrationDocument, error) {
	if uc.cache != nil {
		doc, err := uc.cache.GetDocument(ctx, id)
		if err != nil {
			uc.logger.Warn("Cache read failed, falling back to storage", zap.String("id", id.String()), zap.Error(err))
		} else if doc != nil {
			return doc, nil
		}
	}

	cal, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.cacheDocument(ctx, cal)
	return &cal.Document, nil
}

// Activate делает калибровку активной и загружает её в сервис преобразований
func (uc *CalibrationUseCase) Activate(ctx context.Context, id uuid.UUID) (*domain.Calibration, error) {
	cal, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	runtime, err := CalibrationFromDocument(&cal.Document)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Activate(ctx, id); err != nil {
		return nil, err
	}
	uc.service.Load(runtime)
	cal.Active = true
	uc.announceActivation(ctx, cal)

	uc.logger.Info("Calibration activated", zap.String("id", id.String()), zap.String("name", cal.Name))
	return cal, nil
}

// announceActivation публикует done-событие об активации, чтобы остальные
// экземпляры API перезагрузили активную калибровку. Ошибка публикации не фатальна.
func (uc *CalibrationUseCase) announceActivation(ctx context.Context, cal *domain.Calibration) {
	if uc.streams == nil {
		return
	}
	id := cal.ID
	event := domain.CalibrationDoneEvent{
		RequestID:     uuid.New(),
		CalibrationID: &id,
		Activated:     true,
	}
	if tm := cal.Document.TransformationMatrix; tm != nil {
		event.AverageError = tm.AverageError
		event.MaxError = tm.MaxError
	}
	if _, err := uc.streams.PublishToStream(ctx, domain.StreamCalibrationDone, event); err != nil {
		uc.logger.Warn("Failed to announce activation", zap.String("id", id.String()), zap.Error(err))
	}
}

// Delete удаляет калибровку. Активную калибровку удалить нельзя.
func (uc *CalibrationUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	cal, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cal.Active {
		return errors.ErrInvalidRequest.WithMessage("calibration %s is active and cannot be deleted", id)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.cache != nil {
		if err := uc.cache.DeleteDocument(ctx, id); err != nil {
			uc.logger.Warn("Failed to evict calibration from cache", zap.String("id", id.String()), zap.Error(err))
		}
	}
	return nil
}

// EnqueueRecalculation ставит пересчёт сохранённой калибровки в очередь воркера
func (uc *CalibrationUseCase) EnqueueRecalculation(ctx context.Context, id uuid.UUID, activate bool) (*dto.RecalculateResponse, error) {
	if uc.streams == nil {
		return nil, errors.ErrInvalidRequest.WithMessage("recalculation queue is disabled")
	}
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	event := domain.RecalculateEvent{
		RequestID:     uuid.New(),
		CalibrationID: &id,
		Activate:      activate,
	}
	streamID, err := uc.streams.PublishToStream(ctx, domain.StreamCalibrationRecalculate, event)
	if err != nil {
		uc.logger.Error("Failed to enqueue recalculation", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	return &dto.RecalculateResponse{RequestID: event.RequestID.String(), StreamID: streamID}, nil
}

// LoadFile читает файл калибровки и загружает его в сервис. Если в файле нет
// рассчитанного преобразования, оно подгоняется по точкам. При persist=true
// калибровка сохраняется и становится активной.
func (uc *CalibrationUseCase) LoadFile(ctx context.Context, path string, persist bool) (*domain.Calibration, error) {
	doc, err := uc.docs.Read(path)
	if err != nil {
		return nil, err
	}

	if !doc.HasTransform() {
		rebuilt, _, err := uc.BuildDocument(doc.CalibrationPoints, doc.ModelBounds)
		if err != nil {
			return nil, err
		}
		doc = rebuilt
	}

	runtime, err := CalibrationFromDocument(doc)
	if err != nil {
		return nil, err
	}

	cal := &domain.Calibration{
		ID:        uuid.New(),
		Name:      path,
		Document:  *doc,
		Active:    true,
		CreatedAt: uc.now().UTC(),
	}

	if persist {
		if err := uc.repo.Save(ctx, cal); err != nil {
			return nil, err
		}
		uc.cacheDocument(ctx, cal)
	}
	uc.service.Load(runtime)
	return cal, nil
}

// Bootstrap загружает активную калибровку из хранилища, а если её нет - из файла (если он задан)
func (uc *CalibrationUseCase) Bootstrap(ctx context.Context, file string) error {
	active, err := uc.repo.GetActive(ctx)
	switch {
	case err == nil:
		runtime, err := CalibrationFromDocument(&active.Document)
		if err != nil {
			return fmt.Errorf("active calibration %s: %w", active.ID, err)
		}
		uc.service.Load(runtime)
		uc.logger.Info("Active calibration restored", zap.String("id", active.ID.String()))
		return nil
	case !stderrors.Is(err, errors.ErrCalibrationNotFound):
		return err
	}

	if file == "" {
		uc.logger.Warn("No active calibration; service stays uncalibrated until one is created")
		return nil
	}

	if _, err := uc.LoadFile(ctx, file, true); err != nil {
		return fmt.Errorf("bootstrap from %s: %w", file, err)
	}
	return nil
}

// store сохраняет калибровку, кладёт документ в кеш и при необходимости активирует её
func (uc *CalibrationUseCase) store(ctx context.Context, cal *domain.Calibration) error {
	var runtime *transform.Calibration
	if cal.Active {
		var err error
		if runtime, err = CalibrationFromDocument(&cal.Document); err != nil {
			return err
		}
	}

	if err := uc.repo.Save(ctx, cal); err != nil {
		return err
	}
	uc.cacheDocument(ctx, cal)

	if runtime != nil {
		uc.service.Load(runtime)
	}
	return nil
}

func (uc *CalibrationUseCase) cacheDocument(ctx context.Context, cal *domain.Calibration) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.SetDocument(ctx, cal.ID, &cal.Document, uc.opts.CacheTTL); err != nil {
		uc.logger.Warn("Failed to cache calibration document", zap.String("id", cal.ID.String()), zap.Error(err))
	}
}

// CalibrationFromDocument восстанавливает рабочую калибровку из сохранённых коэффициентов.
// Границы верхнего уровня документа имеют приоритет над границами внутри transformationMatrix.
func CalibrationFromDocument(doc *domain.CalibrationDocument) (*transform.Calibration, error) {
	if !doc.HasTransform() {
		return nil, errors.ErrInsufficientData.WithMessage("calibration document has no affine transform")
	}
	return transform.NewCalibration(doc.TransformationMatrix.AffineCoeffs, *documentBounds(doc))
}

// documentBounds возвращает границы модели документа или nil, если их нет
func documentBounds(doc *domain.CalibrationDocument) *domain.ModelBounds {
	if doc.ModelBounds != nil {
		bounds := *doc.ModelBounds
		return &bounds
	}
	if doc.TransformationMatrix != nil {
		bounds := doc.TransformationMatrix.ModelBounds
		return &bounds
	}
	return nil
}

func toCalibrationResponse(cal *domain.Calibration, report *domain.ValidationReport) *dto.CalibrationResponse {
	tm := cal.Document.TransformationMatrix
	return &dto.CalibrationResponse{
		ID:                 cal.ID,
		Name:               cal.Name,
		Active:             cal.Active,
		CreatedAt:          cal.CreatedAt,
		Coefficients:       tm.AffineCoeffs,
		ModelBounds:        tm.ModelBounds,
		GeoBounds:          tm.GeoBounds,
		Validation:         report,
		UserTestResult:     cal.Document.UserTestResult,
		TransformationCode: cal.Document.TransformationCode,
	}
}
