package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/twin-calibration/internal/domain"
)

// MockCalibrationRepository is a mock of CalibrationRepository
type MockCalibrationRepository struct {
	mock.Mock
}

func (m *MockCalibrationRepository) Save(ctx context.Context, cal *domain.Calibration) error {
	args := m.Called(ctx, cal)
	return args.Error(0)
}

func (m *MockCalibrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Calibration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calibration), args.Error(1)
}

func (m *MockCalibrationRepository) GetActive(ctx context.Context) (*domain.Calibration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calibration), args.Error(1)
}

func (m *MockCalibrationRepository) List(ctx context.Context, limit, offset int) ([]domain.CalibrationSummary, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalibrationSummary), args.Error(1)
}

func (m *MockCalibrationRepository) Activate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCalibrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) GetDocument(ctx context.Context, id uuid.UUID) (*domain.CalibrationDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalibrationDocument), args.Error(1)
}

func (m *MockCacheRepository) SetDocument(ctx context.Context, id uuid.UUID, doc *domain.CalibrationDocument, ttl time.Duration) error {
	args := m.Called(ctx, id, doc, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) (string, error) {
	args := m.Called(ctx, stream, data)
	return args.String(0), args.Error(1)
}

// MockDocumentStore is a mock of DocumentStore
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Read(path string) (*domain.CalibrationDocument, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalibrationDocument), args.Error(1)
}

func (m *MockDocumentStore) Write(path string, doc *domain.CalibrationDocument) error {
	args := m.Called(path, doc)
	return args.Error(0)
}
