package errors

import "net/http"

const (
	CodeDimensionMismatch   = "DIMENSION_MISMATCH"
	CodeSingularMatrix      = "SINGULAR_MATRIX"
	CodeInsufficientData    = "INSUFFICIENT_DATA"
	CodeDegenerateTransform = "DEGENERATE_TRANSFORM"
	CodeNotCalibrated       = "NOT_CALIBRATED"
)

// Ошибки вычислительного ядра
var (
	ErrDimensionMismatch = New(
		CodeDimensionMismatch,
		"Matrix dimensions are incompatible",
		http.StatusInternalServerError,
	)

	ErrSingularMatrix = New(
		CodeSingularMatrix,
		"Matrix is singular and cannot be inverted",
		http.StatusUnprocessableEntity,
	)

	ErrInsufficientData = New(
		CodeInsufficientData,
		"At least 3 non-collinear calibration points are required",
		http.StatusUnprocessableEntity,
	)

	ErrDegenerateTransform = New(
		CodeDegenerateTransform,
		"Affine transform is degenerate (determinant is near zero)",
		http.StatusUnprocessableEntity,
	)

	ErrNotCalibrated = New(
		CodeNotCalibrated,
		"Transform service is not calibrated",
		http.StatusConflict,
	)

	ErrInvalidBounds = New(
		"INVALID_BOUNDS",
		"Model bounds are degenerate",
		http.StatusUnprocessableEntity,
	)
)

// Ошибки сервиса
var (
	ErrCalibrationNotFound = New(
		"CALIBRATION_NOT_FOUND",
		"Calibration not found",
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
