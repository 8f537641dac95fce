package validator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
)

type point struct {
	X   float64 `json:"x" validate:"finite"`
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
}

type request struct {
	Name   string  `json:"name" validate:"required"`
	Points []point `json:"points" validate:"required,min=1,dive"`
}

func TestValidateRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := ValidateRequest(request{Name: "a", Points: []point{{X: 1, Lat: 10}}})
		assert.NoError(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		err := ValidateRequest(request{Points: []point{{}}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidRequest))

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Details, "name")
	})

	t.Run("nested field uses json path", func(t *testing.T) {
		err := ValidateRequest(request{Name: "a", Points: []point{{Lat: 95}}})
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Details, "points[0].lat")
	})

	t.Run("non-finite value", func(t *testing.T) {
		err := ValidateRequest(request{Name: "a", Points: []point{{X: math.Inf(1)}}})
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Details, "points[0].x")
	})

	t.Run("sentinel is not mutated", func(t *testing.T) {
		_ = ValidateRequest(request{})
		assert.Nil(t, apperrors.ErrInvalidRequest.Details)
	})
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "points[0].lat", fieldPath("request.points[0].lat"))
	assert.Equal(t, "name", fieldPath("name"))
}
