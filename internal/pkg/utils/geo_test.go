package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatEarthErrorMeters(t *testing.T) {
	// 0.001° по широте = 111 м
	assert.InDelta(t, 111.0, FlatEarthErrorMeters(31.0, 121.0, 31.001, 121.0), 1e-6)
	assert.Equal(t, 0.0, FlatEarthErrorMeters(31.2, 121.4, 31.2, 121.4))
}

func TestGreatCircleMeters_AgreesWithFlatEarthLocally(t *testing.T) {
	flat := FlatEarthErrorMeters(31.2382, 121.486697, 31.242242, 121.491427)
	gc := GreatCircleMeters(31.2382, 121.486697, 31.242242, 121.491427)

	assert.InEpsilon(t, gc, flat, 0.01)
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(31.2, 121.4))
	assert.False(t, ValidateCoordinates(91, 0))
	assert.False(t, ValidateCoordinates(0, -181))
}
