package file

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twin-calibration/internal/domain"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
)

const sampleFile = `{
  "calibrationPoints": [
    {"modelX": -72.40295394451705, "modelY": 0, "modelZ": 812.9764577390581, "lat": 31.242242, "lon": 121.491427, "name": "Tower"},
    {"modelX": 120.5, "modelY": 3.2, "modelZ": -40.25, "lat": 31.2331, "lon": 121.4899, "name": "Bridge"}
  ],
  "exportTime": "2025-08-08T09:15:30.123Z",
  "version": "1.0"
}`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleFile))
	require.NoError(t, err)

	require.Len(t, doc.CalibrationPoints, 2)
	assert.Equal(t, "Tower", doc.CalibrationPoints[0].Name)
	assert.InDelta(t, 812.9764577390581, doc.CalibrationPoints[0].ModelZ, 1e-12)
	assert.InDelta(t, 3.2, doc.CalibrationPoints[1].ModelY, 1e-12)
	assert.Equal(t, 2025, doc.ExportTime.Year())
	assert.False(t, doc.HasTransform())
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"not json", "{calibrationPoints", apperrors.ErrInvalidRequest},
		{"no points", `{"version": "2.0"}`, apperrors.ErrInsufficientData},
		{"empty points", `{"calibrationPoints": []}`, apperrors.ErrInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestEncode_UsesFieldNamesOfTheFileFormat(t *testing.T) {
	doc := &domain.CalibrationDocument{
		CalibrationPoints: []domain.CalibrationPoint{{ModelX: 1, ModelZ: 2, Lat: 31, Lon: 121, Name: "A"}},
		TransformationMatrix: &domain.TransformationMatrix{
			PointCount: 1,
			Method:     domain.MethodAffine,
		},
		Version:      domain.DocumentVersion,
		Recalculated: true,
		ExportTime:   time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	out := buf.String()
	for _, key := range []string{`"calibrationPoints"`, `"transformationMatrix"`, `"affineCoeffs"`, `"method": "affine"`, `"version": "2.0"`, `"recalculated": true`, `"exportTime": "2025-08-09T00:00:00Z"`} {
		assert.Contains(t, out, key)
	}
	assert.True(t, strings.HasPrefix(out, "{\n  \""), "two-space indentation")
}

func TestDocumentStore_RoundTrip(t *testing.T) {
	store := NewDocumentStore(nil)
	dir := t.TempDir()

	original, err := Decode(strings.NewReader(sampleFile))
	require.NoError(t, err)

	path := filepath.Join(dir, CorrectedFileName(time.Date(2025, 8, 9, 23, 0, 0, 0, time.UTC)))
	require.NoError(t, store.Write(path, original))

	got, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, original.CalibrationPoints, got.CalibrationPoints)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestDocumentStore_ReadMissing(t *testing.T) {
	_, err := NewDocumentStore(nil).Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCorrectedFileName(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	assert.Equal(t,
		"fbx-coordinate-calibration-corrected-2025-08-08.json",
		CorrectedFileName(time.Date(2025, 8, 9, 1, 0, 0, 0, moscow)),
	)
}
