package solver

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/twin-calibration/internal/domain"
)

// snippetTemplate - фрагмент для фронтенда, сохраняемый в поле transformationCode
var snippetTemplate = template.Must(template.New("transformation").Funcs(template.FuncMap{
	"f12": func(v float64) string { return fmt.Sprintf("%.12f", v) },
	"f2":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`// Affine coordinate transform (fitted from {{.PointCount}} calibration points)
// Average error: {{f2 .AverageError}} m

// Model coordinates to latitude/longitude
function modelCoordsToLatLon(x, z) {
  const lat = {{f12 .C.A1}} * x + {{f12 .C.B1}} * z + {{f12 .C.C1}}
  const lon = {{f12 .C.A2}} * x + {{f12 .C.B2}} * z + {{f12 .C.C2}}
  return { lat, lon }
}

// Latitude/longitude to model coordinates (Cramer's rule)
function latLonToModelCoords(lat, lon) {
  const det = {{f12 .C.A1}} * {{f12 .C.B2}} - {{f12 .C.A2}} * {{f12 .C.B1}}
  const latDiff = lat - {{f12 .C.C1}}
  const lonDiff = lon - {{f12 .C.C2}}
  const x = (latDiff * {{f12 .C.B2}} - lonDiff * {{f12 .C.B1}}) / det
  const z = (lonDiff * {{f12 .C.A1}} - latDiff * {{f12 .C.A2}}) / det
  return { x, y: 0, z }
}

const affineCoeffs = {
  a1: {{f12 .C.A1}}, b1: {{f12 .C.B1}}, c1: {{f12 .C.C1}},
  a2: {{f12 .C.A2}}, b2: {{f12 .C.B2}}, c2: {{f12 .C.C2}}
}`))

// TransformationCode генерирует JS-фрагмент прямого и обратного преобразования
func TransformationCode(c domain.AffineCoefficients, pointCount int, averageError float64) (string, error) {
	var buf bytes.Buffer
	err := snippetTemplate.Execute(&buf, struct {
		C            domain.AffineCoefficients
		PointCount   int
		AverageError float64
	}{c, pointCount, averageError})
	if err != nil {
		return "", fmt.Errorf("render transformation code: %w", err)
	}
	return buf.String(), nil
}
