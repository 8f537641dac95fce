// Package solver подбирает аффинное преобразование модель → широта/долгота
// методом наименьших квадратов через нормальные уравнения.
package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/twin-calibration/internal/domain"
	"github.com/twin-calibration/internal/linalg"
	apperrors "github.com/twin-calibration/internal/pkg/errors"
)

const (
	// MinPoints - минимальное число точек для трёхпараметрической модели
	MinPoints = 3
	// MaxConditionNumber - предел числа обусловленности нормированной AᵗA. Почти
	// коллинеарные точки могут пройти проверку ведущего элемента, но не эту.
	MaxConditionNumber = 1e12
)

// FitResult - коэффициенты и диагностика подгонки
type FitResult struct {
	Coefficients    domain.AffineCoefficients `json:"coefficients"`
	Determinant     float64                   `json:"determinant"`
	ConditionNumber float64                   `json:"conditionNumber"`
	PointCount      int                       `json:"pointCount"`
}

// Fit возвращает коэффициенты аффинного преобразования по калибровочным точкам
func Fit(points []domain.CalibrationPoint) (domain.AffineCoefficients, error) {
	res, err := FitDetailed(points)
	if err != nil {
		return domain.AffineCoefficients{}, err
	}
	return res.Coefficients, nil
}

// FitDetailed решает две независимые задачи наименьших квадратов (lat и lon),
// вычисляя псевдообратную (AᵗA)⁻¹Aᵗ один раз. Строки A строятся по нормированным
// координатам ((x−x̄)/σx, (z−z̄)/σz, 1), поэтому проверки вырожденности и
// обусловленности не зависят от положения начала координат и масштаба модели.
func FitDetailed(points []domain.CalibrationPoint) (*FitResult, error) {
	n := len(points)
	if n < MinPoints {
		return nil, apperrors.ErrInsufficientData.WithDetails(map[string]interface{}{
			"points":   n,
			"required": MinPoints,
		})
	}

	norm := normalizationOf(points)
	a := make(linalg.Matrix, n)
	lat := make([]float64, n)
	lon := make([]float64, n)
	for i, p := range points {
		a[i] = []float64{(p.ModelX - norm.meanX) / norm.scaleX, (p.ModelZ - norm.meanZ) / norm.scaleZ, 1}
		lat[i] = p.Lat
		lon[i] = p.Lon
	}

	at := linalg.Transpose(a)
	ata, err := linalg.Multiply(at, a)
	if err != nil {
		return nil, fmt.Errorf("normal matrix: %w", err)
	}

	ataInv, err := linalg.Invert(ata)
	if err != nil {
		return nil, fmt.Errorf("invert normal matrix: %w", err)
	}

	cond := conditionNumber(ata)
	if math.IsInf(cond, 0) || math.IsNaN(cond) || cond > MaxConditionNumber {
		return nil, apperrors.ErrSingularMatrix.WithDetails(map[string]interface{}{
			"condition_number": cond,
			"reason":           "calibration points are collinear or nearly collinear",
		})
	}

	pinv, err := linalg.Multiply(ataInv, at)
	if err != nil {
		return nil, fmt.Errorf("pseudo-inverse: %w", err)
	}

	latCoeffs, err := linalg.Multiply(pinv, linalg.Column(lat))
	if err != nil {
		return nil, fmt.Errorf("solve lat: %w", err)
	}
	lonCoeffs, err := linalg.Multiply(pinv, linalg.Column(lon))
	if err != nil {
		return nil, fmt.Errorf("solve lon: %w", err)
	}

	a1, b1, c1 := norm.denormalize(latCoeffs[0][0], latCoeffs[1][0], latCoeffs[2][0])
	a2, b2, c2 := norm.denormalize(lonCoeffs[0][0], lonCoeffs[1][0], lonCoeffs[2][0])
	coeffs := domain.AffineCoefficients{A1: a1, B1: b1, C1: c1, A2: a2, B2: b2, C2: c2}
	if err := coeffs.Validate(); err != nil {
		return nil, err
	}

	return &FitResult{
		Coefficients:    coeffs,
		Determinant:     coeffs.Determinant(),
		ConditionNumber: cond,
		PointCount:      n,
	}, nil
}

// normalization - сдвиг к центру масс точек и масштаб по среднеквадратичному разбросу
type normalization struct {
	meanX, meanZ   float64
	scaleX, scaleZ float64
}

func normalizationOf(points []domain.CalibrationPoint) normalization {
	var nz normalization
	n := float64(len(points))
	for _, p := range points {
		nz.meanX += p.ModelX
		nz.meanZ += p.ModelZ
	}
	nz.meanX /= n
	nz.meanZ /= n

	var vx, vz float64
	for _, p := range points {
		vx += (p.ModelX - nz.meanX) * (p.ModelX - nz.meanX)
		vz += (p.ModelZ - nz.meanZ) * (p.ModelZ - nz.meanZ)
	}
	nz.scaleX = spread(vx / n)
	nz.scaleZ = spread(vz / n)
	return nz
}

// spread возвращает σ; при нулевом разбросе столбец остаётся нулевым и
// нормальная матрица оказывается вырожденной
func spread(variance float64) float64 {
	s := math.Sqrt(variance)
	if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return s
}

// denormalize переводит коэффициенты из нормированных координат обратно в координаты модели
func (nz normalization) denormalize(a, b, c float64) (float64, float64, float64) {
	a /= nz.scaleX
	b /= nz.scaleZ
	return a, b, c - a*nz.meanX - b*nz.meanZ
}

// conditionNumber - число обусловленности в 2-норме
func conditionNumber(m linalg.Matrix) float64 {
	flat := make([]float64, 0, m.Rows()*m.Cols())
	for _, row := range m {
		flat = append(flat, row...)
	}
	return mat.Cond(mat.NewDense(m.Rows(), m.Cols(), flat), 2)
}
