// Package linalg содержит плотные матричные операции, нужные для калибровки:
// умножение, транспонирование и обращение Гаусса-Жордана.
package linalg

import (
	"math"

	apperrors "github.com/twin-calibration/internal/pkg/errors"
)

// PivotEpsilon - порог ведущего элемента, ниже которого матрица считается вырожденной
const PivotEpsilon = 1e-10

// Matrix - плотная матрица в виде среза строк
type Matrix [][]float64

// Rows возвращает число строк
func (m Matrix) Rows() int {
	return len(m)
}

// Cols возвращает число столбцов (по первой строке)
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Column строит матрицу-столбец n×1 из вектора
func Column(v []float64) Matrix {
	out := make(Matrix, len(v))
	for i, x := range v {
		out[i] = []float64{x}
	}
	return out
}

// Multiply возвращает произведение A·B
func Multiply(a, b Matrix) (Matrix, error) {
	if err := checkRect(a); err != nil {
		return nil, err
	}
	if err := checkRect(b); err != nil {
		return nil, err
	}
	if a.Cols() != b.Rows() {
		return nil, apperrors.ErrDimensionMismatch.WithMessage(
			"cannot multiply %dx%d by %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}

	out := zeros(a.Rows(), b.Cols())
	for i := range a {
		for j := 0; j < b.Cols(); j++ {
			var sum float64
			for k := range b {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out, nil
}

// Transpose меняет местами строки и столбцы
func Transpose(a Matrix) Matrix {
	if len(a) == 0 {
		return Matrix{}
	}
	out := zeros(a.Cols(), a.Rows())
	for i, row := range a {
		for j, v := range row {
			out[j][i] = v
		}
	}
	return out
}

// Invert обращает квадратную матрицу методом Гаусса-Жордана с частичным выбором
// ведущего элемента. Исходная матрица не изменяется.
func Invert(a Matrix) (Matrix, error) {
	if err := checkRect(a); err != nil {
		return nil, err
	}
	n := a.Rows()
	if n != a.Cols() {
		return nil, apperrors.ErrDimensionMismatch.WithMessage(
			"cannot invert non-square %dx%d matrix", a.Rows(), a.Cols())
	}

	// расширенная матрица [A | I]
	aug := make(Matrix, n)
	for i := range a {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], a[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		maxRow := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[maxRow][col]) {
				maxRow = r
			}
		}
		aug[col], aug[maxRow] = aug[maxRow], aug[col]

		pivot := aug[col][col]
		if math.Abs(pivot) < PivotEpsilon {
			return nil, apperrors.ErrSingularMatrix.WithDetails(map[string]interface{}{
				"column": col,
				"pivot":  pivot,
			})
		}
		for j := range aug[col] {
			aug[col][j] /= pivot
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for j := range aug[r] {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}

	out := make(Matrix, n)
	for i := range aug {
		out[i] = aug[i][n:]
	}
	return out, nil
}

func zeros(rows, cols int) Matrix {
	out := make(Matrix, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	return out
}

// checkRect отклоняет пустые и рваные матрицы
func checkRect(m Matrix) error {
	if len(m) == 0 || len(m[0]) == 0 {
		return apperrors.ErrDimensionMismatch.WithMessage("empty matrix")
	}
	cols := len(m[0])
	for i, row := range m {
		if len(row) != cols {
			return apperrors.ErrDimensionMismatch.WithMessage(
				"row %d has %d columns, expected %d", i, len(row), cols)
		}
	}
	return nil
}
