package solver

import "github.com/twin-calibration/internal/domain"

// PointSet - именованный набор калибровочных точек
type PointSet struct {
	Name   string
	Points []domain.CalibrationPoint
}

// BatchResult - результат подгонки одного набора: либо Result, либо Err
type BatchResult struct {
	Name   string
	Result *FitResult
	Err    error
}

// FitBatch подгоняет каждый набор независимо. Ошибка одного набора не прерывает остальные.
func FitBatch(sets []PointSet) []BatchResult {
	results := make([]BatchResult, len(sets))
	for i, set := range sets {
		res, err := FitDetailed(set.Points)
		results[i] = BatchResult{Name: set.Name, Result: res, Err: err}
	}
	return results
}

// Failed возвращает только неудачные результаты
func Failed(results []BatchResult) []BatchResult {
	var out []BatchResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
