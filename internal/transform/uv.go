package transform

import (
	"math"

	"github.com/twin-calibration/internal/domain"
)

// XZToUV нормализует координаты модели в [0,1]². V перевёрнута: minZ → 1, maxZ → 0.
// Точки за пределами границ прижимаются к ближайшему краю.
func XZToUV(x, z float64, bounds domain.ModelBounds) domain.UVCoordinate {
	u := (x - bounds.MinX) / (bounds.MaxX - bounds.MinX)
	v := 1 - (z-bounds.MinZ)/(bounds.MaxZ-bounds.MinZ)
	return domain.UVCoordinate{U: clamp(u, 0, 1), V: clamp(v, 0, 1)}
}

// ToHeatmapPixel переводит UV в пиксель холста width×height.
// Неположительные размеры заменяются значениями по умолчанию.
func ToHeatmapPixel(uv domain.UVCoordinate, width, height int) domain.HeatmapPixel {
	width, height = canvasSize(width, height)
	x := clamp(uv.U*float64(width), 0, float64(width-1))
	y := clamp(uv.V*float64(height), 0, float64(height-1))
	return domain.HeatmapPixel{
		X: int(math.Floor(x)),
		Y: int(math.Floor(y)),
	}
}

func canvasSize(width, height int) (int, int) {
	if width <= 0 {
		width = domain.DefaultHeatmapWidth
	}
	if height <= 0 {
		height = domain.DefaultHeatmapHeight
	}
	return width, height
}

// clamp также отображает NaN в нижнюю границу
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
