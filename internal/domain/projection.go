package domain

// Размер холста тепловой карты по умолчанию
const (
	DefaultHeatmapWidth  = 250
	DefaultHeatmapHeight = 250
)

// GeoPoint - географическая координата в градусах
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ModelPoint - координата на плоскости XZ модели
type ModelPoint struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// UVCoordinate - нормализованная текстурная координата, v перевёрнута относительно Z
type UVCoordinate struct {
	U float64 `json:"u"`
	V float64 `json:"v"`
}

// HeatmapPixel - целочисленный пиксель холста тепловой карты
type HeatmapPixel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DensitySample - значение плотности в точке. Задаётся либо географически
// (Geo != nil), либо в координатах модели.
type DensitySample struct {
	Geo   *GeoPoint   `json:"geo,omitempty"`
	Model *ModelPoint `json:"model,omitempty"`
	Value float64     `json:"value"`
}

// HeatmapDataPoint - точка в формате рендерера тепловой карты
type HeatmapDataPoint struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Value float64 `json:"value"`
}

// HeatmapFrame - кадр тепловой карты {max, data}
type HeatmapFrame struct {
	Max  float64            `json:"max"`
	Data []HeatmapDataPoint `json:"data"`
}
