package domain

// PointReport - результат проверки одной калибровочной точки
type PointReport struct {
	Name                string  `json:"name"`
	ActualLat           float64 `json:"actualLat"`
	ActualLon           float64 `json:"actualLon"`
	PredictedLat        float64 `json:"predictedLat"`
	PredictedLon        float64 `json:"predictedLon"`
	GeoErrorMeters      float64 `json:"geoErrorMeters"`
	GeodesicErrorMeters float64 `json:"geodesicErrorMeters"`
	ModelX              float64 `json:"modelX"`
	ModelZ              float64 `json:"modelZ"`
	ReverseX            float64 `json:"reverseX"`
	ReverseZ            float64 `json:"reverseZ"`
	ModelError          float64 `json:"modelError"`
	InverseOK           bool    `json:"inverseOk"`
}

// ValidationReport - точность калибровки. Средняя и максимальная ошибки
// считаются в приближении плоской Земли, применимом только для участков
// масштаба города (несколько километров).
type ValidationReport struct {
	AverageErrorMeters     float64       `json:"averageErrorMeters"`
	MaxErrorMeters         float64       `json:"maxErrorMeters"`
	MaxGeodesicErrorMeters float64       `json:"maxGeodesicErrorMeters"`
	Points                 []PointReport `json:"points"`
}

// UserTestResult - проверка произвольной географической координаты
type UserTestResult struct {
	UserX      float64 `json:"userX"`
	UserZ      float64 `json:"userZ"`
	HeatmapX   int     `json:"heatmapX"`
	HeatmapY   int     `json:"heatmapY"`
	VerifyLat  float64 `json:"verifyLat"`
	VerifyLon  float64 `json:"verifyLon"`
	TotalError float64 `json:"totalError"`
}
