package domain

// ImagePoint - соответствие пикселя изображения (ось Y направлена вниз) и географической координаты
type ImagePoint struct {
	X    float64 `json:"x" validate:"finite"`
	Y    float64 `json:"y" validate:"finite"`
	Lat  float64 `json:"lat" validate:"min=-90,max=90"`
	Lon  float64 `json:"lon" validate:"min=-180,max=180"`
	Name string  `json:"name"`
}

// ScreenPoint - пиксель изображения
type ScreenPoint struct {
	X float64 `json:"x" validate:"finite"`
	Y float64 `json:"y" validate:"finite"`
}
