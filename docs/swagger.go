// Package docs Twin Calibration API.
//
// Калибровка цифрового двойника: подгонка аффинного преобразования между
// координатами 3D-модели (X, Z) и географическими координатами (lat, lon),
// обратное преобразование, проекция в UV и пиксели тепловой карты.
//
// Основные возможности:
// - Подгонка калибровки по точкам и оценка точности в метрах
// - Хранение калибровок и атомарное переключение активной
// - Преобразования model ↔ geo, UV и пиксели тепловой карты
// - Фоновый пересчёт через Redis Streams
//
//	Schemes: http, https
//	BasePath: /
//	Version: 2.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
