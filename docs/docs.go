package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {"tags": ["System"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}}}
        },
        "/api/v1/calibrations": {
            "get": {"tags": ["Calibrations"], "summary": "List calibrations", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 50, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Calibrations"], "summary": "Fit a calibration", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateCalibrationRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }}
        },
        "/api/v1/calibrations/active": {
            "get": {"tags": ["Calibrations"], "summary": "Get active calibration", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}}}
        },
        "/api/v1/calibrations/{id}": {
            "get": {"tags": ["Calibrations"], "summary": "Get calibration", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}}},
            "delete": {"tags": ["Calibrations"], "summary": "Delete calibration",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}}}
        },
        "/api/v1/calibrations/{id}/export": {
            "get": {"tags": ["Calibrations"], "summary": "Export calibration file", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/calibrations/{id}/activate": {
            "post": {"tags": ["Calibrations"], "summary": "Activate calibration", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/calibrations/{id}/recalculate": {
            "post": {"tags": ["Calibrations"], "summary": "Queue recalculation", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"202": {"description": "Accepted"}}}
        },
        "/api/v1/transform/model-to-geo": {
            "post": {"tags": ["Transform"], "summary": "Model XZ to lat/lon", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ModelToGeoRequest"}}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Not calibrated"}}}
        },
        "/api/v1/transform/geo-to-model": {
            "post": {"tags": ["Transform"], "summary": "Lat/lon to model XZ", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GeoToModelRequest"}}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Not calibrated"}}}
        },
        "/api/v1/transform/uv": {
            "post": {"tags": ["Transform"], "summary": "Point to UV", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/transform/heatmap-pixel": {
            "post": {"tags": ["Transform"], "summary": "Point to heatmap pixel", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/transform/test": {
            "post": {"tags": ["Transform"], "summary": "Round-trip check of a coordinate", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GeoToModelRequest"}}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/transform/image-fit": {
            "post": {"tags": ["Transform"], "summary": "Fit an image calibration", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ImageFitRequest"}}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Singular or degenerate fit", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}}}
        },
        "/api/v1/heatmap/frame": {
            "post": {"tags": ["Heatmap"], "summary": "Project density samples", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "dto.HealthResponse": {"type": "object", "properties": {"status": {"type": "string"}, "calibrated": {"type": "boolean"}}},
        "dto.ModelToGeoRequest": {"type": "object", "properties": {"x": {"type": "number"}, "z": {"type": "number"}}},
        "dto.GeoToModelRequest": {"type": "object", "properties": {
            "lat": {"type": "number", "maximum": 90, "minimum": -90},
            "lon": {"type": "number", "maximum": 180, "minimum": -180}}},
        "dto.CreateCalibrationRequest": {"type": "object", "required": ["name", "points"], "properties": {
            "name": {"type": "string", "maxLength": 200},
            "points": {"type": "array", "minItems": 3, "maxItems": 1000, "items": {"$ref": "#/definitions/domain.CalibrationPoint"}},
            "activate": {"type": "boolean"}}},
        "domain.CalibrationPoint": {"type": "object", "properties": {
            "modelX": {"type": "number"}, "modelY": {"type": "number"}, "modelZ": {"type": "number"},
            "lat": {"type": "number"}, "lon": {"type": "number"}, "name": {"type": "string"}}},
        "dto.ImageFitRequest": {"type": "object", "required": ["points", "image_height"], "properties": {
            "points": {"type": "array", "minItems": 3, "maxItems": 1000, "items": {"$ref": "#/definitions/domain.ImagePoint"}},
            "image_height": {"type": "number"},
            "screen": {"type": "array", "items": {"$ref": "#/definitions/domain.ScreenPoint"}},
            "geo": {"type": "array", "items": {"$ref": "#/definitions/dto.GeoToModelRequest"}}}},
        "domain.ImagePoint": {"type": "object", "properties": {
            "x": {"type": "number"}, "y": {"type": "number"},
            "lat": {"type": "number"}, "lon": {"type": "number"}, "name": {"type": "string"}}},
        "domain.ScreenPoint": {"type": "object", "properties": {"x": {"type": "number"}, "y": {"type": "number"}}},
        "utils.ErrorResponse": {"type": "object", "properties": {"error": {"type": "object", "properties": {
            "code": {"type": "string"}, "message": {"type": "string"}, "details": {"type": "object"}}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "2.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Twin Calibration API",
	Description:      "Калибровка цифрового двойника: аффинное преобразование между координатами модели и WGS84.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
