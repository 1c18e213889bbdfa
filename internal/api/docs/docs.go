// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o internal/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {"tags": ["Core"], "summary": "Get system health status", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/health/live": {
            "get": {"tags": ["Core"], "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/health/ready": {
            "get": {"tags": ["Core"], "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Catalog not loaded", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/translate": {
            "post": {"tags": ["Movies"], "summary": "Translate a natural-language request into discover parameters",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.TranslateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/movies/recommend": {
            "post": {"tags": ["Movies"], "summary": "Recommend movies for a natural-language request",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.RecommendRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "502": {"description": "Provider failure; details carry query_info", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/movies/query": {
            "post": {"tags": ["Movies"], "summary": "Discover movies for explicit parameters",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.QueryRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/movies/popular": {
            "get": {"tags": ["Movies"], "summary": "Popular movies with streaming links",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/movies/{id}": {
            "get": {"tags": ["Movies"], "summary": "Movie details with streaming links",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/movies/{id}/ott": {
            "get": {"tags": ["OTT"], "summary": "Streaming links for a movie",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/tv/{id}/ott": {
            "get": {"tags": ["OTT"], "summary": "Streaming links for a tv series",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/genres": {
            "get": {"tags": ["Movies"], "summary": "Provider genre list",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/admin/catalog/reload": {
            "post": {"tags": ["Admin"], "summary": "Reload the OTT catalog files",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/admin/cache/warm": {
            "post": {"tags": ["Admin"], "summary": "Write every catalog entry's links to the cache",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Cache unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/admin/stats": {
            "get": {"tags": ["Admin"], "summary": "Catalog, cache and endpoint statistics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/admin/llm/register": {
            "post": {"tags": ["Admin"], "summary": "Register the model server URL",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.RegisterLLMRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/api/v1/admin/llm": {
            "get": {"tags": ["Admin"], "summary": "Effective model server URL",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "metadata": {"$ref": "#/definitions/api.Metadata"}
            }
        },
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "VALIDATION_ERROR"},
                "message": {"type": "string"},
                "details": {},
                "request_id": {"type": "string"}
            }
        },
        "api.Metadata": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string", "format": "date-time"},
                "request_id": {"type": "string"},
                "query_time_ms": {"type": "integer"}
            }
        },
        "api.TranslateRequest": {
            "type": "object",
            "required": ["message"],
            "properties": {"message": {"type": "string", "maxLength": 500, "example": "봉준호 감독 스릴러"}}
        },
        "api.RecommendRequest": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "message": {"type": "string", "maxLength": 500, "example": "최근 한국 액션 영화"},
                "user_id": {"type": "string"},
                "page": {"type": "integer", "minimum": 1, "maximum": 1000, "default": 1},
                "limit": {"type": "integer", "minimum": 1, "maximum": 100, "default": 20}
            }
        },
        "api.QueryRequest": {
            "type": "object",
            "required": ["parameters"],
            "properties": {
                "parameters": {"type": "object", "example": {"with_genres": [28], "sort_by": "vote_average.desc"}},
                "user_id": {"type": "string"},
                "page": {"type": "integer", "minimum": 1, "maximum": 1000, "default": 1},
                "limit": {"type": "integer", "minimum": 1, "maximum": 100, "default": 20}
            }
        },
        "api.RegisterLLMRequest": {
            "type": "object",
            "required": ["url"],
            "properties": {"url": {"type": "string", "example": "https://abc.ngrok.app"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "OpusCine API",
	Description:      "Natural-language movie recommendations with streaming availability.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
