// Package docs registers the OpenAPI description served under /api-docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Service is healthy", "schema": {"$ref": "#/definitions/model.HealthResponse"}},
                    "503": {"description": "A dependency is unreachable", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/invoices/themes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "List document themes",
                "responses": {
                    "200": {"description": "Available themes", "schema": {"$ref": "#/definitions/model.ThemesResponse"}}
                }
            }
        },
        "/v1/invoices/{invoiceId}/pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Render a stored invoice with the selected theme",
                "produces": ["application/pdf"],
                "tags": ["invoices"],
                "summary": "Download an invoice PDF",
                "parameters": [
                    {"type": "string", "description": "Invoice ID", "name": "invoiceId", "in": "path", "required": true},
                    {"type": "string", "description": "Theme: plain, clean or blue", "name": "theme", "in": "query"},
                    {"type": "string", "description": "attachment (default) or inline", "name": "disposition", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "PDF document", "schema": {"type": "file"}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Invoice not found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Invoice is missing required data", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/invoices/render": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Render an invoice record posted as JSON without storing it",
                "consumes": ["application/json"],
                "produces": ["application/pdf"],
                "tags": ["invoices"],
                "summary": "Render an invoice PDF",
                "parameters": [
                    {"description": "Invoice record", "name": "invoice", "in": "body", "required": true, "schema": {"type": "object"}},
                    {"type": "string", "description": "Theme: plain, clean or blue", "name": "theme", "in": "query"},
                    {"type": "string", "description": "attachment (default) or inline", "name": "disposition", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "PDF document", "schema": {"type": "file"}},
                    "400": {"description": "Invalid input format", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Invoice is missing required data", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/earnings/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["earnings"],
                "summary": "Get earnings summary",
                "responses": {
                    "200": {"description": "Earnings summary", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/earnings/trends": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["earnings"],
                "summary": "Get earnings trends",
                "parameters": [
                    {"type": "string", "description": "Period type: daily, weekly, monthly, yearly (default: monthly)", "name": "period", "in": "query"},
                    {"type": "string", "description": "Start date (YYYY-MM-DD)", "name": "startDate", "in": "query"},
                    {"type": "string", "description": "End date (YYYY-MM-DD)", "name": "endDate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Earnings trend", "schema": {"type": "object"}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.ErrorDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "array", "items": {"$ref": "#/definitions/model.ErrorDetail"}},
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "model.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "time": {"type": "string"}
            }
        },
        "model.ThemesResponse": {
            "type": "object",
            "properties": {
                "default": {"type": "string"},
                "themes": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Invoice Composer API",
	Description:      "Renders freelancer invoices as PDF documents and reports earnings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
