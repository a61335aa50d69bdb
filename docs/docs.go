// Package docs holds the generated Swagger definition served at /swagger.
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
        "/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Upload a file",
                "parameters": [
                    {
                        "type": "file",
                        "description": "file to share",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "optional shared password",
                        "name": "password",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "share link, QR code and expiry",
                        "schema": {"type": "object"}
                    },
                    "400": {"description": "file is required"},
                    "500": {"description": "internal server error"}
                }
            }
        },
        "/meta/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "File metadata",
                "parameters": [
                    {
                        "type": "string",
                        "description": "share id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "display-safe metadata",
                        "schema": {"type": "object"}
                    },
                    "404": {"description": "file not found"}
                }
            }
        },
        "/download/{id}": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/octet-stream"],
                "summary": "Download a shared file",
                "parameters": [
                    {
                        "type": "string",
                        "description": "share id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "shared password if protected",
                        "name": "password",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "200": {"description": "file stream"},
                    "401": {"description": "invalid password"},
                    "404": {"description": "file not found"},
                    "410": {"description": "file link expired"},
                    "500": {"description": "internal server error"}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "liveness and live record count",
                        "schema": {"type": "object"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FileDrop API",
	Description:      "Ephemeral file-sharing service with expiring, QR-encoded share links.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
