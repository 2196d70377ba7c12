// Package docs holds the OpenAPI description served under /swagger.
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
        "/api/v1/ads": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ads"],
                "summary": "List advertisements, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Ad"}}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ads"],
                "summary": "Create an advertisement",
                "parameters": [
                    {"description": "Advertisement", "name": "ad", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateAdRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Ad"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/v1/ads/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Ads"],
                "summary": "Delete an advertisement",
                "parameters": [
                    {"type": "string", "description": "Advertisement ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ads"],
                "summary": "Update an advertisement",
                "parameters": [
                    {"type": "integer", "description": "Advertisement ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields; price may be null", "name": "ad", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateAdRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Ad"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.CreateAdRequest": {
            "type": "object",
            "required": ["description", "price", "title"],
            "properties": {
                "description": {"type": "string"},
                "price": {"type": "number"},
                "title": {"type": "string"}
            }
        },
        "handlers.UpdateAdRequest": {
            "type": "object",
            "required": ["description", "title"],
            "properties": {
                "description": {"type": "string"},
                "price": {"type": "number", "x-nullable": true},
                "title": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.AdImage": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "ad_id": {"type": "integer"},
                "url": {"type": "string"}
            }
        },
        "models.Seller": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "city": {"type": "string"},
                "avatar": {"type": "string"},
                "sells_from": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "models.Ad": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number", "x-nullable": true},
                "user_id": {"type": "integer"},
                "created_on": {"type": "string"},
                "images": {"type": "array", "items": {"$ref": "#/definitions/models.AdImage"}},
                "user": {"$ref": "#/definitions/models.Seller"}
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
	Title:            "Ads Gateway API",
	Description:      "Cached gateway in front of the classified-ads backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
