// Package docs registers the Swagger document served by the gateway at
// /swagger. It is written by hand; every route the gateway serves must have a
// path here matching the @Router annotation of its handler.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.LoginInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.RegisterInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update profile",
                "parameters": [
                    {"description": "Profile form", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.ProfileInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.profileResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/password/check": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Check password strength",
                "parameters": [
                    {"description": "Candidate password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.passwordCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.passwordCheckResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Backend status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.DataResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/productos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["productos"],
                "summary": "List products",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.catalogResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/productos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["productos"],
                "summary": "Get product",
                "parameters": [{"type": "integer", "description": "Product id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "delete": {
                "tags": ["productos"],
                "summary": "Delete product",
                "parameters": [{"type": "integer", "description": "Product id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/pedidos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pedidos"],
                "summary": "List orders",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.orderView"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pedidos"],
                "summary": "Place order",
                "parameters": [
                    {"type": "string", "description": "Replay protection key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Product and quantity", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.PlaceOrderInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.orderView"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/pedidos/quote": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pedidos"],
                "summary": "Quote order",
                "parameters": [
                    {"description": "Product and quantity", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.PlaceOrderInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.quoteResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/pedidos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pedidos"],
                "summary": "Get order",
                "parameters": [{"type": "integer", "description": "Order id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.orderView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pedidos"],
                "summary": "Update order",
                "parameters": [
                    {"type": "integer", "description": "Order id", "name": "id", "in": "path", "required": true},
                    {"description": "Product and quantity", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.PlaceOrderInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.orderView"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "delete": {
                "tags": ["pedidos"],
                "summary": "Cancel order",
                "parameters": [{"type": "integer", "description": "Order id", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.DataResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {"type": "array", "items": {"type": "integer"}},
                "ngrok_url": {"type": "string"}
            }
        },
        "handler.errorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "redirect": {"type": "string"}
            }
        },
        "handler.userView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "telefono": {"type": "string"},
                "direccion": {"type": "string"},
                "role": {"type": "string"},
                "email_verified": {"type": "boolean"}
            }
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/handler.userView"}
            }
        },
        "handler.profileResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/handler.userView"}
            }
        },
        "handler.passwordCheckRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}}
        },
        "handler.passwordCheckResponse": {
            "type": "object",
            "properties": {
                "satisfied": {"type": "boolean"},
                "checklist": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.productView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "nombre": {"type": "string"},
                "descripcion": {"type": "string"},
                "precio": {"type": "number"},
                "precio_texto": {"type": "string"},
                "cantidad": {"type": "integer"},
                "disponible": {"type": "boolean"},
                "max_cantidad": {"type": "integer"}
            }
        },
        "handler.catalogResponse": {
            "type": "object",
            "properties": {
                "productos": {"type": "array", "items": {"$ref": "#/definitions/handler.productView"}},
                "offline": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "handler.orderView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "producto_id": {"type": "integer"},
                "cantidad": {"type": "integer"},
                "total": {"type": "number"},
                "total_texto": {"type": "string"},
                "estado": {"type": "string"},
                "producto": {"$ref": "#/definitions/handler.productView"}
            }
        },
        "handler.quoteResponse": {
            "type": "object",
            "properties": {
                "producto": {"$ref": "#/definitions/handler.productView"},
                "cantidad": {"type": "integer"},
                "precio_unitario": {"type": "string"},
                "total": {"type": "number"},
                "total_texto": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dependencies": {"type": "object"}
            }
        },
        "ports.LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ports.RegisterInput": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ports.ProfileInput": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "telefono": {"type": "string"},
                "direccion": {"type": "string"},
                "current_password": {"type": "string"},
                "new_password": {"type": "string"},
                "new_password_confirmation": {"type": "string"}
            }
        },
        "ports.PlaceOrderInput": {
            "type": "object",
            "required": ["cantidad", "producto_id"],
            "properties": {
                "producto_id": {"type": "integer"},
                "cantidad": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo is the registered spec; the gateway binary overrides Host.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Purificadora gateway API",
	Description:      "Local JSON gateway over the purificadora client: session, profile, products and orders.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
