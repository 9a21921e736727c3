// Package docs holds the OpenAPI description of the mock admin API, served
// at /swagger/index.html.
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
        "/auth/request-otp": {
            "post": {
                "tags": ["auth"],
                "summary": "Request a login code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/otpRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/envelope"}}
                }
            }
        },
        "/auth/verify-otp": {
            "post": {
                "tags": ["auth"],
                "summary": "Verify a login code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/otpVerifyRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/envelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/envelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/envelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/auth/changerMotDePasse": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Change password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.ChangePasswordInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/envelope"}}
                }
            }
        },
        "/roles": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["roles"],
                "summary": "List roles",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/envelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["roles"],
                "summary": "Create a role",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.CreateRoleInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/envelope"}}
                }
            }
        },
        "/roles/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["roles"],
                "summary": "Get a role",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/envelope"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["roles"],
                "summary": "Update a role",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.UpdateRoleInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/envelope"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["roles"],
                "summary": "Delete a role",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/envelope"}}
                }
            }
        },
        "/roles/{id}/permissions/{op}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["roles"],
                "summary": "Change role permissions",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "enum": ["assign", "remove", "sync"], "name": "op", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/permissionIDsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/envelope"}}
                }
            }
        },
        "/permissions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["roles"],
                "summary": "List permissions",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/villes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["villes"],
                "summary": "List cities",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "per_page", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        }
    },
    "definitions": {
        "envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "otpRequest": {
            "type": "object",
            "required": ["telephone"],
            "properties": {"telephone": {"type": "string"}}
        },
        "otpVerifyRequest": {
            "type": "object",
            "required": ["otp", "telephone"],
            "properties": {"otp": {"type": "string"}, "telephone": {"type": "string"}}
        },
        "loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "permissionIDsRequest": {
            "type": "object",
            "properties": {"permission_ids": {"type": "array", "items": {"type": "string"}}}
        },
        "ports.ChangePasswordInput": {
            "type": "object",
            "required": ["ancien_mot_de_passe", "nouveau_mot_de_passe", "nouveau_mot_de_passe_confirmation"],
            "properties": {
                "ancien_mot_de_passe": {"type": "string"},
                "nouveau_mot_de_passe": {"type": "string", "minLength": 8},
                "nouveau_mot_de_passe_confirmation": {"type": "string"}
            }
        },
        "ports.CreateRoleInput": {
            "type": "object",
            "required": ["nom", "slug"],
            "properties": {"description": {"type": "string"}, "nom": {"type": "string"}, "slug": {"type": "string"}}
        },
        "ports.UpdateRoleInput": {
            "type": "object",
            "properties": {"description": {"type": "string"}, "nom": {"type": "string"}, "slug": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Siren admin mock API",
	Description:      "Local stand-in for the school siren administration API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
