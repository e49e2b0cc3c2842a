// Package docs holds the swagger description of the REST API.
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
        "/documents": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "GetDocuments returns the open and stored document names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.DocumentList"}}
                }
            }
        },
        "/documents/{name}": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "GetDocumentByName returns a document summary",
                "parameters": [{"type": "string", "description": "Name of document", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.DocumentInfo"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/documents/{name}/dump": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "GetDocumentDump returns the label tree",
                "parameters": [
                    {"type": "string", "description": "Name of document", "name": "name", "in": "path", "required": true},
                    {"type": "integer", "description": "Levels to include, negative for all", "name": "depth", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tdf.LabelInfo"}}
                }
            }
        },
        "/documents/{name}/label": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "GetLabel returns a label by entry",
                "parameters": [
                    {"type": "string", "description": "Name of document", "name": "name", "in": "path", "required": true},
                    {"type": "string", "description": "Entry of the label", "name": "entry", "in": "query", "required": true},
                    {"type": "integer", "description": "Levels to include, negative for all", "name": "depth", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tdf.LabelInfo"}}
                }
            }
        },
        "/documents/{name}/select": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "SelectLabels returns labels matching a CEL expression",
                "parameters": [
                    {"type": "string", "description": "Name of document", "name": "name", "in": "path", "required": true},
                    {"type": "string", "description": "CEL expression over the label variable", "name": "expr", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/tdf.LabelInfo"}}}
                }
            }
        },
        "/documents/{name}/undo": {
            "post": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "UndoDocument undoes the last command",
                "parameters": [{"type": "string", "description": "Name of document", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.DocumentInfo"}}
                }
            }
        },
        "/documents/{name}/redo": {
            "post": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "RedoDocument redoes the last undone command",
                "parameters": [{"type": "string", "description": "Name of document", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.DocumentInfo"}}
                }
            }
        },
        "/documents/{name}/save": {
            "post": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "SaveDocument persists the document",
                "parameters": [{"type": "string", "description": "Name of document", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.DocumentInfo"}}
                }
            }
        }
    },
    "definitions": {
        "restapi.DocumentInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "labels": {"type": "integer"},
                "time": {"type": "integer"},
                "modifications": {"type": "integer"},
                "modified": {"type": "boolean"},
                "undos": {"type": "array", "items": {"type": "string"}},
                "redos": {"type": "array", "items": {"type": "string"}}
            }
        },
        "restapi.DocumentList": {
            "type": "object",
            "properties": {
                "open": {"type": "array", "items": {"type": "string"}},
                "stored": {"type": "array", "items": {"type": "string"}}
            }
        },
        "tdf.AttributeInfo": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "value": {}
            }
        },
        "tdf.LabelInfo": {
            "type": "object",
            "properties": {
                "entry": {"type": "string"},
                "tag": {"type": "integer"},
                "transaction": {"type": "integer"},
                "attributes": {"type": "array", "items": {"$ref": "#/definitions/tdf.AttributeInfo"}},
                "children": {"type": "array", "items": {"$ref": "#/definitions/tdf.LabelInfo"}}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "OCAF document browser API",
	Description:      "Read-mostly access to open label-tree documents.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
