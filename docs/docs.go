// Package docs contains the generated Swagger specification.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{escape .Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/system/info": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Get system information",
                "operationId": "getSystemInfo",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/system/ping": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Ping the API",
                "operationId": "pingSystem",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/purchases": {
            "get": {
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "List purchases",
                "operationId": "listPurchases",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Record a new purchase",
                "operationId": "createPurchase",
                "responses": {
                    "201": {"description": "Created"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/purchases/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Get purchase by ID",
                "operationId": "getPurchaseById",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Update a purchase",
                "operationId": "updatePurchase",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Delete a purchase",
                "operationId": "deletePurchase",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/purchases/{id}/line-items": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Replace a purchase's line items",
                "operationId": "replacePurchaseLineItems",
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/purchases/{id}/line-items/{item_id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Remove a line item from a purchase",
                "operationId": "removePurchaseLineItem",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/storage-locations/{id}/inventory": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "List inventory at a storage location",
                "operationId": "listInventoryByLocation",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/storage-locations/{id}/inventory/{item_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Get on-hand quantity",
                "operationId": "getOnHandQuantity",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/items/{id}/on-hand": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Get organization-wide item total",
                "operationId": "getItemTotal",
                "responses": {
                    "200": {"description": "OK"}
                }
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
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Essentials Backend API",
	Description:      "Purchase recording and inventory reconciliation API for essentials banks",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
