// Package docs registers the swagger spec for the reference dialect with
// swaggo/swag so internal/httpapi can serve it through gin-swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ASIC Fleet Simulator API",
        "description": "Reference dialect over a virtual fleet of simulated ASIC miners.",
        "version": "1.0"
    },
    "basePath": "/api/v1",
    "paths": {
        "/miners": {
            "get": {"summary": "List miners", "responses": {"200": {"description": "ok"}}},
            "post": {"summary": "Create a miner", "responses": {"201": {"description": "created"}}}
        },
        "/miners/{id}": {
            "delete": {"summary": "Delete a miner", "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}}
        },
        "/miners/{id}/telemetry": {
            "get": {"summary": "Get miner telemetry", "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}}
        },
        "/miners/{id}/config": {
            "patch": {"summary": "Patch miner config", "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}}
        },
        "/miners/{id}/restart": {
            "post": {"summary": "Restart a miner", "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}}
        },
        "/models": {
            "get": {"summary": "List model presets", "responses": {"200": {"description": "ok"}}}
        },
        "/scenarios": {
            "get": {"summary": "List scenario presets", "responses": {"200": {"description": "ok"}}}
        },
        "/version": {
            "get": {"summary": "Report build and catalog schema version", "responses": {"200": {"description": "ok"}}}
        }
    }
}`

// SwaggerInfo holds exported swagger spec metadata, matching the shape
// `swag init` normally generates.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ASIC Fleet Simulator API",
	Description:      "Reference dialect over a virtual fleet of simulated ASIC miners.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
