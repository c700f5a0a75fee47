// Package docs registers the OpenAPI description served at /swagger/.
// Regenerate with: swag init -g cmd/tasklist/main.go
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
        "/tasks": {
            "get": {
                "description": "按 all/today/week/month/completed/pending 过滤，未知视图返回全部",
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "获取任务列表",
                "parameters": [
                    {
                        "enum": ["all", "today", "week", "month", "completed", "pending"],
                        "type": "string",
                        "description": "视图",
                        "name": "filter",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            },
            "post": {
                "description": "文本和截止日期(YYYY-MM-DD)均为必填",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "新建任务",
                "parameters": [
                    {
                        "description": "任务内容",
                        "name": "task",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.TaskRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "清空任务",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/tasks/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "获取统计信息",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "408": {"description": "Request Timeout", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/tasks/{ref}": {
            "put": {
                "description": "覆盖文本和截止日期，完成状态和位置不变",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "编辑任务",
                "parameters": [
                    {"type": "string", "description": "任务位置或ID", "name": "ref", "in": "path", "required": true},
                    {
                        "description": "任务内容",
                        "name": "task",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.TaskRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "删除任务",
                "parameters": [
                    {"type": "string", "description": "任务位置或ID", "name": "ref", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/tasks/{ref}/toggle": {
            "post": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "切换完成状态",
                "parameters": [
                    {"type": "string", "description": "任务位置或ID", "name": "ref", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/activity": {
            "get": {
                "produces": ["application/json"],
                "tags": ["activity"],
                "summary": "获取变更日志",
                "parameters": [
                    {"enum": ["add", "toggle", "edit", "delete", "delete_all"], "type": "string", "description": "变更类型", "name": "action", "in": "query"},
                    {"type": "string", "description": "任务ID", "name": "task_id", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "description": "排序方式", "name": "order", "in": "query"},
                    {"type": "integer", "default": 50, "description": "返回条数", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "偏移量", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "408": {"description": "Request Timeout", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/handler.ErrorInfo"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.TaskRequest": {
            "type": "object",
            "properties": {
                "due_date": {"type": "string", "example": "2024-03-10"},
                "text": {"type": "string", "example": "Buy groceries"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:7789",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Task List API",
	Description:      "In-memory task list: add, edit, complete, delete and filter tasks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
