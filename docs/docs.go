// Package docs registers the API's Swagger document with swag so gin-swagger
// can serve it at /swagger/index.html. Regenerate with `swag init` after
// changing handler annotations.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/api/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        },
        "/api/user": {
            "post": {
                "tags": ["User"],
                "summary": "Create or load the caller's user",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/generate-course-layout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Course"],
                "summary": "Generate a course layout",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.GenerateCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/course": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Course"],
                "summary": "List or fetch courses",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "courseId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Course"],
                "summary": "Update a course",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Course"],
                "summary": "Delete a course",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "courseId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/youtube-videos": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Video"],
                "summary": "Recommend a YouTube video per chapter",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.VideoSearchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/generate-chapter-notes": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Notes"],
                "summary": "Generate chapter notes",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.NotesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/mock-test": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["MockTest"],
                "summary": "Generate a mock test",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.MockTestRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/chapter-slides": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Slides"],
                "summary": "List chapter slides",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "courseId", "in": "query", "required": true},
                    {"type": "string", "name": "chapterId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Slides"],
                "summary": "Generate chapter slides",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SlideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Dashboard summary",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/models.ErrorInfo"},
                "metadata": {"$ref": "#/definitions/models.Metadata"}
            }
        },
        "models.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "models.GenerateCourseRequest": {
            "type": "object",
            "required": ["courseId", "userInput"],
            "properties": {
                "userInput": {"type": "string", "maxLength": 1024, "minLength": 3},
                "courseId": {"type": "string", "maxLength": 255, "minLength": 1},
                "type": {"type": "string", "maxLength": 255}
            }
        },
        "models.UpdateCourseRequest": {
            "type": "object",
            "required": ["courseId"],
            "properties": {
                "courseId": {"type": "string"},
                "courseName": {"type": "string"},
                "userInput": {"type": "string"},
                "type": {"type": "string"},
                "courseLayout": {"type": "object"}
            }
        },
        "models.ChapterInput": {
            "type": "object",
            "properties": {
                "chapterId": {"type": "string"},
                "chapterTitle": {"type": "string"},
                "subContent": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.VideoSearchRequest": {
            "type": "object",
            "properties": {
                "courseName": {"type": "string"},
                "chapters": {"type": "array", "items": {"$ref": "#/definitions/models.ChapterInput"}},
                "forceRefresh": {"type": "boolean"}
            }
        },
        "models.VideoReference": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "watchUrl": {"type": "string"},
                "channelTitle": {"type": "string"}
            }
        },
        "models.NotesRequest": {
            "type": "object",
            "properties": {
                "courseName": {"type": "string"},
                "chapter": {"$ref": "#/definitions/models.ChapterInput"},
                "video": {"$ref": "#/definitions/models.VideoReference"}
            }
        },
        "models.MockTestRequest": {
            "type": "object",
            "required": ["courseId"],
            "properties": {
                "courseId": {"type": "string"},
                "totalQuestions": {"type": "integer", "maximum": 30, "minimum": 5}
            }
        },
        "models.SlideRequest": {
            "type": "object",
            "required": ["chapterId", "courseId"],
            "properties": {
                "courseId": {"type": "string"},
                "chapterId": {"type": "string"}
            }
        },
        "models.DatabaseCheck": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "latencyMs": {"type": "integer"}
            }
        },
        "models.HealthChecks": {
            "type": "object",
            "properties": {
                "env": {},
                "database": {"$ref": "#/definitions/models.DatabaseCheck"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "uptimeSec": {"type": "integer"},
                "checks": {"$ref": "#/definitions/models.HealthChecks"},
                "responseTimeMs": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Course Generator API",
	Description:      "Generates AI course layouts, chapter videos, notes, mock tests and slides",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
