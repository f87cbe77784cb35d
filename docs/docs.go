// Package docs 提供 Swagger 文档，可通过 swag init 重新生成完整版本
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/auth/send-otp": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "发送登录验证码",
                "parameters": [
                    {"description": "手机号", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.SendOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "手机号格式错误", "schema": {"$ref": "#/definitions/util.Response"}},
                    "429": {"description": "发送过于频繁", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/auth/verify-otp": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "校验验证码并登录",
                "parameters": [
                    {"description": "会话ID与验证码", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.VerifyOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "验证码错误或已过期", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/quizzes/{id}/submit": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["测验"],
                "summary": "提交答案",
                "parameters": [
                    {"type": "string", "description": "测验ID", "name": "id", "in": "path", "required": true},
                    {"description": "答案", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.SubmitQuizReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controller.SubmitResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.Response"}},
                    "402": {"description": "付费科目", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/iq-grades/{subjectId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["IQ等级"],
                "summary": "科目生效的 IQ 等级",
                "parameters": [
                    {"type": "string", "description": "科目ID", "name": "subjectId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        }
    },
    "definitions": {
        "util.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "controller.SendOTPRequest": {
            "type": "object",
            "required": ["phoneNumber"],
            "properties": {"phoneNumber": {"type": "string"}}
        },
        "controller.VerifyOTPRequest": {
            "type": "object",
            "required": ["otp", "sessionId"],
            "properties": {
                "name": {"type": "string"},
                "otp": {"type": "string"},
                "sessionId": {"type": "string"}
            }
        },
        "service.SubmitQuizReq": {
            "type": "object",
            "properties": {
                "answers": {"type": "object", "additionalProperties": {"type": "string"}},
                "markedForReview": {"type": "array", "items": {"type": "string"}},
                "timeSpentSeconds": {"type": "integer"}
            }
        },
        "controller.SubmitResult": {
            "type": "object",
            "properties": {
                "attemptId": {"type": "string"},
                "iqLabel": {"type": "string"},
                "iqScore": {"type": "integer"},
                "passed": {"type": "boolean"},
                "score": {"type": "integer"},
                "totalQuestions": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Easyread IQ 后端 API",
	Description:      "测验答题、IQ 换算、会员支付的后端服务。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
