// Package docs registers the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/users": {
            "post": {
                "tags": ["users"],
                "summary": "Register a user (operator bootstrap)",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "X-Bootstrap-Key", "in": "header", "required": true}],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}
            }
        },
        "/users/me": {
            "get": {
                "tags": ["users"],
                "summary": "Get the current user",
                "produces": ["application/json"],
                "parameters": [],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["users"],
                "summary": "Get a user",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups": {
            "post": {
                "tags": ["groups"],
                "summary": "Create a group",
                "produces": ["application/json"],
                "parameters": [],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "get": {
                "tags": ["groups"],
                "summary": "List my groups",
                "produces": ["application/json"],
                "parameters": [],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/{id}": {
            "get": {
                "tags": ["groups"],
                "summary": "Get a group with members",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "tags": ["groups"],
                "summary": "Rename a group or open and close it to new members",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/{id}/members": {
            "get": {
                "tags": ["groups"],
                "summary": "List group members",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/{id}/projects": {
            "post": {
                "tags": ["projects"],
                "summary": "Create a project",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "get": {
                "tags": ["projects"],
                "summary": "List group projects",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/{id}/contributions": {
            "get": {
                "tags": ["contributions"],
                "summary": "List group contributions",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/{id}/accountability-partners": {
            "get": {
                "tags": ["partners"],
                "summary": "List accountability partners",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["partners"],
                "summary": "Assign an accountability partner",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/{id}/accountability-partners/eligible": {
            "get": {
                "tags": ["partners"],
                "summary": "List members eligible to become partners",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/{id}/accountability-partners/{userId}": {
            "delete": {
                "tags": ["partners"],
                "summary": "Remove an accountability partner",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},{"type": "string", "name": "userId", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}": {
            "get": {
                "tags": ["projects"],
                "summary": "Get a project",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/contributions": {
            "post": {
                "tags": ["contributions"],
                "summary": "Submit a contribution",
                "produces": ["application/json"],
                "parameters": [],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/contributions/mine": {
            "get": {
                "tags": ["contributions"],
                "summary": "List my contributions",
                "produces": ["application/json"],
                "parameters": [],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/contributions/admin": {
            "get": {
                "tags": ["contributions"],
                "summary": "List contributions across administered groups",
                "produces": ["application/json"],
                "parameters": [],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/contributions/{id}": {
            "get": {
                "tags": ["contributions"],
                "summary": "Get a contribution",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/contributions/{id}/confirm": {
            "patch": {
                "tags": ["contributions"],
                "summary": "Confirm a contribution",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/contributions/{id}/reject": {
            "patch": {
                "tags": ["contributions"],
                "summary": "Reject a contribution",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications": {
            "get": {
                "tags": ["notifications"],
                "summary": "List notifications",
                "produces": ["application/json"],
                "parameters": [],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/unread-count": {
            "get": {
                "tags": ["notifications"],
                "summary": "Count unread notifications",
                "produces": ["application/json"],
                "parameters": [],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/read-all": {
            "post": {
                "tags": ["notifications"],
                "summary": "Mark all notifications as read",
                "produces": ["application/json"],
                "parameters": [],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/{id}": {
            "get": {
                "tags": ["notifications"],
                "summary": "Open a notification",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/{id}/read": {
            "patch": {
                "tags": ["notifications"],
                "summary": "Mark a notification as read",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/otp": {
            "post": {
                "tags": ["auth"],
                "summary": "Request a sign-in code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"202": {"description": "Accepted"}, "429": {"description": "Too Many Requests"}}
            }
        },
        "/auth/verify": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in with a code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "410": {"description": "Gone"}}
            }
        },
        "/onboarding/{token}": {
            "post": {
                "tags": ["onboarding"],
                "summary": "Open a registration link",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "token", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/onboarding/sessions/{id}": {
            "get": {
                "tags": ["onboarding"],
                "summary": "Get an onboarding session",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/onboarding/sessions/{id}/join": {
            "post": {
                "tags": ["onboarding"],
                "summary": "Continue to phone entry",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/onboarding/sessions/{id}/otp": {
            "post": {
                "tags": ["onboarding"],
                "summary": "Send or resend a verification code",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/onboarding/sessions/{id}/verify": {
            "post": {
                "tags": ["onboarding"],
                "summary": "Verify the code",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/onboarding/sessions/{id}/back": {
            "post": {
                "tags": ["onboarding"],
                "summary": "Return to the previous step",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/onboarding/sessions/{id}/complete": {
            "post": {
                "tags": ["onboarding"],
                "summary": "Join the group",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Kontrib API",
	Description:      "Group contributions toward shared savings projects.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
