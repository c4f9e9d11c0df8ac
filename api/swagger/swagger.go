package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Edu Portal API",
        "description": "Role-based education portal: student, parent and admin areas",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "auth", "description": "Login and signup"},
        {"name": "student", "description": "Student dashboard and owned records"},
        {"name": "parent", "description": "Read-only parent views"},
        {"name": "admin", "description": "Roster and account administration"},
        {"name": "settings", "description": "Portal settings"},
        {"name": "jobs", "description": "Scheduler-triggered maintenance"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange a provider ID token for a session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GoogleLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Token rejected or account deactivated"}
                }
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Authenticate a credential admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/signup/student": {
            "post": {
                "tags": ["auth"],
                "summary": "Complete student registration",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Identity already registered"}
                }
            }
        },
        "/auth/signup/parent": {
            "post": {
                "tags": ["auth"],
                "summary": "Complete parent registration",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Identity already registered"}
                }
            }
        },
        "/auth/signup/admin": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a credential admin, pending approval",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/signup/admin/provider": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a provider-backed admin, pending approval",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Provider admin signup disabled"}
                }
            }
        },
        "/student/{id}": {
            "get": {
                "tags": ["student"],
                "summary": "Load the student dashboard",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "302": {"description": "Redirect to login or pending surface"}
                }
            },
            "delete": {
                "tags": ["student"],
                "summary": "Withdraw the caller's own account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MutationResult"}}
                }
            }
        },
        "/student/{id}/deactivate": {
            "post": {
                "tags": ["student"],
                "summary": "Deactivate the caller's own account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MutationResult"}}
                }
            }
        },
        "/student/{id}/reactivate": {
            "post": {
                "tags": ["student"],
                "summary": "Reactivate the caller's own account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MutationResult"}}
                }
            }
        },
        "/parent/{uid}": {
            "get": {
                "tags": ["parent"],
                "summary": "Load the parent profile and linked students",
                "parameters": [
                    {"name": "uid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "302": {"description": "Redirect to login"}
                }
            },
            "delete": {
                "tags": ["parent"],
                "summary": "Withdraw the caller's own parent account",
                "parameters": [
                    {"name": "uid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Withdrawn"}
                }
            }
        },
        "/parent/{uid}/students": {
            "put": {
                "tags": ["parent"],
                "summary": "Replace the caller's linked student list",
                "parameters": [
                    {"name": "uid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/parent/{uid}/students/{studentRef}": {
            "get": {
                "tags": ["parent"],
                "summary": "Load one linked student's data",
                "parameters": [
                    {"name": "uid", "in": "path", "required": true, "type": "string"},
                    {"name": "studentRef", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found or not linked"}
                }
            }
        },
        "/admin/students": {
            "get": {
                "tags": ["admin"],
                "summary": "List the student roster",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "approval_status", "in": "query", "type": "string"},
                    {"name": "account_status", "in": "query", "type": "string"},
                    {"name": "grade", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/students/export": {
            "get": {
                "tags": ["admin"],
                "summary": "Export the student roster as a PDF",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF document"},
                    "404": {"description": "Export disabled"}
                }
            }
        },
        "/admin/students/{uid}": {
            "get": {
                "tags": ["admin"],
                "summary": "Load one student record",
                "parameters": [
                    {"name": "uid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/admin/students/{uid}/approval": {
            "patch": {
                "tags": ["admin"],
                "summary": "Change a student's approval status",
                "parameters": [
                    {"name": "uid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MutationResult"}}
                }
            }
        },
        "/admin/students/{uid}/account": {
            "patch": {
                "tags": ["admin"],
                "summary": "Deactivate or reactivate a student account",
                "parameters": [
                    {"name": "uid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MutationResult"}}
                }
            }
        },
        "/admin/admins": {
            "get": {
                "tags": ["admin"],
                "summary": "List the admin directory (super admin only)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "302": {"description": "Redirect to the admin home for plain admins"}
                }
            }
        },
        "/admin/admins/{id}": {
            "delete": {
                "tags": ["admin"],
                "summary": "Withdraw the caller's own admin account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MutationResult"}},
                    "409": {"description": "Last approved admin cannot withdraw"}
                }
            }
        },
        "/admin/admins/{id}/approval": {
            "patch": {
                "tags": ["admin"],
                "summary": "Change an admin's approval status (super admin only)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MutationResult"}}
                }
            }
        },
        "/settings": {
            "get": {
                "tags": ["settings"],
                "summary": "Read the portal settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/settings/{key}": {
            "get": {
                "tags": ["settings"],
                "summary": "Read one setting",
                "parameters": [
                    {"name": "key", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown setting"}
                }
            }
        },
        "/admin/settings/{key}": {
            "put": {
                "tags": ["settings"],
                "summary": "Update one setting",
                "parameters": [
                    {"name": "key", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Updated"}
                }
            }
        },
        "/jobs/status-refresh": {
            "post": {
                "tags": ["jobs"],
                "summary": "Run the time-derived status refresh",
                "parameters": [
                    {"name": "X-Cron-Secret", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid cron credentials"}
                }
            }
        }
    },
    "definitions": {
        "GoogleLoginRequest": {
            "type": "object",
            "properties": {
                "id_token": {"type": "string"}
            }
        },
        "AdminLoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "MutationResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
