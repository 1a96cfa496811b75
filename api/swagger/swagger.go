package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Chess Academy Site API",
        "description": "Public form endpoints and the admin API behind the academy, foundation and shop site.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Public", "description": "Forms posted by site visitors"},
        {"name": "Auth", "description": "Admin sessions"},
        {"name": "Admin", "description": "Content management"}
    ],
    "paths": {
        "/tournaments/register": {
            "post": {
                "tags": ["Public"],
                "summary": "Register for a tournament",
                "description": "Confirms the registrant while spots remain and waitlists them otherwise. One registration per email and tournament.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterTournamentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Registered", "schema": {"$ref": "#/definitions/RegistrationResult"}},
                    "400": {"description": "Invalid input or tournament not open", "schema": {"$ref": "#/definitions/PlainError"}},
                    "404": {"description": "Tournament not found", "schema": {"$ref": "#/definitions/PlainError"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/PlainError"}}
                }
            }
        },
        "/newsletter": {
            "post": {
                "tags": ["Public"],
                "summary": "Subscribe to the newsletter",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NewsletterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Subscribed", "schema": {"$ref": "#/definitions/NewsletterResult"}},
                    "200": {"description": "Already subscribed", "schema": {"$ref": "#/definitions/NewsletterResult"}},
                    "400": {"description": "Invalid email", "schema": {"$ref": "#/definitions/PlainError"}}
                }
            }
        },
        "/newsletter/unsubscribe": {
            "get": {
                "tags": ["Public"],
                "summary": "Unsubscribe with a signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Unsubscribed"},
                    "400": {"description": "Invalid or expired token"}
                }
            }
        },
        "/academy/leads": {
            "post": {
                "tags": ["Public"],
                "summary": "Submit an academy enquiry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AcademyLead"}}
                ],
                "responses": {
                    "201": {"description": "Recorded", "schema": {"$ref": "#/definitions/SubmissionResult"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/PlainError"}}
                }
            }
        },
        "/contact": {
            "post": {
                "tags": ["Public"],
                "summary": "Submit the contact form",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AcademyLead"}}
                ],
                "responses": {
                    "201": {"description": "Recorded", "schema": {"$ref": "#/definitions/SubmissionResult"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/PlainError"}}
                }
            }
        },
        "/ngo/applications": {
            "post": {
                "tags": ["Public"],
                "summary": "Apply for a foundation programme",
                "responses": {
                    "201": {"description": "Recorded", "schema": {"$ref": "#/definitions/SubmissionResult"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/PlainError"}}
                }
            }
        },
        "/ngo/volunteers": {
            "post": {
                "tags": ["Public"],
                "summary": "Offer to volunteer",
                "responses": {
                    "201": {"description": "Recorded", "schema": {"$ref": "#/definitions/SubmissionResult"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/PlainError"}}
                }
            }
        },
        "/ngo/donations": {
            "post": {
                "tags": ["Public"],
                "summary": "Pledge a donation",
                "responses": {
                    "201": {"description": "Recorded", "schema": {"$ref": "#/definitions/SubmissionResult"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/PlainError"}}
                }
            }
        },
        "/admin/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Start an admin session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Access token issued, refresh token set as cookie", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate the refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid refresh token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "End the session",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current admin user",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/upload": {
            "post": {
                "tags": ["Admin"],
                "summary": "Upload an image",
                "description": "Accepts jpeg, png, webp, gif, svg and avif images smaller than 5 MB.",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Stored", "schema": {"$ref": "#/definitions/UploadResult"}},
                    "400": {"description": "Missing file, disallowed type or too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Admin dashboard counters",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/exports/{entity}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export leads, subscribers or donations",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string", "enum": ["leads", "subscribers", "donations"]},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/admin/site-content/{key}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Read a site content section",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "key", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown key", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Replace a site content section",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "key", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown key or invalid section", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Reset a section to its defaults",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "key", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/tournaments/{id}/registrations": {
            "get": {
                "tags": ["Admin"],
                "summary": "List a tournament's registrations",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/registrations/{id}/status": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Move a registration between confirmed and waitlisted",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Tournament is full", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/{entity}": {
            "get": {
                "tags": ["Admin"],
                "summary": "List admin entities",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create an admin entity",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Editors cannot write", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterTournamentRequest": {
            "type": "object",
            "required": ["tournamentId", "fullName", "email", "phone"],
            "properties": {
                "tournamentId": {"type": "integer"},
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "whatsApp": {"type": "string"},
                "age": {"type": "integer"},
                "rating": {"type": "integer"},
                "notes": {"type": "string"}
            }
        },
        "RegistrationResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "registration": {
                    "type": "object",
                    "properties": {
                        "id": {"type": "integer"},
                        "status": {"type": "string", "enum": ["CONFIRMED", "WAITLISTED"]},
                        "spotsLeft": {"type": "integer"}
                    }
                },
                "whatsApp": {
                    "type": "object",
                    "properties": {
                        "userLink": {"type": "string"},
                        "adminLink": {"type": "string"}
                    }
                }
            }
        },
        "NewsletterRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"},
                "source": {"type": "string"}
            }
        },
        "NewsletterResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "alreadySubscribed": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "AcademyLead": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "childName": {"type": "string"},
                "age": {"type": "integer"},
                "program": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "SubmissionResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "id": {"type": "integer"}
            }
        },
        "UploadResult": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "filename": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "StatusUpdateRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string"}
            }
        },
        "PlainError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
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
