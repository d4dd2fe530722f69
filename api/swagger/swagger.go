package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "FormTrack API",
        "description": "Form builder backend with attendance tracking and aggregation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Account authentication"},
        {"name": "Forms", "description": "Owned form schemas (read-only)"},
        {"name": "Students", "description": "Registered participants under a form"},
        {"name": "Attendance", "description": "Marking, check-in and statistics"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an account",
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/forms": {
            "get": {
                "tags": ["Forms"],
                "summary": "List owned forms",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/forms/{id}": {
            "get": {
                "tags": ["Forms"],
                "summary": "Get an owned form",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Not the owner"},
                    "404": {"description": "Form not found"}
                }
            }
        },
        "/forms/{id}/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List student registrations under a form",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/forms/{id}/students/import": {
            "post": {
                "tags": ["Students"],
                "summary": "Import student registrations under a form",
                "responses": {
                    "201": {"description": "Imported"}
                }
            }
        },
        "/forms/{id}/students/{studentId}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get one student registration",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Student record not found"}
                }
            }
        },
        "/attendance/mark": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance for a student on a date",
                "responses": {
                    "200": {"description": "Marked (created or updated)"},
                    "400": {"description": "Invalid input or status"},
                    "401": {"description": "Not the owner"},
                    "404": {"description": "Form or student not found"}
                }
            }
        },
        "/attendance/checkin": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance from a QR check-in payload",
                "responses": {
                    "200": {"description": "Check-in recorded"},
                    "400": {"description": "Malformed payload or wrong kind"}
                }
            }
        },
        "/attendance/checkin-code": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Issue a check-in payload for a registration",
                "responses": {
                    "201": {"description": "Payload issued"}
                }
            }
        },
        "/attendance/records": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List raw attendance records with optional filters",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid status or date bound"}
                }
            }
        },
        "/attendance/overview": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Attendance records with session and aggregate statistics",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/attendance/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Export per-session statistics as CSV or PDF",
                "responses": {
                    "200": {"description": "Report file"}
                }
            }
        }
    },
    "definitions": {
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
