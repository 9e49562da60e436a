package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Batch Timetable API",
        "description": "Weekly timetable scheduling for student batches",
        "version": "0.2.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Scheduler", "description": "Scheduling runs and their reports"},
        {"name": "Timetable", "description": "Batch and teacher timetables, manual slot edits"},
        {"name": "Observability", "description": "Health, readiness and counters"}
    ],
    "paths": {
        "/schedule/runs": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Run the timetable scheduler",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RunRequest"}},
                    {"in": "query", "name": "async", "type": "boolean", "description": "Queue the run and return 202"},
                    {"in": "query", "name": "wait", "type": "boolean", "description": "Wait behind an active run (default true)"}
                ],
                "responses": {
                    "200": {"description": "Run summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Run queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid scope", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown batch", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Another run is in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/runs/{id}": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Get a run summary",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Run summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown or expired run", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/runs/{id}/report": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Download the unplaceable report of a run",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Report file"},
                    "412": {"description": "Run not finished", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches/{id}/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Weekly timetable of a batch",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Timetable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown batch", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches/{id}/timetable/slots": {
            "put": {
                "tags": ["Timetable"],
                "summary": "Manually assign a class to a batch slot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/OverrideSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "Stored assignment", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Teacher busy or run in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Clear one batch slot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "day", "type": "string", "required": true},
                    {"in": "query", "name": "period", "type": "integer", "required": true}
                ],
                "responses": {
                    "204": {"description": "Cleared"},
                    "404": {"description": "Nothing scheduled there", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{id}/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Weekly timetable of a teacher",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Timetable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown teacher", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stats": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated run and cache counters",
                "responses": {"200": {"description": "Counters"}}
            }
        }
    },
    "definitions": {
        "RunRequest": {
            "type": "object",
            "required": ["scope"],
            "properties": {
                "scope": {"type": "string", "enum": ["all", "batch"]},
                "batchId": {"type": "string"},
                "seed": {"type": "integer", "format": "int64"}
            }
        },
        "OverrideSlotRequest": {
            "type": "object",
            "required": ["day", "period", "subjectId", "teacherId"],
            "properties": {
                "day": {"type": "string", "example": "MONDAY"},
                "period": {"type": "integer", "minimum": 1, "maximum": 5},
                "subjectId": {"type": "string"},
                "teacherId": {"type": "string"}
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
