package api

import (
	"encoding/json"
	"net/http"
	"sync"
)

var (
	openAPIOnce sync.Once
	openAPIBody []byte
)

// OpenAPI handles GET /openapi.json - serves the API document.
func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	openAPIOnce.Do(func() {
		body, err := json.Marshal(openAPIDocument())
		if err != nil {
			body = []byte(`{}`)
		}
		openAPIBody = body
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(openAPIBody)
}

// openAPIDocument describes the wire contract. Assembled by hand: the API is
// small enough that a generator would cost more than it saves.
func openAPIDocument() map[string]any {
	noteSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":           map[string]any{"type": "string", "format": "uuid"},
			"title":        map[string]any{"type": "string"},
			"content":      map[string]any{"type": "string"},
			"is_published": map[string]any{"type": "boolean"},
			"created_at":   map[string]any{"type": "string", "format": "date-time", "nullable": true},
			"updated_at":   map[string]any{"type": "string", "format": "date-time", "nullable": true},
		},
	}

	errorSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status":  map[string]any{"type": "string", "enum": []string{"error"}},
			"message": map[string]any{"type": "string"},
		},
	}

	errorResponse := func(description string) map[string]any {
		return map[string]any{
			"description": description,
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": "#/components/schemas/Error"},
				},
			},
		}
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "Notes API",
			"version": "1.0.0",
		},
		"paths": map[string]any{
			"/health": map[string]any{
				"get": map[string]any{
					"tags":    []string{"Common"},
					"summary": "API health check",
					"responses": map[string]any{
						"200": map[string]any{"description": "API is healthy"},
					},
				},
			},
			"/notes": map[string]any{
				"get": map[string]any{
					"tags":    []string{"Notes"},
					"summary": "List notes with pagination",
					"parameters": []any{
						map[string]any{
							"name": "page", "in": "query", "required": false,
							"schema": map[string]any{"type": "integer", "minimum": 1},
						},
						map[string]any{
							"name": "limit", "in": "query", "required": false,
							"schema": map[string]any{"type": "integer", "minimum": 0},
						},
					},
					"responses": map[string]any{
						"200": map[string]any{"description": "Notes retrieved successfully"},
						"400": errorResponse("Invalid pagination parameters"),
						"500": errorResponse("Internal server error"),
					},
				},
				"post": map[string]any{
					"tags":    []string{"Notes"},
					"summary": "Create a note",
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": map[string]any{
									"type":     "object",
									"required": []string{"title", "content"},
									"properties": map[string]any{
										"title":        map[string]any{"type": "string", "minLength": 1},
										"content":      map[string]any{"type": "string"},
										"is_published": map[string]any{"type": "boolean"},
									},
								},
							},
						},
					},
					"responses": map[string]any{
						"201": map[string]any{"description": "Note created successfully"},
						"409": errorResponse("A note with this title already exists"),
						"422": errorResponse("Invalid request body"),
					},
				},
			},
			"/notes/{id}": map[string]any{
				"put": map[string]any{
					"tags":    []string{"Notes"},
					"summary": "Partially update a note",
					"parameters": []any{
						map[string]any{
							"name": "id", "in": "path", "required": true,
							"schema": map[string]any{"type": "string", "format": "uuid"},
						},
					},
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"title":        map[string]any{"type": "string"},
										"content":      map[string]any{"type": "string"},
										"is_published": map[string]any{"type": "boolean"},
									},
								},
							},
						},
					},
					"responses": map[string]any{
						"200": map[string]any{"description": "Note updated successfully"},
						"400": errorResponse("Malformed note id"),
						"404": errorResponse("Note not found"),
						"409": errorResponse("A note with this title already exists"),
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Note":  noteSchema,
				"Error": errorSchema,
			},
		},
	}
}
