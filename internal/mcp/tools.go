package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

// ToolDefinitions returns the notes MCP tool definitions.
func ToolDefinitions() []*mcp.Tool {
	return []*mcp.Tool{
		{
			Name:        "note_list",
			Description: "List notes with id, title, content, publication flag, and timestamps. Returns paginated results in store order. Accepts optional page (default 1) and limit (default 10, max 1000) for pagination.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page": map[string]any{
						"type":        "integer",
						"description": "Page number, 1-indexed (default: 1)",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of notes per page (default: 10, max: 1000)",
					},
				},
			},
		},
		{
			Name:        "note_view",
			Description: "Read a single note by its ID. Returns the full note including title, content, publication flag, and timestamps.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "The unique identifier of the note to retrieve",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "note_create",
			Description: "Create a new note with a title, content, and optional publication flag. Titles must be unique; creating a note with an existing title fails with a conflict. Returns the created note with its assigned ID and timestamps.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "The title of the note (required, must be unique)",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "The content/body of the note",
					},
					"is_published": map[string]any{
						"type":        "boolean",
						"description": "Whether the note is published (default: false)",
					},
				},
				"required": []string{"title", "content"},
			},
		},
		{
			Name:        "note_update",
			Description: "Partially update a note by its ID. Pass 'title' to change the title, 'content' to replace the body, or 'is_published' to toggle publication. Omitted fields keep their current values. Returns the updated note with its new updated_at timestamp.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "The unique identifier of the note to update",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "The new title for the note (optional, must be unique)",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "The new content for the note (optional)",
					},
					"is_published": map[string]any{
						"type":        "boolean",
						"description": "The new publication flag for the note (optional)",
					},
				},
				"required": []string{"id"},
			},
		},
	}
}
