package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kuitang/notes-rest/internal/notes"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler implements MCP tool call handling.
type Handler struct {
	svc *notes.Service
}

// NewHandler creates a new MCP handler backed by the notes service.
func NewHandler(svc *notes.Service) *Handler {
	return &Handler{svc: svc}
}

// createToolHandler returns a tool handler function for the given tool name.
func (h *Handler) createToolHandler(name string) func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		result, err := h.HandleToolCall(ctx, name, args)
		return result, nil, err
	}
}

// HandleToolCall routes tool calls to appropriate handlers.
func (h *Handler) HandleToolCall(ctx context.Context, name string, arguments map[string]any) (*mcp.CallToolResult, error) {
	switch name {
	case "note_list":
		return h.handleNoteList(ctx, arguments)
	case "note_view":
		return h.handleNoteView(ctx, arguments)
	case "note_create":
		return h.handleNoteCreate(ctx, arguments)
	case "note_update":
		return h.handleNoteUpdate(ctx, arguments)
	default:
		return newToolResultError(fmt.Sprintf("unknown tool: %s", name)), nil
	}
}

// newToolResultText creates a successful tool result with text content.
func newToolResultText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// newToolResultError creates a tool result indicating an error.
func newToolResultError(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

func marshalToolJSON(value any) string {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response","detail":%q}`, err.Error())
	}
	return string(data)
}

func (h *Handler) handleNoteList(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	params := notes.ListParams{}
	if p, ok := args["page"].(float64); ok {
		page := int(p)
		params.Page = &page
	}
	if l, ok := args["limit"].(float64); ok {
		limit := int(l)
		params.Limit = &limit
	}

	list, err := h.svc.ListNotes(ctx, params)
	if err != nil {
		return newToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
	}
	if list == nil {
		list = []notes.Note{}
	}

	result := map[string]any{
		"count": len(list),
		"notes": list,
	}
	return newToolResultText(marshalToolJSON(result)), nil
}

func (h *Handler) handleNoteView(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	id, ok := args["id"].(string)
	if !ok {
		return newToolResultError("id must be a string"), nil
	}

	note, err := h.svc.GetNote(ctx, id)
	if err != nil {
		return newToolResultError(fmt.Sprintf("failed to read note: %v", err)), nil
	}

	return newToolResultText(marshalToolJSON(note)), nil
}

func (h *Handler) handleNoteCreate(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	title, ok := args["title"].(string)
	if !ok {
		return newToolResultError("title must be a string"), nil
	}
	content, ok := args["content"].(string)
	if !ok {
		return newToolResultError("content must be a string"), nil
	}

	params := notes.CreateNoteParams{
		Title:   title,
		Content: content,
	}
	if published, ok := args["is_published"].(bool); ok {
		params.IsPublished = &published
	}

	note, err := h.svc.CreateNote(ctx, params)
	if err != nil {
		return newToolResultError(fmt.Sprintf("failed to create note: %v", err)), nil
	}

	return newToolResultText(marshalToolJSON(note)), nil
}

func (h *Handler) handleNoteUpdate(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	id, ok := args["id"].(string)
	if !ok {
		return newToolResultError("id must be a string"), nil
	}

	patch := notes.NotePatch{}
	if title, ok := args["title"].(string); ok {
		patch.Title = &title
	}
	if content, ok := args["content"].(string); ok {
		patch.Content = &content
	}
	if published, ok := args["is_published"].(bool); ok {
		patch.IsPublished = &published
	}

	note, err := h.svc.UpdateNote(ctx, id, patch)
	if err != nil {
		return newToolResultError(fmt.Sprintf("failed to update note: %v", err)), nil
	}

	return newToolResultText(marshalToolJSON(note)), nil
}
