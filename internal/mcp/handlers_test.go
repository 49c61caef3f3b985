package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/kuitang/notes-rest/internal/notes"
	"github.com/kuitang/notes-rest/internal/testdb"
)

var handlerCounter int
var handlerCounterMu sync.Mutex

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	handlerCounterMu.Lock()
	handlerCounter++
	name := fmt.Sprintf("mcp-test-%d", handlerCounter)
	handlerCounterMu.Unlock()

	store, err := testdb.NewNoteStoreInMemory(name)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewHandler(notes.NewService(store))
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func callOK(t *testing.T, h *Handler, tool string, args map[string]any) map[string]any {
	t.Helper()
	result, err := h.HandleToolCall(context.Background(), tool, args)
	require.NoError(t, err)
	require.False(t, result.IsError, "tool %s failed: %s", tool, textOf(t, result))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &decoded))
	return decoded
}

func TestToolCall_CreateViewUpdateList(t *testing.T) {
	h := newTestHandler(t)

	created := callOK(t, h, "note_create", map[string]any{
		"title":   "Tool Note",
		"content": "created via tool",
	})
	require.Equal(t, "Tool Note", created["title"])
	require.Equal(t, false, created["is_published"])
	id := created["id"].(string)
	require.Len(t, id, 36)

	viewed := callOK(t, h, "note_view", map[string]any{"id": id})
	require.Equal(t, created["id"], viewed["id"])
	require.Equal(t, "created via tool", viewed["content"])

	updated := callOK(t, h, "note_update", map[string]any{
		"id":           id,
		"is_published": true,
	})
	require.Equal(t, true, updated["is_published"])
	require.Equal(t, "Tool Note", updated["title"])

	listed := callOK(t, h, "note_list", map[string]any{})
	require.Equal(t, float64(1), listed["count"])
}

func TestToolCall_ErrorsAreToolResults(t *testing.T) {
	h := newTestHandler(t)

	// Domain failures come back as IsError tool results, never as Go errors.
	result, err := h.HandleToolCall(context.Background(), "note_view", map[string]any{"id": "nope"})
	require.NoError(t, err)
	require.True(t, result.IsError)

	result, err = h.HandleToolCall(context.Background(), "note_create", map[string]any{"content": "no title"})
	require.NoError(t, err)
	require.True(t, result.IsError)

	result, err = h.HandleToolCall(context.Background(), "no_such_tool", map[string]any{})
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestToolDefinitions_CoverToolRouter(t *testing.T) {
	h := newTestHandler(t)

	for _, tool := range ToolDefinitions() {
		result, err := h.HandleToolCall(context.Background(), tool.Name, map[string]any{})
		require.NoError(t, err)
		// Every defined name must route somewhere real; the router's
		// unknown-tool fallback has a distinctive message.
		if result.IsError {
			require.NotContains(t, textOf(t, result), "unknown tool", "tool %s is defined but not routed", tool.Name)
		}
	}
}
