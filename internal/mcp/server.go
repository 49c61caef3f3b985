// Package mcp exposes the notes service over the Model Context Protocol
// using the Streamable HTTP transport.
package mcp

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/kuitang/notes-rest/internal/logutil"
	"github.com/kuitang/notes-rest/internal/notes"
	"github.com/kuitang/notes-rest/internal/obs"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const mcpDebugBodyLogLimitBytes = 8 * 1024

// Server wraps the MCP server with notes handling.
type Server struct {
	mcpServer   *mcp.Server
	handler     *Handler
	httpHandler http.Handler
}

type mcpResponseLogger struct {
	http.ResponseWriter
	statusCode int
	body       []byte
	truncated  bool
}

func newMCPResponseLogger(w http.ResponseWriter) *mcpResponseLogger {
	return &mcpResponseLogger{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		body:           make([]byte, 0, mcpDebugBodyLogLimitBytes),
	}
}

func (w *mcpResponseLogger) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *mcpResponseLogger) Write(p []byte) (int, error) {
	if len(w.body) < mcpDebugBodyLogLimitBytes {
		remaining := mcpDebugBodyLogLimitBytes - len(w.body)
		if len(p) <= remaining {
			w.body = append(w.body, p...)
		} else {
			w.body = append(w.body, p[:remaining]...)
			w.truncated = true
		}
	} else {
		w.truncated = true
	}
	return w.ResponseWriter.Write(p)
}

func (w *mcpResponseLogger) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func mcpDebugEnabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("DEBUG")))
	switch v {
	case "1", "true", "yes", "on", "debug":
		return true
	default:
		return false
	}
}

func formatBodyForLog(contentType string, b []byte, truncated bool) string {
	if len(b) == 0 {
		return ""
	}
	textBytes := b
	if len(textBytes) > mcpDebugBodyLogLimitBytes {
		textBytes = textBytes[:mcpDebugBodyLogLimitBytes]
		truncated = true
	}
	text := logutil.RedactBodyForLog(contentType, textBytes)
	if truncated {
		return text + " [truncated]"
	}
	return text
}

// NewServer creates a new MCP server exposing the notes toolset.
func NewServer(svc *notes.Service) *Server {
	handler := NewHandler(svc)

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "notes-rest",
			Version: "1.0.0",
		},
		nil, // Use default options
	)

	for _, tool := range ToolDefinitions() {
		toolCopy := tool // avoid closure issues
		mcp.AddTool(mcpServer, toolCopy, handler.createToolHandler(toolCopy.Name))
	}

	// Streamable HTTP handler per MCP spec 2025-03-26: a single endpoint
	// handles both POST and GET requests.
	httpHandler := mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			// JSONResponse: true returns application/json responses,
			// simpler for clients that don't support SSE streaming.
			JSONResponse: true,

			// Stateless: true skips the initialize/initialized handshake;
			// every tool call is self-contained.
			Stateless: true,
		},
	)

	return &Server{
		mcpServer:   mcpServer,
		handler:     handler,
		httpHandler: httpHandler,
	}
}

// ServeHTTP implements http.Handler for the Streamable HTTP transport.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Mcp-Session-Id, Last-Event-ID, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")

	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	debug := mcpDebugEnabled()
	log := obs.From(r.Context()).With("pkg", "mcp")

	var reqBody []byte
	if debug && r.Body != nil && r.Method == http.MethodPost {
		var err error
		reqBody, err = io.ReadAll(r.Body)
		if err != nil {
			log.Error("mcp_body_read_failed", "method", r.Method, "path", r.URL.Path, "err", err)
		} else {
			r.Body = io.NopCloser(bytes.NewReader(reqBody))
		}
	}

	if debug && len(reqBody) > 0 {
		log.Debug("mcp_request_body", "body", formatBodyForLog(r.Header.Get("Content-Type"), reqBody, false))
	}

	respLogger := newMCPResponseLogger(w)
	s.httpHandler.ServeHTTP(respLogger, r)

	if debug {
		log.Debug(
			"mcp_response",
			"status", respLogger.statusCode,
			"method", r.Method,
			"path", r.URL.Path,
			"body", formatBodyForLog(respLogger.Header().Get("Content-Type"), respLogger.body, respLogger.truncated),
		)
	}

	if respLogger.statusCode >= http.StatusBadRequest {
		log.Warn(
			"mcp_request_failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", respLogger.statusCode,
			"remote", r.RemoteAddr,
		)
	}
}
