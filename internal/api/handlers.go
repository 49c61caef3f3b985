// Package api adapts the notes service to HTTP: it parses and validates
// transport-level input, invokes the service, and maps domain outcomes to
// status codes and the JSON envelope. It is the only layer that knows about
// HTTP status codes.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kuitang/notes-rest/internal/errs"
	"github.com/kuitang/notes-rest/internal/notes"
	"github.com/kuitang/notes-rest/internal/obs"
)

// Handler wraps the notes service and provides HTTP handlers.
type Handler struct {
	svc *notes.Service
}

// NewHandler creates a new API handler with the given notes service.
func NewHandler(svc *notes.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /notes", h.ListNotes)
	mux.HandleFunc("POST /notes", h.CreateNote)
	mux.HandleFunc("PUT /notes/{id}", h.UpdateNote)
	mux.HandleFunc("GET /openapi.json", h.OpenAPI)
}

// Response envelopes. Every response carries a status field; failures carry
// only a message whose text is not a stable contract (the status code is).

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type listEnvelope struct {
	Status string   `json:"status"`
	Count  int      `json:"count"`
	Data   listData `json:"data"`
}

type listData struct {
	Notes []notes.Note `json:"notes"`
}

type noteEnvelope struct {
	Status string   `json:"status"`
	Data   noteData `json:"data"`
}

type noteData struct {
	Note *notes.Note `json:"note"`
}

type healthEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthEnvelope{Status: "OK", Message: "API is healthy"})
}

// ListNotes handles GET /notes - returns a paginated list of notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := notes.ListParams{}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		params.Page = &page
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		params.Limit = &limit
	}

	list, err := h.svc.ListNotes(r.Context(), params)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if list == nil {
		list = []notes.Note{}
	}

	writeJSON(w, http.StatusOK, listEnvelope{
		Status: "success",
		Count:  len(list),
		Data:   listData{Notes: list},
	})
}

// createNoteRequest is the create body contract: title and content are
// required (pointers distinguish missing from empty), is_published optional.
type createNoteRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	IsPublished *bool   `json:"is_published"`
}

// CreateNote handles POST /notes - creates a new note.
// Body shape failures return 422; a duplicate title returns 409.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if req.Title == nil || *req.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "title is required and must be non-empty")
		return
	}
	if req.Content == nil {
		writeError(w, http.StatusUnprocessableEntity, "content is required")
		return
	}

	note, err := h.svc.CreateNote(r.Context(), notes.CreateNoteParams{
		Title:       *req.Title,
		Content:     *req.Content,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, noteEnvelope{Status: "success", Data: noteData{Note: note}})
}

// UpdateNote handles PUT /notes/{id} - partially updates an existing note.
// All body fields are optional; a malformed id returns 400, an unknown id 404.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch notes.NotePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	note, err := h.svc.UpdateNote(r.Context(), id, patch)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, noteEnvelope{Status: "success", Data: noteData{Note: note}})
}

// writeDomainError maps a service error to its transport response. Server
// faults get their detail logged here; the response body stays generic.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.CodeOf(err)
	status := errs.HTTPStatus(code)

	if status >= http.StatusInternalServerError {
		obs.From(r.Context()).With("pkg", "api").Error(
			"request_failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", string(code),
			"err", err.Error(),
		)
	}

	writeError(w, status, errs.MessageOf(err))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes the uniform error envelope with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Status: "error", Message: message})
}
