package handler

import (
	"encoding/json"
	"html/template"
	"net/http"

	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/service"
)

// maxEditorBytes bounds editor API request bodies.
const maxEditorBytes = 1 << 20

// EditorHandler serves the JSON API behind the rich-text editor.
type EditorHandler struct {
	service EditorService
	log     logger.Logger
}

// NewEditorHandler creates a new EditorHandler.
func NewEditorHandler(s EditorService, log logger.Logger) *EditorHandler {
	return &EditorHandler{service: s, log: log}
}

type apiError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type previewRequest struct {
	Document json.RawMessage `json:"document"`
}

type previewResponse struct {
	HTML template.HTML `json:"html"`
}

func (h *EditorHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error(err, "failed to write editor response")
	}
}

func (h *EditorHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error(err, "editor command failed")
	}
	h.writeJSON(w, status, apiError{Error: err.Error(), Fields: fieldErrors(err)})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEditorBytes))
	if err := dec.Decode(v); err != nil {
		return &service.ValidationError{Fields: map[string]string{"body": err.Error()}}
	}
	return nil
}

// apply runs one editing command and answers with the new editor state.
func (h *EditorHandler) apply(w http.ResponseWriter, r *http.Request) {
	var req service.EditorRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	resp, err := h.service.Apply(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// preview renders a document payload as HTML.
func (h *EditorHandler) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if len(req.Document) == 0 {
		h.writeError(w, &service.ValidationError{Fields: map[string]string{"document": "document is required"}})
		return
	}
	html, err := h.service.Preview(string(req.Document))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, previewResponse{HTML: html})
}
