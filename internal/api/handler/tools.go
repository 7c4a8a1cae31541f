package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/calbyte/sessiongraph/internal/api/response"
	"github.com/calbyte/sessiongraph/internal/tools"
)

// ToolsHandler exposes the tool registry over HTTP.
type ToolsHandler struct {
	registry *tools.Registry
}

// NewToolsHandler creates a tools handler
func NewToolsHandler(registry *tools.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

// List returns every registered tool's schema.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"tools": h.registry.List(),
	})
}

// Execute runs the named tool with the request body as arguments.
func (h *ToolsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		response.BadRequest(w, "tool name is required")
		return
	}

	args, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "failed to read request body")
		return
	}
	if len(args) == 0 {
		args = []byte("{}")
	}

	result, err := h.registry.Execute(r.Context(), name, json.RawMessage(args))
	if err != nil {
		if strings.Contains(err.Error(), "tool not found") {
			response.NotFound(w, err.Error())
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	response.OK(w, result)
}
