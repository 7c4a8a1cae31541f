package handler

import (
	"net/http"

	"github.com/calbyte/sessiongraph/internal/api/response"
	"github.com/calbyte/sessiongraph/internal/llm"
)

// ProvidersHandler exposes the configured model providers.
type ProvidersHandler struct {
	router *llm.Router
}

// NewProvidersHandler creates a providers handler
func NewProvidersHandler(router *llm.Router) *ProvidersHandler {
	return &ProvidersHandler{router: router}
}

// List returns every registered provider with its models and whether it
// is configured and the default.
func (h *ProvidersHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.router.GetProvidersInfo())
}
