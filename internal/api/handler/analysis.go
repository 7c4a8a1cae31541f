package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/calbyte/sessiongraph/internal/analysis"
	"github.com/calbyte/sessiongraph/internal/api/response"
	"github.com/calbyte/sessiongraph/internal/domain"
	"github.com/calbyte/sessiongraph/internal/service"
)

// AnalyzeRequest carries raw clickstream rows for one customer. Rows use
// the same column names as the CSV export.
type AnalyzeRequest struct {
	CustomerID string              `json:"customer_id" validate:"required"`
	Rows       []map[string]string `json:"rows" validate:"required,min=1"`
}

// AnalysisHandler exposes session analysis over HTTP.
type AnalysisHandler struct {
	service *service.AnalysisService
	parser  *analysis.Parser
}

// NewAnalysisHandler creates an analysis handler
func NewAnalysisHandler(svc *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		service: svc,
		parser:  analysis.NewParser(),
	}
}

// Analyze reconstructs, scores and persists sessions from raw rows.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			response.BadRequest(w, validationErrors.Error())
			return
		}
		response.BadRequest(w, "invalid request")
		return
	}

	var events []domain.SessionEvent
	dropped := 0
	for _, row := range req.Rows {
		ev, ok := h.parser.Parse(row)
		if !ok {
			dropped++
			continue
		}
		events = append(events, *ev)
	}

	report, err := h.service.AnalyzeEvents(r.Context(), req.CustomerID, events)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	report.EventsDropped = dropped

	response.OK(w, report)
}
