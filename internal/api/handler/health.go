package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/calbyte/sessiongraph/internal/api/response"
)

var validate = validator.New()

// Pinger verifies backing-store connectivity.
type Pinger interface {
	ReadQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including graph connectivity
func ReadyCheck(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := db.ReadQuery(r.Context(), "RETURN 1 AS ok", nil); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "graph store not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
