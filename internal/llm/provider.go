package llm

import (
	"context"

	"github.com/calbyte/sessiongraph/internal/domain"
)

// EventDigest is the compact event shape sent to the model. SKUs are
// truncated so the prompt stays small.
type EventDigest struct {
	Action  string `json:"action"`
	Page    string `json:"page,omitempty"`
	Time    string `json:"time"`
	Product string `json:"product,omitempty"`
}

// Request contains session analysis parameters
type Request struct {
	SessionID       string
	CustomerID      string
	Events          []EventDigest
	EventCount      int
	DurationMinutes float64
	SessionStart    string
}

// Response contains the model's session analysis
type Response struct {
	ImportanceScore  float64 `json:"importance_score"`
	ConfidenceScore  float64 `json:"confidence_score"`
	SessionSummary   string  `json:"session_summary"`
	SessionReasoning string  `json:"session_reasoning"`
	Model            string  `json:"model,omitempty"`
	LatencyMs        int64   `json:"latency_ms,omitempty"`
}

// CustomerStats summarizes a customer's session history for insight
// generation.
type CustomerStats struct {
	CustomerID       string
	TotalSessions    int
	AvgImportance    float64
	AvgConfidence    float64
	CriticalSessions int
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// AnalyzeSession scores and summarizes one session
	AnalyzeSession(ctx context.Context, req Request, model string) (*Response, error)

	// GenerateInsight writes a one-line behavioral profile for a customer
	GenerateInsight(ctx context.Context, stats CustomerStats, model string) (string, error)
}

const (
	maxDigestEvents = 10
	maxSKULength    = 15
)

// NewRequest digests a session into model input. At most ten events are
// included; the full count and duration are passed separately so the
// model still sees session scale.
func NewRequest(s *domain.Session) Request {
	req := Request{
		SessionID:       s.SessionID,
		CustomerID:      s.CustomerID,
		EventCount:      len(s.Events),
		DurationMinutes: s.DurationMinutes(),
	}
	if !s.SessionStart.IsZero() {
		req.SessionStart = s.SessionStart.UTC().Format("2006-01-02 15:04:05")
	}

	limit := len(s.Events)
	if limit > maxDigestEvents {
		limit = maxDigestEvents
	}
	for _, ev := range s.Events[:limit] {
		digest := EventDigest{
			Action: ev.EventName,
			Page:   ev.PageType,
			Time:   ev.Timestamp.UTC().Format("15:04:05"),
		}
		if sku := ev.ProductSKU; sku != "" {
			if len(sku) > maxSKULength {
				sku = sku[:maxSKULength]
			}
			digest.Product = sku
		}
		req.Events = append(req.Events, digest)
	}

	return req
}
