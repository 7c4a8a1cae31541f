package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calbyte/sessiongraph/internal/analysis"
	"github.com/calbyte/sessiongraph/internal/domain"
)

// SessionSummaryTool fetches one analyzed session by id.
type SessionSummaryTool struct {
	sessions domain.SessionRepository
}

func NewSessionSummaryTool(sessions domain.SessionRepository) *SessionSummaryTool {
	return &SessionSummaryTool{sessions: sessions}
}

func (t *SessionSummaryTool) Schema() Schema {
	return Schema{
		Name:        "get_session_summary",
		Description: "Get the analyzed summary of one browsing session by session id",
		InputSchema: objectSchema([]string{"session_id"}, map[string]any{
			"session_id": map[string]any{"type": "string"},
		}),
	}
}

func (t *SessionSummaryTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.SessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	rec, err := t.sessions.GetSession(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("session not found: %s", in.SessionID)
	}
	return rec, nil
}

// UserSessionsTool lists a customer's sessions, optionally filtered to a
// minimum importance tier.
type UserSessionsTool struct {
	sessions domain.SessionRepository
}

func NewUserSessionsTool(sessions domain.SessionRepository) *UserSessionsTool {
	return &UserSessionsTool{sessions: sessions}
}

func (t *UserSessionsTool) Schema() Schema {
	return Schema{
		Name:        "get_user_sessions",
		Description: "List a customer's analyzed sessions, newest first; min_importance filters to a tier",
		InputSchema: objectSchema([]string{"customer_id"}, map[string]any{
			"customer_id":    map[string]any{"type": "string"},
			"min_importance": map[string]any{"type": "string", "enum": []string{"low", "moderate", "significant", "critical"}},
			"limit":          map[string]any{"type": "integer"},
		}),
	}
}

func (t *UserSessionsTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		CustomerID    string `json:"customer_id"`
		MinImportance string `json:"min_importance"`
		Limit         int    `json:"limit"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.CustomerID == "" {
		return nil, fmt.Errorf("customer_id is required")
	}

	if in.MinImportance != "" {
		return t.sessions.ListImportant(ctx, in.CustomerID, domain.ImportanceLevel(in.MinImportance), in.Limit)
	}
	return t.sessions.ListByCustomer(ctx, in.CustomerID, in.Limit)
}

// UserSummaryTool returns a customer's web profile rollup.
type UserSummaryTool struct {
	sessions domain.SessionRepository
}

func NewUserSummaryTool(sessions domain.SessionRepository) *UserSummaryTool {
	return &UserSummaryTool{sessions: sessions}
}

func (t *UserSummaryTool) Schema() Schema {
	return Schema{
		Name:        "get_user_summary",
		Description: "Get a customer's aggregated web behavior profile",
		InputSchema: objectSchema([]string{"customer_id"}, map[string]any{
			"customer_id": map[string]any{"type": "string"},
		}),
	}
}

func (t *UserSummaryTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		CustomerID string `json:"customer_id"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.CustomerID == "" {
		return nil, fmt.Errorf("customer_id is required")
	}

	profile, err := t.sessions.GetWebProfile(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("no web profile for customer: %s", in.CustomerID)
	}
	return profile, nil
}

// UserTagsTool derives behavioral tags from a customer's session history.
type UserTagsTool struct {
	sessions domain.SessionRepository
}

func NewUserTagsTool(sessions domain.SessionRepository) *UserTagsTool {
	return &UserTagsTool{sessions: sessions}
}

func (t *UserTagsTool) Schema() Schema {
	return Schema{
		Name:        "get_user_tags",
		Description: "Derive semantic behavior tags from a customer's session history",
		InputSchema: objectSchema([]string{"customer_id"}, map[string]any{
			"customer_id": map[string]any{"type": "string"},
		}),
	}
}

func (t *UserTagsTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		CustomerID string `json:"customer_id"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.CustomerID == "" {
		return nil, fmt.Errorf("customer_id is required")
	}

	records, err := t.sessions.ListByCustomer(ctx, in.CustomerID, 100)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"customer_id":       in.CustomerID,
		"sessions_analyzed": len(records),
		"tags":              analysis.SemanticTags(records),
	}, nil
}
