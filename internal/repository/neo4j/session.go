package neo4j

import (
	"context"
	"fmt"

	"github.com/calbyte/sessiongraph/internal/domain"
)

// SessionRepository persists session records in the customer graph.
// Every customer hangs a single WebData node that owns their sessions:
// (Customer)-[:HAS_WEB_DATA]->(WebData)-[:HAS_SESSION]->(Session).
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// MergeSession upserts a session keyed by session id, creating the
// customer and web-data anchor nodes on first contact. Re-running the
// same analysis overwrites the session's properties in place.
func (r *SessionRepository) MergeSession(ctx context.Context, rec domain.SessionRecord) error {
	if rec.SessionID == "" {
		return fmt.Errorf("session record missing session_id")
	}
	if rec.CustomerID == "" {
		return fmt.Errorf("session record missing customer_id")
	}

	query := `
		MERGE (c:Customer {customer_id: $customer_id})
		MERGE (c)-[:HAS_WEB_DATA]->(w:WebData {customer_id: $customer_id})
		MERGE (w)-[:HAS_SESSION]->(s:Session {session_id: $session_id})
		SET s += $props`

	return r.db.write(ctx, query, map[string]any{
		"customer_id": rec.CustomerID,
		"session_id":  rec.SessionID,
		"props":       rec.Properties(),
	})
}

// MergeWebProfile upserts the customer-level rollup on the WebData node.
func (r *SessionRepository) MergeWebProfile(ctx context.Context, profile domain.WebProfile) error {
	if profile.CustomerID == "" {
		return fmt.Errorf("web profile missing customer_id")
	}

	query := `
		MERGE (c:Customer {customer_id: $customer_id})
		MERGE (c)-[:HAS_WEB_DATA]->(w:WebData {customer_id: $customer_id})
		SET w.total_sessions = $total_sessions,
		    w.avg_importance_score = $avg_importance_score,
		    w.avg_confidence = $avg_confidence,
		    w.insight = $insight`

	return r.db.write(ctx, query, map[string]any{
		"customer_id":          profile.CustomerID,
		"total_sessions":       int64(profile.TotalSessions),
		"avg_importance_score": profile.AvgImportanceScore,
		"avg_confidence":       profile.AvgConfidence,
		"insight":              profile.Insight,
	})
}

// GetSession fetches one session record by id, or nil when absent.
func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	query := `
		MATCH (s:Session {session_id: $session_id})
		RETURN s LIMIT 1`

	rows, err := r.db.read(ctx, query, map[string]any{"session_id": sessionID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	props, ok := nodeProps(rows[0]["s"])
	if !ok {
		return nil, fmt.Errorf("unexpected session node shape for %s", sessionID)
	}
	rec := domain.RecordFromProperties(props)
	return &rec, nil
}

// GetWebProfile fetches the customer rollup, or nil when absent.
func (r *SessionRepository) GetWebProfile(ctx context.Context, customerID string) (*domain.WebProfile, error) {
	query := `
		MATCH (:Customer {customer_id: $customer_id})-[:HAS_WEB_DATA]->(w:WebData)
		RETURN w LIMIT 1`

	rows, err := r.db.read(ctx, query, map[string]any{"customer_id": customerID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	props, ok := nodeProps(rows[0]["w"])
	if !ok {
		return nil, fmt.Errorf("unexpected web data node shape for %s", customerID)
	}

	profile := &domain.WebProfile{CustomerID: customerID}
	if v, ok := props["total_sessions"].(int64); ok {
		profile.TotalSessions = int(v)
	}
	if v, ok := props["avg_importance_score"].(float64); ok {
		profile.AvgImportanceScore = v
	}
	if v, ok := props["avg_confidence"].(float64); ok {
		profile.AvgConfidence = v
	}
	if v, ok := props["insight"].(string); ok {
		profile.Insight = v
	}
	return profile, nil
}

// ListByCustomer returns a customer's sessions, newest first.
func (r *SessionRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.SessionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		MATCH (:Customer {customer_id: $customer_id})-[:HAS_WEB_DATA]->()-[:HAS_SESSION]->(s:Session)
		RETURN s
		ORDER BY s.session_start DESC
		LIMIT $limit`

	rows, err := r.db.read(ctx, query, map[string]any{
		"customer_id": customerID,
		"limit":       int64(limit),
	})
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// ListImportant returns a customer's sessions at or above minLevel,
// highest score first.
func (r *SessionRepository) ListImportant(ctx context.Context, customerID string, minLevel domain.ImportanceLevel, limit int) ([]domain.SessionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		MATCH (:Customer {customer_id: $customer_id})-[:HAS_WEB_DATA]->()-[:HAS_SESSION]->(s:Session)
		WHERE s.importance_level IN $levels
		RETURN s
		ORDER BY s.importance_score DESC
		LIMIT $limit`

	rows, err := r.db.read(ctx, query, map[string]any{
		"customer_id": customerID,
		"levels":      levelsAtOrAbove(minLevel),
		"limit":       int64(limit),
	})
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func collectRecords(rows []map[string]any) ([]domain.SessionRecord, error) {
	records := make([]domain.SessionRecord, 0, len(rows))
	for _, row := range rows {
		props, ok := nodeProps(row["s"])
		if !ok {
			continue
		}
		records = append(records, domain.RecordFromProperties(props))
	}
	return records, nil
}

func levelsAtOrAbove(min domain.ImportanceLevel) []any {
	all := []domain.ImportanceLevel{
		domain.ImportanceCritical,
		domain.ImportanceSignificant,
		domain.ImportanceModerate,
		domain.ImportanceLow,
	}
	var levels []any
	for _, l := range all {
		if l.AtLeast(min) {
			levels = append(levels, string(l))
		}
	}
	return levels
}
