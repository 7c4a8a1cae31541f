package domain

import (
	"context"
	"time"
)

// ImportanceLevel is the ordinal business-value tier of a session.
type ImportanceLevel string

const (
	ImportanceCritical    ImportanceLevel = "critical"
	ImportanceSignificant ImportanceLevel = "significant"
	ImportanceModerate    ImportanceLevel = "moderate"
	ImportanceLow         ImportanceLevel = "low"
)

// Rank returns the ordinal position of the level, higher is more important.
func (l ImportanceLevel) Rank() int {
	switch l {
	case ImportanceCritical:
		return 3
	case ImportanceSignificant:
		return 2
	case ImportanceModerate:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether l is at least as important as min.
func (l ImportanceLevel) AtLeast(min ImportanceLevel) bool {
	return l.Rank() >= min.Rank()
}

// SessionChannel is the acquisition channel of a session.
type SessionChannel string

const (
	ChannelDirect        SessionChannel = "Direct"
	ChannelOrganicSearch SessionChannel = "Organic Search"
	ChannelPaidSearch    SessionChannel = "Paid Search"
	ChannelSocial        SessionChannel = "Social"
	ChannelEmail         SessionChannel = "Email"
	ChannelReferral      SessionChannel = "Referral"
	ChannelOther         SessionChannel = "Other"
)

// SessionSummary aggregates behavioral signals across a session's events.
type SessionSummary struct {
	TotalEvents         int      `json:"total_events"`
	UniquePages         int      `json:"unique_pages"`
	TimeSpentMinutes    float64  `json:"time_spent_minutes"`
	Bounce              bool     `json:"bounce"`
	PurchaseIntentScore float64  `json:"purchase_intent_score"`
	EngagementDepth     float64  `json:"engagement_depth"`
	VetCareInterest     float64  `json:"vet_care_interest"`
	RevenueGenerated    float64  `json:"revenue_generated"`
	ItemsPurchased      int      `json:"items_purchased"`
	CartAbandonment     bool     `json:"cart_abandonment"`
	DigitalFootprint    []string `json:"digital_footprint,omitempty"`
}

// Session is a bounded, time-ordered group of events believed to represent
// one continuous visit. Sessions are created by the grouper, enriched in
// place by the scorer and narrative generator, then handed to persistence
// and never mutated again.
type Session struct {
	SessionID  string `json:"session_id"`
	CustomerID string `json:"customer_id"`

	SessionStart time.Time `json:"session_start"`
	SessionEnd   time.Time `json:"session_end"`

	Events []SessionEvent `json:"events,omitempty"`

	Channel         SessionChannel  `json:"channel,omitempty"`
	ImportanceLevel ImportanceLevel `json:"importance_level"`
	ImportanceScore float64         `json:"importance_score"`
	ConfidenceScore float64         `json:"confidence_score"`

	// Chronicle is the rule-built account of what happened during the
	// visit, Narrative the model-written one, and DepartureReason the
	// hypothesis for why it ended.
	Chronicle       string `json:"chronicle,omitempty"`
	Narrative       string `json:"narrative,omitempty"`
	DepartureReason string `json:"departure_reason,omitempty"`

	Summary *SessionSummary `json:"summary,omitempty"`

	// Display ordering only, never used for control flow.
	PreviousSessionID string `json:"previous_session_id,omitempty"`
	NextSessionID     string `json:"next_session_id,omitempty"`
}

// NewSession builds a session from an already time-sorted event slice.
func NewSession(sessionID, customerID string, events []SessionEvent) *Session {
	s := &Session{
		SessionID:       sessionID,
		CustomerID:      customerID,
		Events:          events,
		ImportanceLevel: ImportanceLow,
	}
	if len(events) > 0 {
		s.SessionStart = events[0].Timestamp
		s.SessionEnd = events[len(events)-1].Timestamp
	}
	return s
}

// AddEvent appends an event and advances the session end when the event
// is later than everything seen so far.
func (s *Session) AddEvent(ev SessionEvent) {
	s.Events = append(s.Events, ev)
	if s.SessionStart.IsZero() || ev.Timestamp.Before(s.SessionStart) {
		s.SessionStart = ev.Timestamp
	}
	if ev.Timestamp.After(s.SessionEnd) {
		s.SessionEnd = ev.Timestamp
	}
}

// DurationMinutes is the session span in minutes; zero for sessions with
// fewer than two events.
func (s *Session) DurationMinutes() float64 {
	if len(s.Events) < 2 {
		return 0
	}
	return s.SessionEnd.Sub(s.SessionStart).Minutes()
}

// EventCount returns the number of events in the session.
func (s *Session) EventCount() int {
	return len(s.Events)
}

// Record flattens the session into its persistence template.
func (s *Session) Record() SessionRecord {
	return SessionRecord{
		SessionID:       s.SessionID,
		CustomerID:      s.CustomerID,
		SessionStart:    s.SessionStart,
		SessionEnd:      s.SessionEnd,
		DurationMinutes: s.DurationMinutes(),
		EventCount:      len(s.Events),
		Channel:         s.Channel,
		ImportanceLevel: s.ImportanceLevel,
		ImportanceScore: s.ImportanceScore,
		ConfidenceScore: s.ConfidenceScore,
		Chronicle:       s.Chronicle,
		Narrative:       s.Narrative,
		DepartureReason: s.DepartureReason,
	}
}

// SessionRecord is the flat session shape written to and read from the
// graph store, keyed by session id.
type SessionRecord struct {
	SessionID       string          `json:"session_id"`
	CustomerID      string          `json:"customer_id"`
	SessionStart    time.Time       `json:"session_start"`
	SessionEnd      time.Time       `json:"session_end"`
	DurationMinutes float64         `json:"duration_minutes"`
	EventCount      int             `json:"event_count"`
	Channel         SessionChannel  `json:"channel,omitempty"`
	ImportanceLevel ImportanceLevel `json:"importance_level"`
	ImportanceScore float64         `json:"importance_score"`
	ConfidenceScore float64         `json:"confidence_score"`
	Chronicle       string          `json:"chronicle,omitempty"`
	Narrative       string          `json:"narrative,omitempty"`
	DepartureReason string          `json:"departure_reason,omitempty"`
}

// Properties converts the record into graph node properties.
func (r SessionRecord) Properties() map[string]any {
	return map[string]any{
		"session_id":       r.SessionID,
		"customer_id":      r.CustomerID,
		"session_start":    r.SessionStart.UTC().Format(time.RFC3339Nano),
		"session_end":      r.SessionEnd.UTC().Format(time.RFC3339Nano),
		"duration_minutes": r.DurationMinutes,
		"event_count":      int64(r.EventCount),
		"channel":          string(r.Channel),
		"importance_level": string(r.ImportanceLevel),
		"importance_score": r.ImportanceScore,
		"confidence_score": r.ConfidenceScore,
		"chronicle":        r.Chronicle,
		"narrative":        r.Narrative,
		"departure_reason": r.DepartureReason,
	}
}

// RecordFromProperties rebuilds a record from graph node properties. It is
// the inverse of Properties for every field the store round-trips.
func RecordFromProperties(props map[string]any) SessionRecord {
	r := SessionRecord{
		SessionID:       asString(props["session_id"]),
		CustomerID:      asString(props["customer_id"]),
		DurationMinutes: asFloat(props["duration_minutes"]),
		EventCount:      int(asInt(props["event_count"])),
		Channel:         SessionChannel(asString(props["channel"])),
		ImportanceLevel: ImportanceLevel(asString(props["importance_level"])),
		ImportanceScore: asFloat(props["importance_score"]),
		ConfidenceScore: asFloat(props["confidence_score"]),
		Chronicle:       asString(props["chronicle"]),
		Narrative:       asString(props["narrative"]),
		DepartureReason: asString(props["departure_reason"]),
	}
	if r.ImportanceLevel == "" {
		r.ImportanceLevel = ImportanceLow
	}
	if t, err := time.Parse(time.RFC3339Nano, asString(props["session_start"])); err == nil {
		r.SessionStart = t
	}
	if t, err := time.Parse(time.RFC3339Nano, asString(props["session_end"])); err == nil {
		r.SessionEnd = t
	}
	return r
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

// WebProfile is the customer-level rollup stored alongside sessions.
type WebProfile struct {
	CustomerID         string  `json:"customer_id"`
	TotalSessions      int     `json:"total_sessions"`
	AvgImportanceScore float64 `json:"avg_importance_score"`
	AvgConfidence      float64 `json:"avg_confidence"`
	Insight            string  `json:"insight"`
}

// SessionAnalysisResult wraps one analyzed session with processing metadata.
type SessionAnalysisResult struct {
	Session            *Session `json:"session"`
	ProcessingTimeMs   float64  `json:"processing_time_ms"`
	EventsProcessed    int      `json:"events_processed"`
	AnalysisConfidence float64  `json:"analysis_confidence"`
	Warnings           []string `json:"warnings,omitempty"`
	Errors             []string `json:"errors,omitempty"`
}

// IsValid reports whether the analysis produced a usable result.
func (r SessionAnalysisResult) IsValid() bool {
	return len(r.Errors) == 0 && r.Session != nil && r.Session.SessionID != ""
}

// QualityScore discounts the analysis confidence by warning and error
// counts. Descriptive only; it never gates persistence.
func (r SessionAnalysisResult) QualityScore() float64 {
	score := r.AnalysisConfidence
	score -= float64(len(r.Warnings)) * 0.05
	score -= float64(len(r.Errors)) * 0.2
	if score < 0 {
		return 0
	}
	return score
}

// SessionRepository is the graph-store contract for session records. Merge
// operations are idempotent, keyed by session id.
type SessionRepository interface {
	MergeSession(ctx context.Context, rec SessionRecord) error
	MergeWebProfile(ctx context.Context, profile WebProfile) error
	GetSession(ctx context.Context, sessionID string) (*SessionRecord, error)
	GetWebProfile(ctx context.Context, customerID string) (*WebProfile, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]SessionRecord, error)
	ListImportant(ctx context.Context, customerID string, minLevel ImportanceLevel, limit int) ([]SessionRecord, error)
}
