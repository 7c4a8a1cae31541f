package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportanceLevelOrdering(t *testing.T) {
	assert.True(t, ImportanceCritical.AtLeast(ImportanceSignificant))
	assert.True(t, ImportanceSignificant.AtLeast(ImportanceSignificant))
	assert.False(t, ImportanceModerate.AtLeast(ImportanceSignificant))
	assert.True(t, ImportanceLow.AtLeast(ImportanceLow))
	// Unknown levels rank lowest.
	assert.False(t, ImportanceLevel("banana").AtLeast(ImportanceModerate))
}

func TestNewSessionBounds(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	events := []SessionEvent{
		{EventID: "a", EventName: "Page Viewed", Timestamp: base},
		{EventID: "b", EventName: "Page Viewed", Timestamp: base.Add(12 * time.Minute)},
	}

	s := NewSession("session-1", "cust-1", events)

	assert.Equal(t, base, s.SessionStart)
	assert.Equal(t, base.Add(12*time.Minute), s.SessionEnd)
	assert.Equal(t, 12.0, s.DurationMinutes())
	assert.Equal(t, 2, s.EventCount())
	assert.Equal(t, ImportanceLow, s.ImportanceLevel)
}

func TestAddEventAdvancesBounds(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	s := NewSession("session-1", "cust-1", nil)

	s.AddEvent(SessionEvent{EventID: "b", Timestamp: base.Add(5 * time.Minute)})
	s.AddEvent(SessionEvent{EventID: "a", Timestamp: base})
	s.AddEvent(SessionEvent{EventID: "c", Timestamp: base.Add(10 * time.Minute)})

	assert.Equal(t, base, s.SessionStart)
	assert.Equal(t, base.Add(10*time.Minute), s.SessionEnd)
}

func TestDurationRequiresTwoEvents(t *testing.T) {
	s := NewSession("session-1", "cust-1", []SessionEvent{
		{EventID: "a", Timestamp: time.Now()},
	})
	assert.Zero(t, s.DurationMinutes())
}

func TestRecordRoundTrip(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	rec := SessionRecord{
		SessionID:       "session-1",
		CustomerID:      "cust-1",
		SessionStart:    base,
		SessionEnd:      base.Add(20 * time.Minute),
		DurationMinutes: 20,
		EventCount:      14,
		Channel:         ChannelOrganicSearch,
		ImportanceLevel: ImportanceCritical,
		ImportanceScore: 87.5,
		ConfidenceScore: 0.8,
		Chronicle:       "Bought dog food",
		Narrative:       "Decisive purchase session",
		DepartureReason: "Mission accomplished",
	}

	restored := RecordFromProperties(rec.Properties())

	assert.Equal(t, rec, restored)
}

func TestRecordFromPropertiesDefaults(t *testing.T) {
	rec := RecordFromProperties(map[string]any{
		"session_id":  "session-1",
		"customer_id": "cust-1",
		// Stores may widen numerics.
		"event_count":      float64(7),
		"importance_score": int64(42),
	})

	assert.Equal(t, 7, rec.EventCount)
	assert.Equal(t, 42.0, rec.ImportanceScore)
	assert.Equal(t, ImportanceLow, rec.ImportanceLevel)
	assert.True(t, rec.SessionStart.IsZero())
}

func TestAnalysisResultValidity(t *testing.T) {
	valid := SessionAnalysisResult{Session: &Session{SessionID: "s1"}}
	assert.True(t, valid.IsValid())

	assert.False(t, SessionAnalysisResult{}.IsValid())
	assert.False(t, SessionAnalysisResult{Session: &Session{}}.IsValid())

	failed := SessionAnalysisResult{Session: &Session{SessionID: "s1"}, Errors: []string{"boom"}}
	assert.False(t, failed.IsValid())
}

func TestQualityScoreDiscounts(t *testing.T) {
	r := SessionAnalysisResult{AnalysisConfidence: 0.8}
	require.Equal(t, 0.8, r.QualityScore())

	r.Warnings = []string{"w1", "w2"}
	assert.InDelta(t, 0.7, r.QualityScore(), 1e-9)

	r.Errors = []string{"e1"}
	assert.InDelta(t, 0.5, r.QualityScore(), 1e-9)

	r.AnalysisConfidence = 0.1
	assert.Zero(t, r.QualityScore())
}
