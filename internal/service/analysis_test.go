package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/calbyte/sessiongraph/internal/config"
	"github.com/calbyte/sessiongraph/internal/domain"
	"github.com/calbyte/sessiongraph/internal/llm"
)

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		MinEventsPerSession: 2,
		SessionGap:          30 * time.Minute,
		GroupingStrategy:    "idle_timeout",
		ImportanceCutoff:    "significant",
	}
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{DefaultProvider: "mock", Timeout: 5 * time.Second}
}

func routerWith(provider llm.Provider) *llm.Router {
	router := llm.NewRouter("mock")
	if provider != nil {
		router.RegisterProvider(provider)
	}
	return router
}

func purchaseEvents(base time.Time) []domain.SessionEvent {
	names := []string{"Search Performed", "Product Viewed", "Product Added", "Checkout Started", "Order Completed"}
	events := make([]domain.SessionEvent, 0, len(names))
	for i, name := range names {
		events = append(events, domain.SessionEvent{
			EventID:   name,
			EventName: name,
			Timestamp: base.Add(time.Duration(i*2) * time.Minute),
		})
	}
	return events
}

func TestAnalyzeEventsPersistsCriticalSession(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	provider := NewMockProvider("mock", true)
	provider.On("AnalyzeSession", mock.Anything, mock.Anything, "").Return(&llm.Response{
		ImportanceScore:  85,
		ConfidenceScore:  0.9,
		SessionSummary:   "Decisive purchase of dog food",
		SessionReasoning: "Completed checkout",
	}, nil)
	provider.On("GenerateInsight", mock.Anything, mock.Anything, "").Return("High-intent shopper", nil)

	repo := new(MockSessionRepository)
	repo.On("MergeSession", mock.Anything, mock.MatchedBy(func(rec domain.SessionRecord) bool {
		return rec.CustomerID == "cust-1" &&
			rec.ImportanceLevel == domain.ImportanceCritical &&
			rec.Narrative == "Decisive purchase of dog food" &&
			strings.Contains(rec.Chronicle, "completed 1 purchase missions")
	})).Return(nil)
	repo.On("MergeWebProfile", mock.Anything, mock.MatchedBy(func(p domain.WebProfile) bool {
		return p.CustomerID == "cust-1" && p.Insight == "High-intent shopper"
	})).Return(nil)

	svc := NewAnalysisService(testAnalysisConfig(), testLLMConfig(), routerWith(provider), nil, repo)

	report, err := svc.AnalyzeEvents(context.Background(), "cust-1", purchaseEvents(base))

	require.NoError(t, err)
	assert.Equal(t, 1, report.SessionsAnalyzed)
	assert.Equal(t, 1, report.SessionsPersisted)
	assert.Zero(t, report.SessionsFailed)
	assert.Equal(t, 0.9, report.AvgConfidence)
	repo.AssertExpectations(t)
}

func TestAnalyzeEventsFallsBackWhenProviderFails(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	provider := NewMockProvider("mock", true)
	provider.On("AnalyzeSession", mock.Anything, mock.Anything, "").Return(nil, errors.New("rate limited"))
	provider.On("GenerateInsight", mock.Anything, mock.Anything, "").Return("", errors.New("rate limited"))

	repo := new(MockSessionRepository)
	repo.On("MergeSession", mock.Anything, mock.Anything).Return(nil)
	repo.On("MergeWebProfile", mock.Anything, mock.Anything).Return(nil)

	svc := NewAnalysisService(testAnalysisConfig(), testLLMConfig(), routerWith(provider), nil, repo)

	report, err := svc.AnalyzeEvents(context.Background(), "cust-1", purchaseEvents(base))

	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	session := report.Results[0].Session
	assert.Equal(t, "Brief browsing session with 5 page views", session.Narrative)
	assert.Equal(t, 0.5, session.ConfidenceScore)
	assert.NotEmpty(t, report.Results[0].Warnings)
	// The rule-built chronicle does not depend on the provider.
	assert.Contains(t, session.Chronicle, "search expeditions")
	// Scoring is unaffected by the narration fallback.
	assert.Equal(t, domain.ImportanceCritical, session.ImportanceLevel)
}

func TestAnalyzeEventsNoProviderConfigured(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	svc := NewAnalysisService(testAnalysisConfig(), testLLMConfig(), routerWith(nil), nil, nil)

	report, err := svc.AnalyzeEvents(context.Background(), "cust-1", purchaseEvents(base))

	require.NoError(t, err)
	assert.Equal(t, 1, report.SessionsAnalyzed)
	assert.Zero(t, report.SessionsPersisted)
	assert.NotEmpty(t, report.Results[0].Warnings)
}

func TestAnalyzeEventsSkipsTinySessions(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	svc := NewAnalysisService(testAnalysisConfig(), testLLMConfig(), routerWith(nil), nil, nil)

	report, err := svc.AnalyzeEvents(context.Background(), "cust-1", []domain.SessionEvent{
		{EventID: "a", EventName: "Page Viewed", Timestamp: base},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.SessionsFound)
	assert.Equal(t, 1, report.SessionsSkipped)
	assert.Zero(t, report.SessionsAnalyzed)
}

func TestAnalyzeEventsImportanceCutoff(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	// Two navigation events score 2: low importance, below the
	// significant cutoff, so nothing is merged.
	repo := new(MockSessionRepository)
	repo.On("MergeWebProfile", mock.Anything, mock.Anything).Return(nil)

	svc := NewAnalysisService(testAnalysisConfig(), testLLMConfig(), routerWith(nil), nil, repo)

	report, err := svc.AnalyzeEvents(context.Background(), "cust-1", []domain.SessionEvent{
		{EventID: "a", EventName: "Page Viewed", Timestamp: base},
		{EventID: "b", EventName: "Page Viewed", Timestamp: base.Add(time.Minute)},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.SessionsAnalyzed)
	assert.Zero(t, report.SessionsPersisted)
	repo.AssertNotCalled(t, "MergeSession", mock.Anything, mock.Anything)
}

func TestAnalyzeEventsPersistErrorContinuesBatch(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	// Two sessions an hour apart; the first merge fails, the second lands.
	events := append(purchaseEvents(base), purchaseEvents(base.Add(2*time.Hour))...)

	repo := new(MockSessionRepository)
	repo.On("MergeSession", mock.Anything, mock.Anything).Return(errors.New("bolt connection reset")).Once()
	repo.On("MergeSession", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("MergeWebProfile", mock.Anything, mock.Anything).Return(nil)

	svc := NewAnalysisService(testAnalysisConfig(), testLLMConfig(), routerWith(nil), nil, repo)

	report, err := svc.AnalyzeEvents(context.Background(), "cust-1", events)

	require.NoError(t, err)
	assert.Equal(t, 1, report.SessionsAnalyzed)
	assert.Equal(t, 1, report.SessionsPersisted)
	assert.Equal(t, 1, report.SessionsFailed)

	// The failed merge poisons that session's result and keeps it out
	// of the run averages.
	require.Len(t, report.Results, 2)
	failed := report.Results[0]
	assert.NotEmpty(t, failed.Errors)
	assert.False(t, failed.IsValid())
	assert.Equal(t, report.Results[1].Session.ConfidenceScore, report.AvgConfidence)
	repo.AssertExpectations(t)
}

func TestAnalyzeEventsEmptyInput(t *testing.T) {
	svc := NewAnalysisService(testAnalysisConfig(), testLLMConfig(), routerWith(nil), nil, nil)

	report, err := svc.AnalyzeEvents(context.Background(), "cust-1", nil)

	require.NoError(t, err)
	assert.Zero(t, report.SessionsFound)
	assert.Zero(t, report.SessionsAnalyzed)
	assert.Zero(t, report.AvgImportance)
}

func TestAnalyzeEventsGroupsExplicitSessionIDs(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	var events []domain.SessionEvent
	for i := 0; i < 3; i++ {
		events = append(events, domain.SessionEvent{
			EventID:    "evt",
			EventName:  "Page Viewed",
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Properties: map[string]string{"session_id": "upstream-1"},
		})
	}

	svc := NewAnalysisService(testAnalysisConfig(), testLLMConfig(), routerWith(nil), nil, nil)

	report, err := svc.AnalyzeEvents(context.Background(), "cust-1", events)

	require.NoError(t, err)
	require.Equal(t, 1, report.SessionsAnalyzed)
	assert.Equal(t, "upstream-1", report.Results[0].Session.SessionID)
}
