package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/calbyte/sessiongraph/internal/analysis"
	"github.com/calbyte/sessiongraph/internal/config"
	"github.com/calbyte/sessiongraph/internal/domain"
	"github.com/calbyte/sessiongraph/internal/ingest"
	"github.com/calbyte/sessiongraph/internal/llm"
	"github.com/calbyte/sessiongraph/internal/repository/redis"
)

// AnalysisService reconstructs sessions from raw clickstream events,
// scores them, narrates them and persists the interesting ones.
type AnalysisService struct {
	cfg       config.AnalysisConfig
	parser    *analysis.Parser
	grouper   analysis.Grouper
	llmRouter *llm.Router
	llmModel  string
	timeout   time.Duration
	cache     *redis.NarrativeCache
	sessions  domain.SessionRepository
}

// NewAnalysisService creates an analysis service. cache may be nil when
// Redis is unavailable; sessions may be nil for dry runs.
func NewAnalysisService(
	cfg config.AnalysisConfig,
	llmCfg config.LLMConfig,
	llmRouter *llm.Router,
	cache *redis.NarrativeCache,
	sessions domain.SessionRepository,
) *AnalysisService {
	timeout := llmCfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AnalysisService{
		cfg:       cfg,
		parser:    analysis.NewParser(),
		grouper:   analysis.NewGrouper(cfg.GroupingStrategy, cfg.SessionGap),
		llmRouter: llmRouter,
		timeout:   timeout,
		cache:     cache,
		sessions:  sessions,
	}
}

// Report summarizes one analysis run.
type Report struct {
	RunID             string    `json:"run_id"`
	CustomerID        string    `json:"customer_id"`
	EventsRead        int       `json:"events_read"`
	EventsDropped     int       `json:"events_dropped"`
	SessionsFound     int       `json:"sessions_found"`
	SessionsAnalyzed  int       `json:"sessions_analyzed"`
	SessionsSkipped   int       `json:"sessions_skipped"`
	SessionsPersisted int       `json:"sessions_persisted"`
	SessionsFailed    int       `json:"sessions_failed"`
	AvgImportance     float64   `json:"avg_importance"`
	AvgConfidence     float64   `json:"avg_confidence"`
	StartedAt         time.Time `json:"started_at"`
	DurationMs        int64     `json:"duration_ms"`

	Results []domain.SessionAnalysisResult `json:"results,omitempty"`
}

// AnalyzeFile reads a clickstream CSV export and analyzes every session
// found for the customer.
func (s *AnalysisService) AnalyzeFile(ctx context.Context, path, customerID string) (*Report, error) {
	reader, err := ingest.OpenCSV(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var events []domain.SessionEvent
	dropped := 0
	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		// Column-level filter: exports can mix customers.
		if customerID != "" {
			if id := row[analysis.ColCustomerID]; id != "" && id != customerID {
				continue
			}
		}

		ev, ok := s.parser.Parse(row)
		if !ok {
			dropped++
			continue
		}
		events = append(events, *ev)
	}

	report, err := s.AnalyzeEvents(ctx, customerID, events)
	if err != nil {
		return nil, err
	}
	report.EventsDropped = dropped
	return report, nil
}

// AnalyzeEvents groups a customer's events into sessions and analyzes
// each one. Sessions below the configured event minimum are skipped; a
// failed persist is recorded but does not stop the batch.
func (s *AnalysisService) AnalyzeEvents(ctx context.Context, customerID string, events []domain.SessionEvent) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:      uuid.New().String(),
		CustomerID: customerID,
		EventsRead: len(events),
		StartedAt:  start,
	}

	groups := s.grouper.Group(customerID, events)
	report.SessionsFound = len(groups)

	minEvents := s.cfg.MinEventsPerSession
	if minEvents <= 0 {
		minEvents = 2
	}
	cutoff := domain.ImportanceLevel(s.cfg.ImportanceCutoff)
	if cutoff.Rank() == 0 && cutoff != domain.ImportanceLow {
		cutoff = domain.ImportanceSignificant
	}

	// Deterministic processing order regardless of map iteration.
	sessionIDs := make([]string, 0, len(groups))
	for id := range groups {
		sessionIDs = append(sessionIDs, id)
	}
	sort.Strings(sessionIDs)

	var importanceSum, confidenceSum float64

	for _, sessionID := range sessionIDs {
		group := groups[sessionID]
		if len(group) < minEvents {
			report.SessionsSkipped++
			log.Debug().
				Str("session_id", sessionID).
				Int("events", len(group)).
				Msg("session below event minimum, skipped")
			continue
		}

		result := s.analyzeSession(ctx, sessionID, customerID, group)

		// A persist failure is fatal to this session's result; the
		// batch keeps going.
		if result.IsValid() && s.sessions != nil && result.Session.ImportanceLevel.AtLeast(cutoff) {
			if err := s.sessions.MergeSession(ctx, result.Session.Record()); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("persist session: %v", err))
				log.Error().Err(err).Str("session_id", sessionID).Msg("failed to persist session")
			} else {
				report.SessionsPersisted++
			}
		}

		report.Results = append(report.Results, result)

		if !result.IsValid() {
			report.SessionsFailed++
			continue
		}
		report.SessionsAnalyzed++
		importanceSum += result.Session.ImportanceScore
		confidenceSum += result.Session.ConfidenceScore
	}

	if report.SessionsAnalyzed > 0 {
		report.AvgImportance = importanceSum / float64(report.SessionsAnalyzed)
		report.AvgConfidence = confidenceSum / float64(report.SessionsAnalyzed)
	}
	report.DurationMs = time.Since(start).Milliseconds()

	if s.sessions != nil && report.SessionsAnalyzed > 0 {
		if err := s.mergeWebProfile(ctx, report); err != nil {
			log.Error().Err(err).Str("customer_id", customerID).Msg("failed to persist web profile")
		}
	}

	log.Info().
		Str("run_id", report.RunID).
		Str("customer_id", customerID).
		Int("sessions_analyzed", report.SessionsAnalyzed).
		Int("sessions_persisted", report.SessionsPersisted).
		Float64("avg_importance", report.AvgImportance).
		Msg("analysis run complete")

	return report, nil
}

// analyzeSession runs the full pipeline for one session: score, model
// narration with deterministic fallback, then the rule-based enrichment.
func (s *AnalysisService) analyzeSession(ctx context.Context, sessionID, customerID string, events []domain.SessionEvent) domain.SessionAnalysisResult {
	start := time.Now()
	session := domain.NewSession(sessionID, customerID, events)
	result := domain.SessionAnalysisResult{
		Session:         session,
		EventsProcessed: len(events),
	}

	session.ImportanceScore, session.ImportanceLevel = analysis.ScoreEvents(events)
	session.Channel = analysis.DetectChannel(events)
	session.Summary = analysis.Summarize(session)
	session.Chronicle = analysis.GenerateChronicle(session)
	session.DepartureReason = analysis.ClassifyDeparture(events)

	narrative, warning := s.narrate(ctx, session)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	session.Narrative = narrative.SessionSummary
	session.ConfidenceScore = narrative.ConfidenceScore

	result.AnalysisConfidence = analysis.ConfidenceScore(session)
	result.ProcessingTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return result
}

// narrate asks the configured model to summarize the session, with a
// cache in front and a deterministic fallback behind. The returned
// warning is non-empty when the fallback was used.
func (s *AnalysisService) narrate(ctx context.Context, session *domain.Session) (*llm.Response, string) {
	if cached, err := s.cache.Get(ctx, session.SessionID); err == nil && cached != nil {
		return cached, ""
	}

	req := llm.NewRequest(session)

	provider, err := s.llmRouter.GetProvider("")
	if err != nil {
		return llm.FallbackAnalysis(req), fmt.Sprintf("no model provider available: %v", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := provider.AnalyzeSession(callCtx, req, s.llmModel)
	if err != nil {
		log.Warn().Err(err).Str("session_id", session.SessionID).Msg("model analysis failed, using fallback")
		return llm.FallbackAnalysis(req), fmt.Sprintf("model analysis failed: %v", err)
	}

	if err := s.cache.Set(ctx, session.SessionID, resp); err != nil {
		log.Warn().Err(err).Str("session_id", session.SessionID).Msg("failed to cache analysis")
	}
	return resp, ""
}

// mergeWebProfile rolls the run up onto the customer's WebData node,
// with a model-written insight when a provider is available.
func (s *AnalysisService) mergeWebProfile(ctx context.Context, report *Report) error {
	critical := 0
	for _, result := range report.Results {
		if result.IsValid() && result.Session.ImportanceLevel == domain.ImportanceCritical {
			critical++
		}
	}

	stats := llm.CustomerStats{
		CustomerID:       report.CustomerID,
		TotalSessions:    report.SessionsAnalyzed,
		AvgImportance:    report.AvgImportance,
		AvgConfidence:    report.AvgConfidence,
		CriticalSessions: critical,
	}

	insight := llm.FallbackInsight(stats)
	if provider, err := s.llmRouter.GetProvider(""); err == nil {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		generated, err := provider.GenerateInsight(callCtx, stats, s.llmModel)
		cancel()
		if err == nil && generated != "" {
			insight = generated
		}
	}

	return s.sessions.MergeWebProfile(ctx, domain.WebProfile{
		CustomerID:         report.CustomerID,
		TotalSessions:      report.SessionsAnalyzed,
		AvgImportanceScore: report.AvgImportance,
		AvgConfidence:      report.AvgConfidence,
		Insight:            insight,
	})
}
