package llm

import "fmt"

// FallbackAnalysis produces a deterministic analysis when no provider is
// configured or the model call fails. The templates key off event volume
// only, so the result is stable for a given session.
func FallbackAnalysis(req Request) *Response {
	switch {
	case req.EventCount > 15:
		return &Response{
			ImportanceScore: 0.7,
			ConfidenceScore: 0.6,
			SessionSummary: fmt.Sprintf(
				"Conducted extensive exploration with %d interactions over %.1f minutes",
				req.EventCount, req.DurationMinutes),
			SessionReasoning: "Research-oriented behavior suggesting comparison shopping and careful consideration",
			Model:            "fallback",
		}
	case req.EventCount > 5:
		return &Response{
			ImportanceScore: 0.5,
			ConfidenceScore: 0.5,
			SessionSummary: fmt.Sprintf(
				"Moderate browsing session with %d page views over %.1f minutes",
				req.EventCount, req.DurationMinutes),
			SessionReasoning: "Standard exploration behavior with moderate engagement depth",
			Model:            "fallback",
		}
	default:
		return &Response{
			ImportanceScore: 0.4,
			ConfidenceScore: 0.5,
			SessionSummary: fmt.Sprintf(
				"Brief browsing session with %d page views", req.EventCount),
			SessionReasoning: "Casual exploration behavior with limited engagement depth",
			Model:            "fallback",
		}
	}
}

// FallbackInsight is the customer profile used when no provider is
// available.
func FallbackInsight(stats CustomerStats) string {
	switch {
	case stats.CriticalSessions > 0:
		return fmt.Sprintf(
			"High-value customer with %d critical sessions out of %d analyzed",
			stats.CriticalSessions, stats.TotalSessions)
	case stats.AvgImportance >= 20:
		return fmt.Sprintf(
			"Engaged customer averaging %.1f importance across %d sessions",
			stats.AvgImportance, stats.TotalSessions)
	default:
		return fmt.Sprintf(
			"Casual browser with %d low-engagement sessions", stats.TotalSessions)
	}
}
