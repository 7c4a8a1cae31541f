package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildAnalysisPrompt creates the session analysis prompt. The model is
// asked for a strict JSON object so ParseAnalysis can decode it.
func BuildAnalysisPrompt(req Request) string {
	events, _ := json.MarshalIndent(req.Events, "", "  ")

	return fmt.Sprintf(`You are analyzing an e-commerce browsing session for a pet supplies store.

Session overview:
- Session start: %s
- Total events: %d
- Duration: %.1f minutes

First events (up to %d):
%s

Score the session's business importance from 0 to 100, where purchases,
vet appointments and prescriptions matter most, carts and account activity
matter somewhat, and plain browsing matters least.

Respond with ONLY a JSON object, no explanations or markdown:
{
  "importance_score": <0-100>,
  "confidence_score": <0.0-1.0>,
  "session_summary": "<one sentence describing what the user did>",
  "session_reasoning": "<one sentence explaining the score>"
}`, req.SessionStart, req.EventCount, req.DurationMinutes, maxDigestEvents, events)
}

// BuildInsightPrompt creates the customer profile prompt.
func BuildInsightPrompt(stats CustomerStats) string {
	return fmt.Sprintf(`You are profiling a pet supplies store customer from their session history.

- Total analyzed sessions: %d
- Average importance score: %.1f
- Average analysis confidence: %.2f
- Critical sessions: %d

Respond with ONLY one sentence describing this customer's shopping behavior. No markdown.`,
		stats.TotalSessions, stats.AvgImportance, stats.AvgConfidence, stats.CriticalSessions)
}

// ParseAnalysis decodes a model reply into a Response. Markdown code
// fences are stripped first; a reply missing the summary or carrying
// out-of-range scores is rejected so the caller can fall back.
func ParseAnalysis(content string) (*Response, error) {
	cleaned := stripCodeFence(content)
	if cleaned == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var resp Response
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}

	if resp.SessionSummary == "" {
		return nil, fmt.Errorf("analysis response missing session_summary")
	}

	if resp.ImportanceScore < 0 {
		resp.ImportanceScore = 0
	}
	if resp.ImportanceScore > 100 {
		resp.ImportanceScore = 100
	}
	if resp.ConfidenceScore < 0 {
		resp.ConfidenceScore = 0
	}
	if resp.ConfidenceScore > 1 {
		resp.ConfidenceScore = 1
	}

	return &resp, nil
}

func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
