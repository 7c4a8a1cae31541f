package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/calbyte/sessiongraph/internal/llm"
)

// Provider implements llm.Provider for OpenAI
type Provider struct {
	apiKey       string
	defaultModel string
	client       *http.Client
	baseURL      string
}

// NewProvider creates a new OpenAI provider
func NewProvider(apiKey, defaultModel string) llm.Provider {
	if defaultModel == "" {
		defaultModel = "gpt-4o-mini"
	}
	return &Provider{
		apiKey:       apiKey,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: 120 * time.Second},
		baseURL:      "https://api.openai.com/v1",
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "openai"
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-4-turbo",
		"gpt-3.5-turbo",
	}
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// AnalyzeSession scores and summarizes one session
func (p *Provider) AnalyzeSession(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if model == "" {
		model = p.defaultModel
	}

	content, latencyMs, err := p.chat(ctx, model, llm.BuildAnalysisPrompt(req),
		"You are a session analysis engine for an e-commerce analytics platform. Respond with ONLY the requested JSON object.")
	if err != nil {
		return nil, err
	}

	resp, err := llm.ParseAnalysis(content)
	if err != nil {
		return nil, err
	}
	resp.Model = model
	resp.LatencyMs = latencyMs
	return resp, nil
}

// GenerateInsight writes a one-line behavioral profile for a customer
func (p *Provider) GenerateInsight(ctx context.Context, stats llm.CustomerStats, model string) (string, error) {
	if model == "" {
		model = p.defaultModel
	}

	content, _, err := p.chat(ctx, model, llm.BuildInsightPrompt(stats),
		"You are a customer analytics assistant. Respond with exactly one sentence, no markdown.")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (p *Provider) chat(ctx context.Context, model, prompt, system string) (string, int64, error) {
	chatReq := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("openai returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", 0, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", 0, fmt.Errorf("no response from OpenAI")
	}

	return chatResp.Choices[0].Message.Content, time.Since(start).Milliseconds(), nil
}
