package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/calbyte/sessiongraph/internal/llm"
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(apiKey, model string) *Provider {
	return &Provider{
		apiKey: apiKey,
		model:  model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) AnalyzeSession(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	content, latency, model, err := p.generate(ctx, model, llm.BuildAnalysisPrompt(req))
	if err != nil {
		return nil, err
	}

	resp, err := llm.ParseAnalysis(content)
	if err != nil {
		return nil, err
	}
	resp.Model = model
	resp.LatencyMs = latency
	return resp, nil
}

func (p *Provider) GenerateInsight(ctx context.Context, stats llm.CustomerStats, model string) (string, error) {
	content, _, _, err := p.generate(ctx, model, llm.BuildInsightPrompt(stats))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (p *Provider) generate(ctx context.Context, model, prompt string) (string, int64, string, error) {
	if !p.IsConfigured() {
		return "", 0, "", fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	if model == "" {
		model = p.DefaultModel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", 0, "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	var temperature float32 = 0.7
	generativeModel.Temperature = &temperature

	start := time.Now()
	resp, err := generativeModel.GenerateContent(ctx, genai.Text(prompt))
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return "", 0, "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", 0, "", fmt.Errorf("empty response from gemini")
	}

	var output string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output += string(text)
		}
	}

	return output, latency, model, nil
}
