package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/calbyte/sessiongraph/internal/domain"
	"github.com/calbyte/sessiongraph/internal/llm"
)

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) MergeSession(ctx context.Context, rec domain.SessionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockSessionRepository) MergeWebProfile(ctx context.Context, profile domain.WebProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockSessionRepository) GetSession(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionRecord), args.Error(1)
}

func (m *MockSessionRepository) GetWebProfile(ctx context.Context, customerID string) (*domain.WebProfile, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebProfile), args.Error(1)
}

func (m *MockSessionRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.SessionRecord, error) {
	args := m.Called(ctx, customerID, limit)
	return args.Get(0).([]domain.SessionRecord), args.Error(1)
}

func (m *MockSessionRepository) ListImportant(ctx context.Context, customerID string, minLevel domain.ImportanceLevel, limit int) ([]domain.SessionRecord, error) {
	args := m.Called(ctx, customerID, minLevel, limit)
	return args.Get(0).([]domain.SessionRecord), args.Error(1)
}

// MockProvider mocks the llm.Provider interface
type MockProvider struct {
	mock.Mock
	name       string
	configured bool
}

func NewMockProvider(name string, configured bool) *MockProvider {
	return &MockProvider{name: name, configured: configured}
}

func (m *MockProvider) Name() string              { return m.name }
func (m *MockProvider) AvailableModels() []string { return []string{"mock-1"} }
func (m *MockProvider) DefaultModel() string      { return "mock-1" }
func (m *MockProvider) IsConfigured() bool        { return m.configured }

func (m *MockProvider) AnalyzeSession(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	args := m.Called(ctx, req, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

func (m *MockProvider) GenerateInsight(ctx context.Context, stats llm.CustomerStats, model string) (string, error) {
	args := m.Called(ctx, stats, model)
	return args.String(0), args.Error(1)
}
