package tools

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/calbyte/sessiongraph/internal/domain"
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

// MockCustomerRepository mocks the CustomerRepository interface
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ListPets(ctx context.Context, customerID string) ([]domain.Pet, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Pet), args.Error(1)
}

func (m *MockCustomerRepository) GetMedicalHistory(ctx context.Context, customerID, petName string) (*domain.MedicalHistory, error) {
	args := m.Called(ctx, customerID, petName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MedicalHistory), args.Error(1)
}

func (m *MockCustomerRepository) ListProductInteractions(ctx context.Context, customerID string, limit int) ([]domain.ProductInteraction, error) {
	args := m.Called(ctx, customerID, limit)
	return args.Get(0).([]domain.ProductInteraction), args.Error(1)
}

// MockGraphQuerier mocks the GraphQuerier interface
type MockGraphQuerier struct {
	mock.Mock
}

func (m *MockGraphQuerier) ReadQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	args := m.Called(ctx, query, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}
