package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claude-chat/backend/internal/llm"
)

// MockLLMProvider is a testify mock for llm.LLMProvider.
type MockLLMProvider struct {
	mock.Mock
}

// NewMockLLMProvider creates a mock and registers expectation checks on test cleanup.
func NewMockLLMProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLLMProvider {
	m := &MockLLMProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLLMProvider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	args := m.Called(ctx, req)
	var resp *llm.GenerateResponse
	if v := args.Get(0); v != nil {
		resp = v.(*llm.GenerateResponse)
	}
	return resp, args.Error(1)
}

func (m *MockLLMProvider) GenerateStream(ctx context.Context, req *llm.GenerateRequest, ch chan<- llm.StreamResponse) error {
	args := m.Called(ctx, req, ch)
	return args.Error(0)
}

func (m *MockLLMProvider) ListModels(ctx context.Context) (*llm.ListModelsResponse, error) {
	args := m.Called(ctx)
	var resp *llm.ListModelsResponse
	if v := args.Get(0); v != nil {
		resp = v.(*llm.ListModelsResponse)
	}
	return resp, args.Error(1)
}
