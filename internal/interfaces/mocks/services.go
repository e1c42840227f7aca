package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claude-chat/backend/internal/export"
	"claude-chat/backend/internal/model"
	"claude-chat/backend/internal/service"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockChatService is a testify mock for interfaces.ChatService.
type MockChatService struct {
	mock.Mock
}

func NewMockChatService(t testingT) *MockChatService {
	m := &MockChatService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockChatService) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	args := m.Called(ctx)
	var convs []*model.Conversation
	if v := args.Get(0); v != nil {
		convs = v.([]*model.Conversation)
	}
	return convs, args.Error(1)
}

func (m *MockChatService) GetFullConversation(ctx context.Context, conversationID string) (*model.FullConversation, error) {
	args := m.Called(ctx, conversationID)
	var full *model.FullConversation
	if v := args.Get(0); v != nil {
		full = v.(*model.FullConversation)
	}
	return full, args.Error(1)
}

func (m *MockChatService) UpdateConversationTitle(ctx context.Context, conversationID, newTitle string) error {
	return m.Called(ctx, conversationID, newTitle).Error(0)
}

func (m *MockChatService) DeleteConversation(ctx context.Context, conversationID string) error {
	return m.Called(ctx, conversationID).Error(0)
}

func (m *MockChatService) CancelStream(ctx context.Context, conversationID string) error {
	return m.Called(ctx, conversationID).Error(0)
}

func (m *MockChatService) ExportConversation(ctx context.Context, conversationID string, format export.Format) ([]byte, string, error) {
	args := m.Called(ctx, conversationID, format)
	var body []byte
	if v := args.Get(0); v != nil {
		body = v.([]byte)
	}
	return body, args.String(1), args.Error(2)
}

func (m *MockChatService) HandleNewMessage(ctx context.Context, req *service.CreateMessageRequest, streamChan chan<- model.StreamResponse) {
	m.Called(ctx, req, streamChan)
}

func (m *MockChatService) RegenerateMessage(ctx context.Context, conversationID, messageID string, req *service.RegenerateMessageRequest, streamChan chan<- model.StreamResponse) {
	m.Called(ctx, conversationID, messageID, req, streamChan)
}

// MockSettingsService is a testify mock for interfaces.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func NewMockSettingsService(t testingT) *MockSettingsService {
	m := &MockSettingsService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSettingsService) InitAndGet(ctx context.Context, defaults service.SettingsDefaults) (*service.Settings, error) {
	args := m.Called(ctx, defaults)
	return settingsArg(args.Get(0)), args.Error(1)
}

func (m *MockSettingsService) Get(ctx context.Context) (*service.Settings, error) {
	args := m.Called(ctx)
	return settingsArg(args.Get(0)), args.Error(1)
}

func (m *MockSettingsService) Save(ctx context.Context, settings *service.Settings) error {
	return m.Called(ctx, settings).Error(0)
}

func settingsArg(v interface{}) *service.Settings {
	if v == nil {
		return nil
	}
	return v.(*service.Settings)
}

// MockModelService is a testify mock for interfaces.ModelService.
type MockModelService struct {
	mock.Mock
}

func NewMockModelService(t testingT) *MockModelService {
	m := &MockModelService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockModelService) ListModels(ctx context.Context) ([]service.ModelSummary, error) {
	args := m.Called(ctx)
	var models []service.ModelSummary
	if v := args.Get(0); v != nil {
		models = v.([]service.ModelSummary)
	}
	return models, args.Error(1)
}

// MockComparisonService is a testify mock for interfaces.ComparisonService.
type MockComparisonService struct {
	mock.Mock
}

func NewMockComparisonService(t testingT) *MockComparisonService {
	m := &MockComparisonService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockComparisonService) Compare(ctx context.Context, req *service.ComparisonRequest) (*service.ComparisonReport, error) {
	args := m.Called(ctx, req)
	var report *service.ComparisonReport
	if v := args.Get(0); v != nil {
		report = v.(*service.ComparisonReport)
	}
	return report, args.Error(1)
}

// MockDocumentService is a testify mock for interfaces.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func NewMockDocumentService(t testingT) *MockDocumentService {
	m := &MockDocumentService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDocumentService) Extract(ctx context.Context, doc *service.Document) (*service.ExtractResult, error) {
	args := m.Called(ctx, doc)
	var result *service.ExtractResult
	if v := args.Get(0); v != nil {
		result = v.(*service.ExtractResult)
	}
	return result, args.Error(1)
}

func (m *MockDocumentService) FormatJSON(ctx context.Context, req *service.FormatJSONRequest) (*service.FormatJSONResult, error) {
	args := m.Called(ctx, req)
	var result *service.FormatJSONResult
	if v := args.Get(0); v != nil {
		result = v.(*service.FormatJSONResult)
	}
	return result, args.Error(1)
}

func (m *MockDocumentService) ConvertCSV(ctx context.Context, req *service.ConvertCSVRequest) (*service.ConvertCSVResult, error) {
	args := m.Called(ctx, req)
	var result *service.ConvertCSVResult
	if v := args.Get(0); v != nil {
		result = v.(*service.ConvertCSVResult)
	}
	return result, args.Error(1)
}

func (m *MockDocumentService) Analyze(ctx context.Context, doc *service.Document, instruction string) (*service.AnalysisResult, error) {
	args := m.Called(ctx, doc, instruction)
	var result *service.AnalysisResult
	if v := args.Get(0); v != nil {
		result = v.(*service.AnalysisResult)
	}
	return result, args.Error(1)
}
