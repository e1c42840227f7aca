package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claude-chat/backend/internal/model"
)

// MockRepository is a testify mock for repository.Repository.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a mock and registers expectation checks on test cleanup.
func NewMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	return m.Called(ctx, conv).Error(0)
}

func (m *MockRepository) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv *model.Conversation
	if v := args.Get(0); v != nil {
		conv = v.(*model.Conversation)
	}
	return conv, args.Error(1)
}

func (m *MockRepository) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	args := m.Called(ctx)
	var convs []*model.Conversation
	if v := args.Get(0); v != nil {
		convs = v.([]*model.Conversation)
	}
	return convs, args.Error(1)
}

func (m *MockRepository) UpdateConversationTitle(ctx context.Context, conversationID, newTitle string) error {
	return m.Called(ctx, conversationID, newTitle).Error(0)
}

func (m *MockRepository) UpdateConversationModel(ctx context.Context, conversationID, modelName string) error {
	return m.Called(ctx, conversationID, modelName).Error(0)
}

func (m *MockRepository) DeleteConversation(ctx context.Context, conversationID string) error {
	return m.Called(ctx, conversationID).Error(0)
}

func (m *MockRepository) AddMessage(ctx context.Context, message *model.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockRepository) GetMessage(ctx context.Context, messageID string) (*model.Message, error) {
	args := m.Called(ctx, messageID)
	var msg *model.Message
	if v := args.Get(0); v != nil {
		msg = v.(*model.Message)
	}
	return msg, args.Error(1)
}

func (m *MockRepository) GetActiveMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	args := m.Called(ctx, conversationID)
	var msgs []model.Message
	if v := args.Get(0); v != nil {
		msgs = v.([]model.Message)
	}
	return msgs, args.Error(1)
}

func (m *MockRepository) ReplaceMessage(ctx context.Context, oldMessageID string, message *model.Message) error {
	return m.Called(ctx, oldMessageID, message).Error(0)
}
