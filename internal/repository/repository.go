package repository

import (
	"context"

	"claude-chat/backend/internal/model"
)

// Repository defines the interface for data storage operations.
// This interface makes it easy to switch database implementations.
type Repository interface {
	CreateConversation(ctx context.Context, conv *model.Conversation) error
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	ListConversations(ctx context.Context) ([]*model.Conversation, error)
	UpdateConversationTitle(ctx context.Context, conversationID, newTitle string) error
	UpdateConversationModel(ctx context.Context, conversationID, modelName string) error
	DeleteConversation(ctx context.Context, conversationID string) error

	AddMessage(ctx context.Context, message *model.Message) error
	GetMessage(ctx context.Context, messageID string) (*model.Message, error)
	GetActiveMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	ReplaceMessage(ctx context.Context, oldMessageID string, message *model.Message) error
}
