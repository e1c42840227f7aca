package interfaces

import (
	"context"

	"claude-chat/backend/internal/export"
	"claude-chat/backend/internal/model"
	"claude-chat/backend/internal/service"
)

// The API layer depends on these contracts rather than on concrete services,
// so handlers can be tested against mocks.

// ChatService defines the contract for conversation and streaming logic.
type ChatService interface {
	ListConversations(ctx context.Context) ([]*model.Conversation, error)
	GetFullConversation(ctx context.Context, conversationID string) (*model.FullConversation, error)
	UpdateConversationTitle(ctx context.Context, conversationID, newTitle string) error
	DeleteConversation(ctx context.Context, conversationID string) error
	CancelStream(ctx context.Context, conversationID string) error
	ExportConversation(ctx context.Context, conversationID string, format export.Format) ([]byte, string, error)
	HandleNewMessage(ctx context.Context, req *service.CreateMessageRequest, streamChan chan<- model.StreamResponse)
	RegenerateMessage(ctx context.Context, conversationID, messageID string, req *service.RegenerateMessageRequest, streamChan chan<- model.StreamResponse)
}

// SettingsService defines the contract for managing application settings.
type SettingsService interface {
	InitAndGet(ctx context.Context, defaults service.SettingsDefaults) (*service.Settings, error)
	Get(ctx context.Context) (*service.Settings, error)
	Save(ctx context.Context, settings *service.Settings) error
}

// ModelService lists the models a user can pick from.
type ModelService interface {
	ListModels(ctx context.Context) ([]service.ModelSummary, error)
}

// ComparisonService runs one prompt against several models.
type ComparisonService interface {
	Compare(ctx context.Context, req *service.ComparisonRequest) (*service.ComparisonReport, error)
}

// DocumentService covers the document utilities.
type DocumentService interface {
	Extract(ctx context.Context, doc *service.Document) (*service.ExtractResult, error)
	FormatJSON(ctx context.Context, req *service.FormatJSONRequest) (*service.FormatJSONResult, error)
	ConvertCSV(ctx context.Context, req *service.ConvertCSVRequest) (*service.ConvertCSVResult, error)
	Analyze(ctx context.Context, doc *service.Document, instruction string) (*service.AnalysisResult, error)
}
