package model

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Conversation stores metadata about a chat thread.
type Conversation struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Model        string    `json:"model"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Message stores a single message in a conversation.
type Message struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	ParentID       *string         `json:"parent_id,omitempty"` // Assistant messages point at the prompt they answer.
	Role           Role            `json:"role"`
	Content        string          `json:"content"`
	Model          *string         `json:"model,omitempty"`
	IsStreaming    bool            `json:"is_streaming"`
	IsComplete     bool            `json:"is_complete"`
	StopReason     string          `json:"stop_reason,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	IsActive       bool            `json:"is_active"` // False once superseded by a regeneration.
}

// FullConversation includes the conversation metadata and its active messages.
type FullConversation struct {
	Conversation
	Messages []Message `json:"messages"`
}

// Usage reports token accounting for one generation.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// GenerationStats is stored as assistant message metadata.
type GenerationStats struct {
	Usage
	TimeToFirstTokenMs int64  `json:"time_to_first_token_ms"`
	TotalDurationMs    int64  `json:"total_duration_ms"`
	Error              string `json:"error,omitempty"`
}

// StreamResponse is the structure for a single chunk in a streaming response.
// The first chunk of a stream carries only the identifiers so that clients can
// attach later deltas to the right message.
type StreamResponse struct {
	ConversationID string `json:"conversation_id,omitempty"`
	MessageID      string `json:"message_id,omitempty"`
	Content        string `json:"content"`
	Done           bool   `json:"done"`
	StopReason     string `json:"stop_reason,omitempty"`
	Usage          *Usage `json:"usage,omitempty"`
	Error          string `json:"error,omitempty"`
	Code           string `json:"code,omitempty"`
}

// Codes carried by StreamResponse.Code for errors raised before generation starts.
const (
	StreamErrorConflict   = "conflict"
	StreamErrorNotFound   = "not_found"
	StreamErrorValidation = "validation"
)
