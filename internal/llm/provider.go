package llm

import (
	"context"
	"time"
)

// LLMProvider defines the interface for interacting with a language model.
type LLMProvider interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	// GenerateStream pushes chunks to ch and closes it when the stream ends.
	// Failures are delivered as a chunk with Error set as well as returned.
	GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error
	ListModels(ctx context.Context) (*ListModelsResponse, error)
}

// Message is a single turn sent to the model. Only "user" and "assistant" roles are
// valid here; the system prompt travels in GenerateRequest.System.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerateRequest struct {
	Model       string
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature *float64
}

type GenerateResponse struct {
	ID         string
	Model      string
	Content    string
	StopReason string
	Usage      Usage
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// StreamResponse is a LOCAL type for the llm package.
type StreamResponse struct {
	Content    string
	Done       bool
	StopReason string
	Usage      *Usage
	Error      string
}

// ModelInfo describes a model reported by the provider.
type ModelInfo struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}
