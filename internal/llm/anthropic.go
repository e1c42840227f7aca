package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tmaxmax/go-sse"
)

const defaultMaxTokens = 4096

// ErrIncompleteStream is returned when the event stream closes before message_stop.
var ErrIncompleteStream = errors.New("anthropic stream ended before message_stop")

// APIError is the decoded Anthropic error envelope.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("anthropic error %s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("anthropic error %d %s: %s", e.StatusCode, e.Type, e.Message)
}

// AnthropicConfig configures the Messages API client.
type AnthropicConfig struct {
	BaseURL   string
	APIKey    string
	Version   string
	MaxTokens int
}

type anthropicProvider struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	version   string
	maxTokens int
}

func NewAnthropicProvider(cfg AnthropicConfig) LLMProvider {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	version := cfg.Version
	if version == "" {
		version = "2023-06-01"
	}
	return &anthropicProvider{
		client:    &http.Client{},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		version:   version,
		maxTokens: maxTokens,
	}
}

type anthropicRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	System      string    `json:"system,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature *float64  `json:"temperature,omitempty"`
	Stream      bool      `json:"stream"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      Usage                   `json:"usage"`
}

type anthropicErrorEnvelope struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type messageStartEvent struct {
	Message struct {
		ID    string `json:"id"`
		Model string `json:"model"`
		Usage Usage  `json:"usage"`
	} `json:"message"`
}

type contentBlockDeltaEvent struct {
	Index int `json:"index"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

type messageDeltaEvent struct {
	Delta struct {
		StopReason string `json:"stop_reason"`
	} `json:"delta"`
	Usage struct {
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (p *anthropicProvider) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", p.version)
	return req, nil
}

// do sends the request and turns any non-200 reply into an *APIError.
func (p *anthropicProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	defer resp.Body.Close()
	bodyBytes, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode, Type: "http_error", Message: strings.TrimSpace(string(bodyBytes))}
	var envelope anthropicErrorEnvelope
	if err := json.Unmarshal(bodyBytes, &envelope); err == nil && envelope.Error.Type != "" {
		apiErr.Type = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
	}
	return nil, apiErr
}

func (p *anthropicProvider) buildRequest(req *GenerateRequest, stream bool) anthropicRequest {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.maxTokens
	}
	return anthropicRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		System:      req.System,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		Stream:      stream,
	}
}

func (p *anthropicProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	httpReq, err := p.newRequest(ctx, http.MethodPost, "/v1/messages", p.buildRequest(req, false))
	if err != nil {
		return nil, err
	}
	resp, err := p.do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var msg anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return &GenerateResponse{
		ID:         msg.ID,
		Model:      msg.Model,
		Content:    text.String(),
		StopReason: msg.StopReason,
		Usage:      msg.Usage,
	}, nil
}

func (p *anthropicProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	fail := func(err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case ch <- StreamResponse{Error: err.Error()}:
		case <-ctx.Done():
		}
		return err
	}

	httpReq, err := p.newRequest(ctx, http.MethodPost, "/v1/messages", p.buildRequest(req, true))
	if err != nil {
		return fail(err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	resp, err := p.do(httpReq)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	var usage Usage
	var stopReason string

	for ev, err := range sse.Read(resp.Body, nil) {
		if err != nil {
			return fail(fmt.Errorf("error reading event stream: %w", err))
		}
		switch ev.Type {
		case "message_start":
			var start messageStartEvent
			if err := json.Unmarshal([]byte(ev.Data), &start); err != nil {
				return fail(fmt.Errorf("could not decode message_start: %w", err))
			}
			usage.InputTokens = start.Message.Usage.InputTokens
		case "content_block_delta":
			var delta contentBlockDeltaEvent
			if err := json.Unmarshal([]byte(ev.Data), &delta); err != nil {
				return fail(fmt.Errorf("could not decode content_block_delta: %w", err))
			}
			if delta.Delta.Text == "" {
				continue
			}
			select {
			case ch <- StreamResponse{Content: delta.Delta.Text}:
			case <-ctx.Done():
				return ctx.Err()
			}
		case "message_delta":
			var md messageDeltaEvent
			if err := json.Unmarshal([]byte(ev.Data), &md); err != nil {
				return fail(fmt.Errorf("could not decode message_delta: %w", err))
			}
			if md.Delta.StopReason != "" {
				stopReason = md.Delta.StopReason
			}
			usage.OutputTokens = md.Usage.OutputTokens
		case "message_stop":
			final := usage
			select {
			case ch <- StreamResponse{Done: true, StopReason: stopReason, Usage: &final}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		case "error":
			var envelope anthropicErrorEnvelope
			if err := json.Unmarshal([]byte(ev.Data), &envelope); err != nil {
				return fail(fmt.Errorf("could not decode error event: %w", err))
			}
			return fail(&APIError{Type: envelope.Error.Type, Message: envelope.Error.Message})
		default:
			// ping, content_block_start, content_block_stop
			continue
		}
	}

	return fail(ErrIncompleteStream)
}

type anthropicModelsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		CreatedAt   string `json:"created_at"`
	} `json:"data"`
}

func (p *anthropicProvider) ListModels(ctx context.Context) (*ListModelsResponse, error) {
	httpReq, err := p.newRequest(ctx, http.MethodGet, "/v1/models?limit=100", nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw anthropicModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not decode models response: %w", err)
	}

	out := &ListModelsResponse{Models: make([]ModelInfo, 0, len(raw.Data))}
	for _, m := range raw.Data {
		info := ModelInfo{ID: m.ID, DisplayName: m.DisplayName}
		if ts, err := time.Parse(time.RFC3339, m.CreatedAt); err == nil {
			info.CreatedAt = ts
		}
		out.Models = append(out.Models, info)
	}
	return out, nil
}
