package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	app_errors "claude-chat/backend/internal/errors"
	"claude-chat/backend/internal/export"
	"claude-chat/backend/internal/llm"
	"claude-chat/backend/internal/model"
	"claude-chat/backend/internal/repository"
	"claude-chat/backend/internal/stream"
)

const titleGenerationPrompt = "You are an expert at creating short, concise titles for conversations. Respond with only the title, and nothing else."

// SettingsProvider is the read side of SettingsService used by other services.
type SettingsProvider interface {
	Get(ctx context.Context) (*Settings, error)
}

type ChatService struct {
	repo     repository.Repository
	llm      llm.LLMProvider
	settings SettingsProvider
	streams  *stream.Registry

	background sync.WaitGroup
}

// CreateMessageRequest is the structure for a new message request from the client.
// An empty ConversationID starts a new conversation.
type CreateMessageRequest struct {
	ConversationID string   `json:"conversation_id" validate:"omitempty,uuid"`
	Content        string   `json:"content" validate:"required,max=200000"`
	Model          string   `json:"model,omitempty" validate:"omitempty,model_id"`
	SystemPrompt   string   `json:"system_prompt,omitempty" validate:"max=20000"`
	MaxTokens      int      `json:"max_tokens,omitempty" validate:"omitempty,gte=1,lte=128000"`
	Temperature    *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// RegenerateMessageRequest carries optional overrides for a regenerated reply.
type RegenerateMessageRequest struct {
	Model       string   `json:"model,omitempty" validate:"omitempty,model_id"`
	MaxTokens   int      `json:"max_tokens,omitempty" validate:"omitempty,gte=1,lte=128000"`
	Temperature *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
}

func NewChatService(repo repository.Repository, llmProvider llm.LLMProvider, settings SettingsProvider, streams *stream.Registry) *ChatService {
	return &ChatService{repo: repo, llm: llmProvider, settings: settings, streams: streams}
}

// Wait blocks until background jobs such as title generation have finished.
func (s *ChatService) Wait() {
	s.background.Wait()
}

func (s *ChatService) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	return s.repo.ListConversations(ctx)
}

// GetFullConversation retrieves a conversation's metadata and its active messages.
// A message that is still being generated is included with its partial content.
func (s *ChatService) GetFullConversation(ctx context.Context, conversationID string) (*model.FullConversation, error) {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.GetActiveMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("could not get messages: %w", err)
	}
	if live, ok := s.streams.Snapshot(conversationID); ok {
		messages = append(messages, live)
	}
	return &model.FullConversation{Conversation: *conv, Messages: messages}, nil
}

func (s *ChatService) UpdateConversationTitle(ctx context.Context, conversationID, newTitle string) error {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return fmt.Errorf("%w: title cannot be empty", app_errors.ErrValidation)
	}
	slog.Info("Updating conversation title", "conversation_id", conversationID)
	if err := s.repo.UpdateConversationTitle(ctx, conversationID, newTitle); err != nil {
		return translateRepoError(err, "conversation")
	}
	return nil
}

// DeleteConversation cancels any in-flight generation and removes the conversation.
func (s *ChatService) DeleteConversation(ctx context.Context, conversationID string) error {
	s.streams.Cancel(conversationID)
	slog.Info("Deleting conversation", "conversation_id", conversationID)
	if err := s.repo.DeleteConversation(ctx, conversationID); err != nil {
		return translateRepoError(err, "conversation")
	}
	return nil
}

// CancelStream stops the in-flight generation of a conversation. The partial reply
// is persisted as a complete message by the generating goroutine.
func (s *ChatService) CancelStream(ctx context.Context, conversationID string) error {
	if !s.streams.Cancel(conversationID) {
		return fmt.Errorf("%w: no response is being generated for this conversation", app_errors.ErrNotFound)
	}
	slog.Info("Cancelled in-flight generation", "conversation_id", conversationID)
	return nil
}

// ExportConversation renders a conversation transcript.
func (s *ChatService) ExportConversation(ctx context.Context, conversationID string, format export.Format) ([]byte, string, error) {
	full, err := s.GetFullConversation(ctx, conversationID)
	if err != nil {
		return nil, "", err
	}
	return export.Render(full, format)
}

// HandleNewMessage persists the user's message, streams the assistant's reply to
// streamChan and persists the reply once the stream is over. streamChan is closed on return.
func (s *ChatService) HandleNewMessage(ctx context.Context, req *CreateMessageRequest, streamChan chan<- model.StreamResponse) {
	defer close(streamChan)

	settings, err := s.settings.Get(ctx)
	if err != nil {
		slog.Error("Could not load settings", "error", err)
		sendChunk(ctx, streamChan, model.StreamResponse{Error: "Could not load application settings"})
		return
	}

	isNew := req.ConversationID == ""
	var conv *model.Conversation
	if isNew {
		now := time.Now().UTC()
		conv = &model.Conversation{
			ID:           uuid.NewString(),
			Title:        truncate(strings.TrimSpace(req.Content), 50),
			Model:        firstNonEmpty(req.Model, settings.MainModel),
			SystemPrompt: req.SystemPrompt,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.CreateConversation(ctx, conv); err != nil {
			slog.Error("Error creating conversation", "error", err)
			sendChunk(ctx, streamChan, model.StreamResponse{Error: "Could not create conversation"})
			return
		}
	} else {
		conv, err = s.getConversation(ctx, req.ConversationID)
		if err != nil {
			slog.Warn("Error getting conversation", "conversation_id", req.ConversationID, "error", err)
			sendChunk(ctx, streamChan, model.StreamResponse{Error: "Could not find conversation", Code: model.StreamErrorNotFound})
			return
		}
		if req.Model != "" && req.Model != conv.Model {
			if err := s.repo.UpdateConversationModel(ctx, conv.ID, req.Model); err != nil {
				slog.Warn("Could not update conversation model", "conversation_id", conv.ID, "error", err)
			}
			conv.Model = req.Model
		}
	}

	userMessage := &model.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Role:           model.RoleUser,
		Content:        req.Content,
		IsComplete:     true,
		IsActive:       true,
		Timestamp:      time.Now().UTC(),
	}

	gen := &generation{
		conv:        conv,
		parentID:    userMessage.ID,
		model:       conv.Model,
		system:      firstNonEmpty(req.SystemPrompt, conv.SystemPrompt, settings.SystemPrompt),
		maxTokens:   firstPositive(req.MaxTokens, settings.MaxTokens),
		temperature: req.Temperature,
	}

	acc, handle, genCtx, ok := s.claimStream(ctx, gen, streamChan)
	if !ok {
		return
	}
	defer s.streams.End(handle)

	if err := s.repo.AddMessage(ctx, userMessage); err != nil {
		slog.Error("Error saving user message", "conversation_id", conv.ID, "error", err)
		sendChunk(ctx, streamChan, model.StreamResponse{Error: "Could not save message"})
		return
	}

	history, err := s.repo.GetActiveMessages(ctx, conv.ID)
	if err != nil {
		slog.Error("Error getting message history", "conversation_id", conv.ID, "error", err)
		sendChunk(ctx, streamChan, model.StreamResponse{Error: "Could not load conversation history"})
		return
	}

	final := s.runGeneration(ctx, genCtx, acc, gen, history, streamChan)

	if isNew && final.Content != "" {
		s.background.Add(1)
		go func() {
			defer s.background.Done()
			s.generateTitle(context.Background(), conv.ID, settings.SupportModel, req.Content, final.Content)
		}()
	}
}

// RegenerateMessage replaces the latest assistant reply with a freshly generated one.
// The old reply is deactivated rather than deleted, and only once the replacement is saved.
func (s *ChatService) RegenerateMessage(ctx context.Context, conversationID, messageID string, req *RegenerateMessageRequest, streamChan chan<- model.StreamResponse) {
	defer close(streamChan)

	settings, err := s.settings.Get(ctx)
	if err != nil {
		slog.Error("Could not load settings", "error", err)
		sendChunk(ctx, streamChan, model.StreamResponse{Error: "Could not load application settings"})
		return
	}

	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		sendChunk(ctx, streamChan, model.StreamResponse{Error: "Could not find conversation", Code: model.StreamErrorNotFound})
		return
	}

	history, err := s.repo.GetActiveMessages(ctx, conversationID)
	if err != nil {
		slog.Error("Error getting message history", "conversation_id", conversationID, "error", err)
		sendChunk(ctx, streamChan, model.StreamResponse{Error: "Could not load conversation history"})
		return
	}
	if len(history) == 0 || history[len(history)-1].ID != messageID || history[len(history)-1].Role != model.RoleAssistant {
		sendChunk(ctx, streamChan, model.StreamResponse{Error: "Only the latest assistant message can be regenerated", Code: model.StreamErrorValidation})
		return
	}
	old := history[len(history)-1]
	history = history[:len(history)-1]

	parentID := ""
	if old.ParentID != nil {
		parentID = *old.ParentID
	}
	modelName := conv.Model
	if req != nil && req.Model != "" {
		modelName = req.Model
	}
	gen := &generation{
		conv:      conv,
		parentID:  parentID,
		model:     modelName,
		system:    firstNonEmpty(conv.SystemPrompt, settings.SystemPrompt),
		maxTokens: settings.MaxTokens,
		replaces:  old.ID,
	}
	if req != nil {
		gen.maxTokens = firstPositive(req.MaxTokens, settings.MaxTokens)
		gen.temperature = req.Temperature
	}

	acc, handle, genCtx, ok := s.claimStream(ctx, gen, streamChan)
	if !ok {
		return
	}
	defer s.streams.End(handle)

	s.runGeneration(ctx, genCtx, acc, gen, history, streamChan)
}

// generation captures the parameters of one assistant reply.
type generation struct {
	conv        *model.Conversation
	parentID    string
	model       string
	system      string
	maxTokens   int
	temperature *float64
	replaces    string // assistant message superseded once this reply is saved
}

// claimStream creates the assistant message and claims the conversation's streaming slot.
func (s *ChatService) claimStream(ctx context.Context, gen *generation, streamChan chan<- model.StreamResponse) (*stream.Accumulator, *stream.Handle, context.Context, bool) {
	modelName := gen.model
	assistant := model.Message{
		ID:             uuid.NewString(),
		ConversationID: gen.conv.ID,
		Role:           model.RoleAssistant,
		Model:          &modelName,
		IsActive:       true,
		Timestamp:      time.Now().UTC(),
	}
	if gen.parentID != "" {
		parentID := gen.parentID
		assistant.ParentID = &parentID
	}

	acc := stream.NewAccumulator(assistant)
	handle, genCtx, err := s.streams.Begin(ctx, gen.conv.ID, acc)
	if err != nil {
		if errors.Is(err, stream.ErrAlreadyStreaming) {
			sendChunk(ctx, streamChan, model.StreamResponse{ConversationID: gen.conv.ID, Error: "A response is already being generated for this conversation", Code: model.StreamErrorConflict})
		} else {
			sendChunk(ctx, streamChan, model.StreamResponse{Error: "Could not start generation"})
		}
		return nil, nil, nil, false
	}
	return acc, handle, genCtx, true
}

// runGeneration streams the provider output through the accumulator and persists the
// result. ctx is the caller's context and genCtx the cancellable generation context.
func (s *ChatService) runGeneration(ctx, genCtx context.Context, acc *stream.Accumulator, gen *generation, history []model.Message, streamChan chan<- model.StreamResponse) model.Message {
	msgID := acc.Message().ID
	sendChunk(ctx, streamChan, model.StreamResponse{ConversationID: gen.conv.ID, MessageID: msgID})

	llmReq := &llm.GenerateRequest{
		Model:       gen.model,
		System:      gen.system,
		Messages:    toLLMMessages(history),
		MaxTokens:   gen.maxTokens,
		Temperature: gen.temperature,
	}

	llmStreamChan := make(chan llm.StreamResponse)
	go func() {
		if err := s.llm.GenerateStream(genCtx, llmReq, llmStreamChan); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("Provider stream ended with error", "conversation_id", gen.conv.ID, "error", err)
		}
	}()

	var usage *model.Usage
	for chunk := range llmStreamChan {
		switch {
		case chunk.Error != "":
			if acc.Fail(chunk.Error) == nil {
				sendChunk(ctx, streamChan, model.StreamResponse{ConversationID: gen.conv.ID, MessageID: msgID, Error: chunk.Error})
			}
		case chunk.Done:
			if chunk.Usage != nil {
				usage = &model.Usage{InputTokens: chunk.Usage.InputTokens, OutputTokens: chunk.Usage.OutputTokens}
			}
			_ = acc.Finish(chunk.StopReason, usage)
		default:
			if acc.Append(chunk.Content) == nil {
				sendChunk(ctx, streamChan, model.StreamResponse{ConversationID: gen.conv.ID, MessageID: msgID, Content: chunk.Content})
			}
		}
	}

	if !acc.State().Terminal() {
		if genCtx.Err() != nil {
			_ = acc.Cancel()
		} else {
			_ = acc.Fail("stream ended unexpectedly")
		}
	}

	final := acc.Message()
	if acc.State() != stream.StateFailed {
		sendChunk(ctx, streamChan, model.StreamResponse{
			ConversationID: gen.conv.ID,
			MessageID:      msgID,
			Done:           true,
			StopReason:     final.StopReason,
			Usage:          usage,
		})
	}

	if acc.State() == stream.StateFailed && final.Content == "" {
		slog.Warn("Generation failed before any content arrived, nothing to save", "conversation_id", gen.conv.ID)
		return final
	}

	metadata, err := json.Marshal(acc.Stats())
	if err != nil {
		slog.Error("Error marshaling assistant message metadata", "error", err)
	} else {
		final.Metadata = metadata
	}

	// The reply is saved even if the client went away mid-stream.
	saveCtx := context.WithoutCancel(ctx)
	if gen.replaces != "" {
		err = s.repo.ReplaceMessage(saveCtx, gen.replaces, &final)
	} else {
		err = s.repo.AddMessage(saveCtx, &final)
	}
	if err != nil {
		slog.Error("Failed to save assistant message", "conversation_id", gen.conv.ID, "error", err)
		return final
	}
	slog.Info("Saved assistant message",
		"conversation_id", gen.conv.ID,
		"message_id", final.ID,
		"state", acc.State().String(),
		"stop_reason", final.StopReason,
	)
	return final
}

// generateTitle asks the support model for a short title based on the first exchange.
func (s *ChatService) generateTitle(ctx context.Context, conversationID, supportModel, userQuery, assistantResponse string) {
	req := &llm.GenerateRequest{
		Model:     supportModel,
		System:    titleGenerationPrompt,
		MaxTokens: 32,
		Messages: []llm.Message{{
			Role: string(model.RoleUser),
			Content: fmt.Sprintf("Based on the following conversation, what would be a good title?\n\n---\nUser: %s\n\nAssistant: %s\n---",
				truncate(userQuery, 150),
				truncate(assistantResponse, 200),
			),
		}},
	}
	resp, err := s.llm.Generate(ctx, req)
	if err != nil {
		slog.Warn("Failed to generate title", "conversation_id", conversationID, "error", err)
		return
	}

	newTitle := cleanTitle(resp.Content)
	if newTitle == "" {
		slog.Info("Generated title was empty after cleaning, keeping the original", "conversation_id", conversationID)
		return
	}
	if err := s.repo.UpdateConversationTitle(ctx, conversationID, newTitle); err != nil {
		slog.Warn("Failed to update conversation title", "conversation_id", conversationID, "error", err)
		return
	}
	slog.Info("Updated conversation title", "conversation_id", conversationID, "title", newTitle)
}

func (s *ChatService) getConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, translateRepoError(err, "conversation")
	}
	return conv, nil
}

// toLLMMessages converts stored history into Messages API turns. System messages and
// empty turns are dropped, the list must open with a user turn, and consecutive
// turns of the same role are merged.
func toLLMMessages(history []model.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		if m.Role == model.RoleSystem || strings.TrimSpace(m.Content) == "" {
			continue
		}
		if len(out) == 0 && m.Role != model.RoleUser {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == string(m.Role) {
			out[n-1].Content += "\n\n" + m.Content
			continue
		}
		out = append(out, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// sendChunk delivers a chunk unless the caller has gone away.
func sendChunk(ctx context.Context, ch chan<- model.StreamResponse, chunk model.StreamResponse) {
	select {
	case ch <- chunk:
	case <-ctx.Done():
	}
}

func translateRepoError(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", app_errors.ErrNotFound, what)
	}
	return fmt.Errorf("%w: %v", app_errors.ErrInternal, err)
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "Title:")
	s = strings.Trim(strings.TrimSpace(s), `"'*#`)
	return truncate(strings.TrimSpace(s), 100)
}

// truncate shortens a string to a specified number of runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
