package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"claude-chat/backend/internal/export"
	"claude-chat/backend/internal/interfaces"
	"claude-chat/backend/internal/model"
	"claude-chat/backend/internal/service"
)

// ChatHandler serves settings, conversations and the streaming message endpoints.
type ChatHandler struct {
	chatService     interfaces.ChatService
	settingsService interfaces.SettingsService
}

func NewChatHandler(chatSvc interfaces.ChatService, settingsSvc interfaces.SettingsService) *ChatHandler {
	return &ChatHandler{chatService: chatSvc, settingsService: settingsSvc}
}

// GetSettings godoc
// @Summary      Get application settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  service.Settings
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/settings [get]
func (h *ChatHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary      Update application settings
// @Description  Models are checked against the provider's model list when it is reachable.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body      service.Settings  true  "New settings"
// @Success      200       {object}  StatusResponse
// @Failure      400       {object}  ErrorResponse
// @Router       /v1/settings [post]
func (h *ChatHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings service.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(&settings); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.settingsService.Save(r.Context(), &settings); err != nil {
		respondWithError(w, err)
		return
	}
	slog.Info("Settings updated", "main_model", settings.MainModel, "support_model", settings.SupportModel)
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// GetConversations godoc
// @Summary      List conversations
// @Description  Most recently updated first.
// @Tags         Conversations
// @Produce      json
// @Success      200  {array}   model.Conversation
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/conversations [get]
func (h *ChatHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.chatService.ListConversations(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	if convs == nil {
		convs = []*model.Conversation{}
	}
	respondWithJSON(w, http.StatusOK, convs)
}

// GetConversation godoc
// @Summary      Get a conversation with its messages
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.FullConversation
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [get]
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	full, err := h.chatService.GetFullConversation(r.Context(), conversationID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, full)
}

// UpdateConversationTitle godoc
// @Summary      Rename a conversation
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        conversationID  path      string              true  "Conversation ID"
// @Param        title           body      UpdateTitleRequest  true  "New title"
// @Success      200             {object}  StatusResponse
// @Failure      400             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/title [put]
func (h *ChatHandler) UpdateConversationTitle(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.chatService.UpdateConversationTitle(r.Context(), conversationID, req.Title); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleDeleteConversation godoc
// @Summary      Delete a conversation
// @Description  Any response still being generated is cancelled first.
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  StatusResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [delete]
func (h *ChatHandler) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if err := h.chatService.DeleteConversation(r.Context(), conversationID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleCancelStream godoc
// @Summary      Stop generating
// @Description  Cancels the response being generated. The partial reply is kept with stop reason "cancelled".
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  StatusResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/cancel [post]
func (h *ChatHandler) HandleCancelStream(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if err := h.chatService.CancelStream(r.Context(), conversationID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "cancelled"})
}

// HandleExportConversation godoc
// @Summary      Export a conversation
// @Tags         Conversations
// @Produce      text/markdown,text/html,application/json
// @Param        conversationID  path      string  true   "Conversation ID"
// @Param        format          query     string  false  "markdown (default), html or json"
// @Success      200             {string}  string
// @Failure      400             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/export [get]
func (h *ChatHandler) HandleExportConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondWithError(w, err)
		return
	}

	body, contentType, err := h.chatService.ExportConversation(r.Context(), conversationID, format)
	if err != nil {
		respondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="conversation-%s.%s"`, conversationID, format.Extension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("Failed to write export body", "conversation_id", conversationID, "error", err)
	}
}

// HandleStreamMessage godoc
// @Summary      Send a message and stream the reply
// @Description  Omit conversation_id to start a new conversation. The reply is streamed as SSE `data:` frames; errors arrive as `event: error` frames.
// @Tags         Conversations
// @Accept       json
// @Produce      text/event-stream
// @Param        message  body      service.CreateMessageRequest  true  "Message"
// @Success      200      {object}  model.StreamResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /v1/conversations/messages [post]
func (h *ChatHandler) HandleStreamMessage(w http.ResponseWriter, r *http.Request) {
	setStreamHeaders(w)

	var req service.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding request body", "error", err)
		sendStreamError(w, "Invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		sendStreamError(w, err.Error())
		return
	}

	streamChan := make(chan model.StreamResponse)
	go h.chatService.HandleNewMessage(r.Context(), &req, streamChan)

	pipeStream(w, r, streamChan)
	slog.Info("Finished streaming response.", "conversation_id", req.ConversationID)
}

// HandleRegenerateMessage godoc
// @Summary      Regenerate the latest reply
// @Description  Replaces the latest assistant message with a new streamed reply. The old message is kept but hidden.
// @Tags         Conversations
// @Accept       json
// @Produce      text/event-stream
// @Param        conversationID  path      string                            true   "Conversation ID"
// @Param        messageID       path      string                            true   "Assistant message ID"
// @Param        options         body      service.RegenerateMessageRequest  false  "Overrides"
// @Success      200             {object}  model.StreamResponse
// @Failure      400             {object}  ErrorResponse
// @Failure      409             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/messages/{messageID}/regenerate [post]
func (h *ChatHandler) HandleRegenerateMessage(w http.ResponseWriter, r *http.Request) {
	setStreamHeaders(w)

	conversationID := chi.URLParam(r, "conversationID")
	messageID := chi.URLParam(r, "messageID")

	var req service.RegenerateMessageRequest
	// The body is optional.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Error decoding regenerate request body", "error", err)
		sendStreamError(w, "Invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		sendStreamError(w, err.Error())
		return
	}

	streamChan := make(chan model.StreamResponse)
	go h.chatService.RegenerateMessage(r.Context(), conversationID, messageID, &req, streamChan)

	pipeStream(w, r, streamChan)
	slog.Info("Finished streaming regenerated response.", "conversation_id", conversationID)
}
