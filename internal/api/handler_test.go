package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claude-chat/backend/internal/api"
	app_errors "claude-chat/backend/internal/errors"
	"claude-chat/backend/internal/export"
	"claude-chat/backend/internal/interfaces/mocks"
	"claude-chat/backend/internal/model"
	"claude-chat/backend/internal/service"
)

const conversationID = "3f0f8f5e-6d7a-4c55-9a31-1d2b3c4d5e6f"

func setupChatHandler(t *testing.T) (*api.ChatHandler, *mocks.MockChatService, *mocks.MockSettingsService) {
	mockChatSvc := mocks.NewMockChatService(t)
	mockSettingsSvc := mocks.NewMockSettingsService(t)
	handler := api.NewChatHandler(mockChatSvc, mockSettingsSvc)
	return handler, mockChatSvc, mockSettingsSvc
}

// addChiURLParams injects URL parameters the way the chi router would.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// streamChunks replays chunks on the channel handed to a streaming service method.
func streamChunks(chanArg int, chunks ...model.StreamResponse) func(mock.Arguments) {
	return func(args mock.Arguments) {
		streamChan := args.Get(chanArg).(chan<- model.StreamResponse)
		for _, c := range chunks {
			streamChan <- c
		}
		close(streamChan)
	}
}

func TestChatHandler_GetSettings(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, _, mockSettingsSvc := setupChatHandler(t)
		mockSettingsSvc.On("Get", mock.Anything).Return(&service.Settings{MainModel: "claude-sonnet-4-5"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
		rr := httptest.NewRecorder()
		handler.GetSettings(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"main_model":"claude-sonnet-4-5"`)
	})

	t.Run("Failure", func(t *testing.T) {
		handler, _, mockSettingsSvc := setupChatHandler(t)
		mockSettingsSvc.On("Get", mock.Anything).Return(nil, app_errors.ErrInternal).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
		rr := httptest.NewRecorder()
		handler.GetSettings(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestChatHandler_UpdateSettings(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, _, mockSettingsSvc := setupChatHandler(t)
		body := `{"system_prompt":"new prompt","main_model":"claude-sonnet-4-5","support_model":"claude-haiku-4-5","max_tokens":2048}`
		req := httptest.NewRequest(http.MethodPost, "/v1/settings", strings.NewReader(body))
		rr := httptest.NewRecorder()

		mockSettingsSvc.On("Save", mock.Anything, mock.MatchedBy(func(s *service.Settings) bool {
			return s.MainModel == "claude-sonnet-4-5" && s.SystemPrompt == "new prompt" && s.MaxTokens == 2048
		})).Return(nil).Once()

		handler.UpdateSettings(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Invalid JSON", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/settings", strings.NewReader(`{invalid`))
		rr := httptest.NewRecorder()
		handler.UpdateSettings(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Validation Error", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		body := `{"system_prompt":"new prompt","main_model":"","support_model":"claude-haiku-4-5","max_tokens":10}`
		req := httptest.NewRequest(http.MethodPost, "/v1/settings", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.UpdateSettings(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Field 'MainModel' failed on the 'required' tag")
	})

	t.Run("Failure - Malformed model id", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		body := `{"main_model":"Claude Sonnet","support_model":"claude-haiku-4-5","max_tokens":10}`
		req := httptest.NewRequest(http.MethodPost, "/v1/settings", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.UpdateSettings(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Field 'MainModel' failed on the 'model_id' tag")
	})

	t.Run("Failure - Service rejects unknown model", func(t *testing.T) {
		handler, _, mockSettingsSvc := setupChatHandler(t)
		body := `{"main_model":"claude-unknown","support_model":"claude-haiku-4-5","max_tokens":10}`
		req := httptest.NewRequest(http.MethodPost, "/v1/settings", strings.NewReader(body))
		rr := httptest.NewRecorder()

		mockSettingsSvc.On("Save", mock.Anything, mock.Anything).
			Return(errors.Join(app_errors.ErrValidation, errors.New("main model 'claude-unknown' is not available"))).Once()

		handler.UpdateSettings(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "claude-unknown")
	})
}

func TestChatHandler_GetConversations(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		expected := []*model.Conversation{{ID: "conv1", Title: "Test Conversation"}}
		mockChatSvc.On("ListConversations", mock.Anything).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/conversations", nil)
		rr := httptest.NewRecorder()
		handler.GetConversations(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var returned []*model.Conversation
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &returned))
		assert.Equal(t, expected[0].Title, returned[0].Title)
	})

	t.Run("Success - Empty list is an array", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		mockChatSvc.On("ListConversations", mock.Anything).Return(nil, nil).Once()

		rr := httptest.NewRecorder()
		handler.GetConversations(rr, httptest.NewRequest(http.MethodGet, "/v1/conversations", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("Failure - Service returns error", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		mockChatSvc.On("ListConversations", mock.Anything).Return(nil, errors.New("internal error")).Once()

		rr := httptest.NewRecorder()
		handler.GetConversations(rr, httptest.NewRequest(http.MethodGet, "/v1/conversations", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "internal server error")
	})
}

func TestChatHandler_GetConversation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		expected := &model.FullConversation{Conversation: model.Conversation{ID: conversationID}}
		mockChatSvc.On("GetFullConversation", mock.Anything, conversationID).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/conversations/"+conversationID, nil)
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.GetConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		mockChatSvc.On("GetFullConversation", mock.Anything, conversationID).Return(nil, app_errors.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/conversations/"+conversationID, nil)
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.GetConversation(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestChatHandler_UpdateConversationTitle(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		mockChatSvc.On("UpdateConversationTitle", mock.Anything, conversationID, "A valid title").Return(nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/v1/conversations/"+conversationID+"/title", strings.NewReader(`{"title": "A valid title"}`))
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.UpdateConversationTitle(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Validation Error (empty title)", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPut, "/v1/conversations/"+conversationID+"/title", strings.NewReader(`{"title": ""}`))
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.UpdateConversationTitle(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Field 'Title' failed on the 'required' tag")
	})

	t.Run("Failure - Bad JSON", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPut, "/v1/conversations/"+conversationID+"/title", strings.NewReader(`{"title":`))
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.UpdateConversationTitle(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestChatHandler_HandleDeleteConversation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		mockChatSvc.On("DeleteConversation", mock.Anything, conversationID).Return(nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodDelete, "/v1/conversations/"+conversationID, nil), map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.HandleDeleteConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		mockChatSvc.On("DeleteConversation", mock.Anything, conversationID).Return(app_errors.ErrNotFound).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodDelete, "/v1/conversations/"+conversationID, nil), map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.HandleDeleteConversation(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestChatHandler_HandleCancelStream(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		mockChatSvc.On("CancelStream", mock.Anything, conversationID).Return(nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/v1/conversations/"+conversationID+"/cancel", nil), map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.HandleCancelStream(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"cancelled"}`, rr.Body.String())
	})

	t.Run("Failure - Nothing streaming", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		mockChatSvc.On("CancelStream", mock.Anything, conversationID).Return(app_errors.ErrNotFound).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/v1/conversations/"+conversationID+"/cancel", nil), map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.HandleCancelStream(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestChatHandler_HandleExportConversation(t *testing.T) {
	t.Run("Success - HTML", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		mockChatSvc.On("ExportConversation", mock.Anything, conversationID, export.FormatHTML).
			Return([]byte("<html></html>"), "text/html; charset=utf-8", nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/conversations/"+conversationID+"/export?format=html", nil)
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.HandleExportConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "conversation-"+conversationID+".html")
		assert.Equal(t, "<html></html>", rr.Body.String())
	})

	t.Run("Failure - Unknown format", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/v1/conversations/"+conversationID+"/export?format=docx", nil)
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.HandleExportConversation(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestChatHandler_HandleStreamMessage(t *testing.T) {
	t.Run("Success - Chunks are written as SSE frames", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/conversations/messages", strings.NewReader(`{"content": "hello"}`))
		rr := httptest.NewRecorder()

		mockChatSvc.On("HandleNewMessage", mock.Anything, mock.MatchedBy(func(r *service.CreateMessageRequest) bool {
			return r.Content == "hello"
		}), mock.Anything).
			Run(streamChunks(2,
				model.StreamResponse{ConversationID: conversationID, MessageID: "m1"},
				model.StreamResponse{ConversationID: conversationID, MessageID: "m1", Content: "Hi"},
				model.StreamResponse{ConversationID: conversationID, MessageID: "m1", Done: true, StopReason: "end_turn"},
			)).Once()

		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
		body := rr.Body.String()
		assert.Equal(t, 3, strings.Count(body, "data: "))
		assert.Contains(t, body, `"content":"Hi"`)
		assert.Contains(t, body, `"stop_reason":"end_turn"`)
	})

	t.Run("Success - Mid-stream errors become error events", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/conversations/messages", strings.NewReader(`{"content": "hello"}`))
		rr := httptest.NewRecorder()

		mockChatSvc.On("HandleNewMessage", mock.Anything, mock.Anything, mock.Anything).
			Run(streamChunks(2,
				model.StreamResponse{ConversationID: conversationID, MessageID: "m1"},
				model.StreamResponse{Error: "overloaded"},
			)).Once()

		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "event: error\ndata: {\"error\":\"overloaded\"}")
	})

	t.Run("Failure - Conflict before streaming starts", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/conversations/messages", strings.NewReader(`{"conversation_id": "`+conversationID+`", "content": "hello"}`))
		rr := httptest.NewRecorder()

		mockChatSvc.On("HandleNewMessage", mock.Anything, mock.Anything, mock.Anything).
			Run(streamChunks(2, model.StreamResponse{Error: "A response is already being generated", Code: model.StreamErrorConflict})).Once()

		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), "already being generated")
	})

	t.Run("Failure - Invalid JSON", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/conversations/messages", strings.NewReader(`{"content":`))
		rr := httptest.NewRecorder()

		handler.HandleStreamMessage(rr, req)

		assert.Contains(t, rr.Body.String(), "Invalid request body")
	})

	t.Run("Failure - Validation Error", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/conversations/messages", strings.NewReader(`{"content": ""}`))
		rr := httptest.NewRecorder()

		handler.HandleStreamMessage(rr, req)

		assert.Contains(t, rr.Body.String(), "Field 'Content' failed on the 'required' tag")
	})

	t.Run("Failure - Conversation id must be a uuid", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/conversations/messages", strings.NewReader(`{"conversation_id": "nope", "content": "hi"}`))
		rr := httptest.NewRecorder()

		handler.HandleStreamMessage(rr, req)

		assert.Contains(t, rr.Body.String(), "Field 'ConversationID' failed on the 'uuid' tag")
	})
}

func TestChatHandler_HandleRegenerateMessage(t *testing.T) {
	params := map[string]string{"conversationID": conversationID, "messageID": "a1"}

	t.Run("Success - Empty body", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/v1/conversations/"+conversationID+"/messages/a1/regenerate", nil), params)
		rr := httptest.NewRecorder()

		mockChatSvc.On("RegenerateMessage", mock.Anything, conversationID, "a1", mock.AnythingOfType("*service.RegenerateMessageRequest"), mock.Anything).
			Run(streamChunks(4, model.StreamResponse{ConversationID: conversationID, MessageID: "a2", Done: true})).Once()

		handler.HandleRegenerateMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"message_id":"a2"`)
	})

	t.Run("Failure - Not the latest message", func(t *testing.T) {
		handler, mockChatSvc, _ := setupChatHandler(t)
		req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/v1/conversations/"+conversationID+"/messages/a1/regenerate", strings.NewReader(`{"model":"claude-haiku-4-5"}`)), params)
		rr := httptest.NewRecorder()

		mockChatSvc.On("RegenerateMessage", mock.Anything, conversationID, "a1", mock.MatchedBy(func(r *service.RegenerateMessageRequest) bool {
			return r.Model == "claude-haiku-4-5"
		}), mock.Anything).
			Run(streamChunks(4, model.StreamResponse{Error: "Only the latest assistant message can be regenerated", Code: model.StreamErrorValidation})).Once()

		handler.HandleRegenerateMessage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
