package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claude-chat/backend/internal/api"
	app_errors "claude-chat/backend/internal/errors"
	"claude-chat/backend/internal/interfaces/mocks"
	"claude-chat/backend/internal/service"
)

func setupModelHandler(t *testing.T) (*api.ModelHandler, *mocks.MockModelService, *mocks.MockComparisonService) {
	mockModelSvc := mocks.NewMockModelService(t)
	mockComparisonSvc := mocks.NewMockComparisonService(t)
	handler := api.NewModelHandler(mockModelSvc, mockComparisonSvc)
	return handler, mockModelSvc, mockComparisonSvc
}

func TestModelHandler_HandleListModels(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc, _ := setupModelHandler(t)
		mockSvc.On("ListModels", mock.Anything).Return([]service.ModelSummary{
			{ID: "claude-sonnet-4-5", DisplayName: "Claude Sonnet 4.5", ContextWindow: 200000, Available: true},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
		rr := httptest.NewRecorder()
		handler.HandleListModels(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp []service.ModelSummary
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "claude-sonnet-4-5", resp[0].ID)
		assert.Equal(t, 200000, resp[0].ContextWindow)
	})

	t.Run("Failure - Provider unavailable", func(t *testing.T) {
		handler, mockSvc, _ := setupModelHandler(t)
		mockSvc.On("ListModels", mock.Anything).Return(nil, errors.Join(app_errors.ErrUpstream, errors.New("unauthorized"))).Once()

		rr := httptest.NewRecorder()
		handler.HandleListModels(rr, httptest.NewRequest(http.MethodGet, "/v1/models", nil))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("Failure - Internal", func(t *testing.T) {
		handler, mockSvc, _ := setupModelHandler(t)
		mockSvc.On("ListModels", mock.Anything).Return(nil, errors.New("internal error")).Once()

		rr := httptest.NewRecorder()
		handler.HandleListModels(rr, httptest.NewRequest(http.MethodGet, "/v1/models", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestModelHandler_HandleCompare(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, _, mockSvc := setupModelHandler(t)
		body := `{"prompt":"Say hi","models":["claude-sonnet-4-5","claude-haiku-4-5"]}`
		cost := 0.0001
		mockSvc.On("Compare", mock.Anything, mock.MatchedBy(func(r *service.ComparisonRequest) bool {
			return r.Prompt == "Say hi" && len(r.Models) == 2
		})).Return(&service.ComparisonReport{
			Prompt:   "Say hi",
			Results:  []service.ComparisonResult{{Model: "claude-haiku-4-5", Content: "hi", EstimatedCostUSD: &cost}},
			Cheapest: "claude-haiku-4-5",
		}, nil).Once()

		rr := httptest.NewRecorder()
		handler.HandleCompare(rr, httptest.NewRequest(http.MethodPost, "/v1/comparisons", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"cheapest":"claude-haiku-4-5"`)
	})

	t.Run("Failure - Single model", func(t *testing.T) {
		handler, _, _ := setupModelHandler(t)
		body := `{"prompt":"Say hi","models":["claude-sonnet-4-5"]}`

		rr := httptest.NewRecorder()
		handler.HandleCompare(rr, httptest.NewRequest(http.MethodPost, "/v1/comparisons", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Field 'Models' failed on the 'min' tag")
	})

	t.Run("Failure - Duplicate models", func(t *testing.T) {
		handler, _, _ := setupModelHandler(t)
		body := `{"prompt":"Say hi","models":["claude-sonnet-4-5","claude-sonnet-4-5"]}`

		rr := httptest.NewRecorder()
		handler.HandleCompare(rr, httptest.NewRequest(http.MethodPost, "/v1/comparisons", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "'unique' tag")
	})

	t.Run("Failure - Invalid JSON", func(t *testing.T) {
		handler, _, _ := setupModelHandler(t)

		rr := httptest.NewRecorder()
		handler.HandleCompare(rr, httptest.NewRequest(http.MethodPost, "/v1/comparisons", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
