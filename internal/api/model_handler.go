package api

import (
	"encoding/json"
	"net/http"

	"claude-chat/backend/internal/interfaces"
	"claude-chat/backend/internal/service"
)

// ModelHandler serves the model list and model comparisons.
type ModelHandler struct {
	modelService      interfaces.ModelService
	comparisonService interfaces.ComparisonService
}

func NewModelHandler(modelSvc interfaces.ModelService, comparisonSvc interfaces.ComparisonService) *ModelHandler {
	return &ModelHandler{modelService: modelSvc, comparisonService: comparisonSvc}
}

// HandleListModels godoc
// @Summary      List models
// @Description  Models reported by the provider, enriched with context window and pricing from the built-in catalog.
// @Tags         Models
// @Produce      json
// @Success      200  {array}   service.ModelSummary
// @Failure      502  {object}  ErrorResponse
// @Router       /v1/models [get]
func (h *ModelHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.modelService.ListModels(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	if models == nil {
		models = []service.ModelSummary{}
	}
	respondWithJSON(w, http.StatusOK, models)
}

// HandleCompare godoc
// @Summary      Compare models
// @Description  Sends one prompt to 2 to 8 models and reports content, latency, token usage and estimated cost for each.
// @Tags         Models
// @Accept       json
// @Produce      json
// @Param        comparison  body      service.ComparisonRequest  true  "Prompt and models"
// @Success      200         {object}  service.ComparisonReport
// @Failure      400         {object}  ErrorResponse
// @Router       /v1/comparisons [post]
func (h *ModelHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req service.ComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	report, err := h.comparisonService.Compare(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}
