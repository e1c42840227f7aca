package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	app_errors "claude-chat/backend/internal/errors"
	"claude-chat/backend/internal/llm"
	"claude-chat/backend/internal/model"
)

const (
	minComparisonModels = 2
	maxComparisonModels = 8
)

// ComparisonRequest runs one prompt against several models.
type ComparisonRequest struct {
	Prompt       string   `json:"prompt" validate:"required,max=200000"`
	SystemPrompt string   `json:"system_prompt,omitempty" validate:"max=20000"`
	Models       []string `json:"models" validate:"required,min=2,max=8,unique,dive,required,model_id"`
	MaxTokens    int      `json:"max_tokens,omitempty" validate:"omitempty,gte=1,lte=128000"`
	Temperature  *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// ComparisonResult is the outcome for a single model. Error is set instead of failing
// the whole comparison.
type ComparisonResult struct {
	Model            string       `json:"model"`
	Content          string       `json:"content,omitempty"`
	StopReason       string       `json:"stop_reason,omitempty"`
	Usage            *model.Usage `json:"usage,omitempty"`
	LatencyMs        int64        `json:"latency_ms"`
	EstimatedCostUSD *float64     `json:"estimated_cost_usd,omitempty"`
	Error            string       `json:"error,omitempty"`
}

// ComparisonReport holds results in request order.
type ComparisonReport struct {
	Prompt   string             `json:"prompt"`
	Results  []ComparisonResult `json:"results"`
	Fastest  string             `json:"fastest,omitempty"`
	Cheapest string             `json:"cheapest,omitempty"`
}

type ComparisonService struct {
	llm         llm.LLMProvider
	catalog     *llm.Catalog
	settings    SettingsProvider
	concurrency int
	now         func() time.Time
}

func NewComparisonService(llmProvider llm.LLMProvider, catalog *llm.Catalog, settings SettingsProvider, concurrency int) *ComparisonService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ComparisonService{
		llm:         llmProvider,
		catalog:     catalog,
		settings:    settings,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Compare sends the prompt to every requested model with bounded concurrency.
func (s *ComparisonService) Compare(ctx context.Context, req *ComparisonRequest) (*ComparisonReport, error) {
	if err := validateComparisonModels(req.Models); err != nil {
		return nil, err
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: could not load settings: %v", app_errors.ErrInternal, err)
		}
		maxTokens = settings.MaxTokens
	}

	results := make([]ComparisonResult, len(req.Models))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, modelID := range req.Models {
		g.Go(func() error {
			results[i] = s.run(gctx, modelID, &llm.GenerateRequest{
				Model:       modelID,
				System:      req.SystemPrompt,
				Messages:    []llm.Message{{Role: string(model.RoleUser), Content: req.Prompt}},
				MaxTokens:   maxTokens,
				Temperature: req.Temperature,
			})
			return nil
		})
	}
	// Per-model failures are recorded in the results, so Wait only reports cancellation.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &ComparisonReport{Prompt: req.Prompt, Results: results}
	report.Fastest, report.Cheapest = rankResults(results)
	slog.Info("Comparison finished", "models", len(results), "fastest", report.Fastest, "cheapest", report.Cheapest)
	return report, nil
}

func (s *ComparisonService) run(ctx context.Context, modelID string, req *llm.GenerateRequest) ComparisonResult {
	result := ComparisonResult{Model: modelID}
	start := s.now()
	resp, err := s.llm.Generate(ctx, req)
	result.LatencyMs = s.now().Sub(start).Milliseconds()
	if err != nil {
		slog.Warn("Comparison model failed", "model", modelID, "error", err)
		result.Error = err.Error()
		return result
	}

	result.Content = resp.Content
	result.StopReason = resp.StopReason
	result.Usage = &model.Usage{InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens}
	if cost, ok := s.catalog.EstimateCost(modelID, resp.Usage); ok {
		result.EstimatedCostUSD = &cost
	}
	return result
}

func validateComparisonModels(models []string) error {
	if len(models) < minComparisonModels || len(models) > maxComparisonModels {
		return fmt.Errorf("%w: between %d and %d models are required", app_errors.ErrValidation, minComparisonModels, maxComparisonModels)
	}
	seen := make(map[string]bool, len(models))
	for _, m := range models {
		if m == "" {
			return fmt.Errorf("%w: model id cannot be empty", app_errors.ErrValidation)
		}
		if seen[m] {
			return fmt.Errorf("%w: model %q listed twice", app_errors.ErrValidation, m)
		}
		seen[m] = true
	}
	return nil
}

// rankResults picks the fastest and cheapest successful models.
func rankResults(results []ComparisonResult) (fastest, cheapest string) {
	var bestLatency int64 = -1
	bestCost := -1.0
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		if bestLatency < 0 || r.LatencyMs < bestLatency {
			bestLatency = r.LatencyMs
			fastest = r.Model
		}
		if r.EstimatedCostUSD != nil && (bestCost < 0 || *r.EstimatedCostUSD < bestCost) {
			bestCost = *r.EstimatedCostUSD
			cheapest = r.Model
		}
	}
	return fastest, cheapest
}
