package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	app_errors "claude-chat/backend/internal/errors"
	"claude-chat/backend/internal/llm"
)

// ModelSummary combines what the provider reports about a model with catalog facts.
type ModelSummary struct {
	ID              string  `json:"id"`
	DisplayName     string  `json:"display_name"`
	Tier            string  `json:"tier,omitempty"`
	ContextWindow   int     `json:"context_window,omitempty"`
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"`
	InputPerMTok    float64 `json:"input_per_mtok,omitempty"`
	OutputPerMTok   float64 `json:"output_per_mtok,omitempty"`
	Available       bool    `json:"available"`
}

type ModelService struct {
	llm     llm.LLMProvider
	catalog *llm.Catalog
}

func NewModelService(llmProvider llm.LLMProvider, catalog *llm.Catalog) *ModelService {
	return &ModelService{llm: llmProvider, catalog: catalog}
}

// ListModels returns the provider's models enriched with catalog data. Catalog entries
// the provider did not report are appended with Available=false so that pricing for
// older conversations can still be shown.
func (s *ModelService) ListModels(ctx context.Context) ([]ModelSummary, error) {
	resp, err := s.llm.ListModels(ctx)
	if err != nil {
		slog.Error("Error listing models from provider", "error", err)
		return nil, fmt.Errorf("%w: could not list models: %v", app_errors.ErrUpstream, err)
	}

	seen := make(map[string]bool, len(resp.Models))
	summaries := make([]ModelSummary, 0, len(resp.Models))
	for _, m := range resp.Models {
		summary := ModelSummary{ID: m.ID, DisplayName: m.DisplayName, Available: true}
		if entry, ok := s.catalog.Lookup(m.ID); ok {
			applyCatalogEntry(&summary, entry)
			seen[entry.ID] = true
		}
		if summary.DisplayName == "" {
			summary.DisplayName = m.ID
		}
		seen[m.ID] = true
		summaries = append(summaries, summary)
	}

	var missing []ModelSummary
	for _, entry := range s.catalog.Entries() {
		if seen[entry.ID] {
			continue
		}
		summary := ModelSummary{ID: entry.ID, DisplayName: entry.DisplayName}
		applyCatalogEntry(&summary, entry)
		missing = append(missing, summary)
	}
	sort.SliceStable(missing, func(i, j int) bool { return missing[i].ID < missing[j].ID })

	return append(summaries, missing...), nil
}

func applyCatalogEntry(summary *ModelSummary, entry llm.CatalogEntry) {
	if summary.DisplayName == "" {
		summary.DisplayName = entry.DisplayName
	}
	summary.Tier = entry.Tier
	summary.ContextWindow = entry.ContextWindow
	summary.MaxOutputTokens = entry.MaxOutputTokens
	summary.InputPerMTok = entry.InputPerMTok
	summary.OutputPerMTok = entry.OutputPerMTok
}
