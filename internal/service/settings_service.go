package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	app_errors "claude-chat/backend/internal/errors"
	"claude-chat/backend/internal/llm"
)

const (
	keySystemPrompt = "system_prompt"
	keyMainModel    = "main_model"
	keySupportModel = "support_model"
	keyMaxTokens    = "max_tokens"
)

// Settings holds the runtime-editable application settings stored in SQLite.
type Settings struct {
	SystemPrompt string `json:"system_prompt" validate:"max=20000"`
	MainModel    string `json:"main_model" validate:"required,model_id"`
	SupportModel string `json:"support_model" validate:"required,model_id"`
	MaxTokens    int    `json:"max_tokens" validate:"gte=1,lte=128000"`
}

// SettingsDefaults seeds the settings table on first start.
type SettingsDefaults struct {
	SystemPrompt string
	MainModel    string
	SupportModel string
	MaxTokens    int
}

type SettingsService struct {
	db  *sql.DB
	llm llm.LLMProvider
}

func NewSettingsService(db *sql.DB, llmProvider llm.LLMProvider) *SettingsService {
	return &SettingsService{db: db, llm: llmProvider}
}

// InitAndGet returns the stored settings, seeding any missing key from defaults.
func (s *SettingsService) InitAndGet(ctx context.Context, defaults SettingsDefaults) (*Settings, error) {
	stored, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := &Settings{
		SystemPrompt: defaults.SystemPrompt,
		MainModel:    defaults.MainModel,
		SupportModel: defaults.SupportModel,
		MaxTokens:    defaults.MaxTokens,
	}
	if len(stored) > 0 {
		slog.Info("Found existing settings in the database.")
		applyStored(settings, stored)
	} else {
		slog.Info("No settings found. Seeding from configuration defaults.")
	}

	if settings.MainModel == "" {
		settings.MainModel = s.firstAvailableModel(ctx)
	}
	if settings.SupportModel == "" {
		settings.SupportModel = settings.MainModel
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = 4096
	}

	if err := s.persist(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save initial settings: %w", err)
	}
	return settings, nil
}

// Get retrieves the current settings. An empty main model is repaired from the
// provider's model list so that chats can always start.
func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	stored, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("%w: settings have not been initialized", app_errors.ErrNotFound)
	}

	settings := &Settings{}
	applyStored(settings, stored)

	if settings.MainModel == "" {
		if m := s.firstAvailableModel(ctx); m != "" {
			slog.Warn("Main model was empty, repairing settings.", "model", m)
			settings.MainModel = m
			if settings.SupportModel == "" {
				settings.SupportModel = m
			}
			if err := s.persist(ctx, settings); err != nil {
				return nil, fmt.Errorf("failed to save repaired settings: %w", err)
			}
		}
	}
	if settings.SupportModel == "" {
		settings.SupportModel = settings.MainModel
	}
	return settings, nil
}

// Save validates the models against the provider when it is reachable, then stores the settings.
func (s *SettingsService) Save(ctx context.Context, settings *Settings) error {
	available, err := s.llm.ListModels(ctx)
	if err != nil {
		slog.Warn("Could not list models for validation, saving settings without check", "error", err)
	} else {
		ids := make([]string, len(available.Models))
		for i, m := range available.Models {
			ids[i] = m.ID
		}
		if !modelAvailable(ids, settings.MainModel) {
			return fmt.Errorf("%w: main model '%s' is not available", app_errors.ErrValidation, settings.MainModel)
		}
		if !modelAvailable(ids, settings.SupportModel) {
			return fmt.Errorf("%w: support model '%s' is not available", app_errors.ErrValidation, settings.SupportModel)
		}
	}
	return s.persist(ctx, settings)
}

func (s *SettingsService) firstAvailableModel(ctx context.Context) string {
	models, err := s.llm.ListModels(ctx)
	if err != nil {
		slog.Warn("Could not list models from provider", "error", err)
		return ""
	}
	if len(models.Models) == 0 {
		return ""
	}
	return models.Models[0].ID
}

func (s *SettingsService) load(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *SettingsService) persist(ctx context.Context, settings *Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	values := [][2]string{
		{keySystemPrompt, settings.SystemPrompt},
		{keyMainModel, settings.MainModel},
		{keySupportModel, settings.SupportModel},
		{keyMaxTokens, strconv.Itoa(settings.MaxTokens)},
	}
	const upsert = "INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	for _, kv := range values {
		if _, err := tx.ExecContext(ctx, upsert, kv[0], kv[1]); err != nil {
			return fmt.Errorf("could not save setting %s: %w", kv[0], err)
		}
	}
	return tx.Commit()
}

func applyStored(settings *Settings, stored map[string]string) {
	if v, ok := stored[keySystemPrompt]; ok {
		settings.SystemPrompt = v
	}
	if v, ok := stored[keyMainModel]; ok {
		settings.MainModel = v
	}
	if v, ok := stored[keySupportModel]; ok {
		settings.SupportModel = v
	}
	if v, ok := stored[keyMaxTokens]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			settings.MaxTokens = n
		}
	}
}

// modelAvailable accepts exact ids as well as aliases of dated snapshots,
// e.g. "claude-sonnet-4-5" for "claude-sonnet-4-5-20250929".
func modelAvailable(ids []string, want string) bool {
	base := strings.TrimSuffix(want, "-latest")
	for _, id := range ids {
		if id == want || strings.HasPrefix(id, base+"-") {
			return true
		}
	}
	return false
}
