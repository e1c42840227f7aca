package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"claude-chat/backend/internal/api"
	"claude-chat/backend/internal/config"
	"claude-chat/backend/internal/database"
	"claude-chat/backend/internal/llm"
	"claude-chat/backend/internal/repository"
	"claude-chat/backend/internal/service"
	"claude-chat/backend/internal/stream"
)

const shutdownTimeout = 15 * time.Second

// App holds the long-lived resources of a running server.
type App struct {
	DB       *sql.DB
	Server   *http.Server
	Chat     *service.ChatService
	Provider llm.LLMProvider
}

// NewApp opens the database, seeds settings and wires every service and handler.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)

	provider := llm.NewAnthropicProvider(llm.AnthropicConfig{
		BaseURL:   cfg.AnthropicBaseURL,
		APIKey:    cfg.AnthropicAPIKey,
		Version:   cfg.AnthropicVersion,
		MaxTokens: cfg.MaxTokens,
	})
	catalog := llm.DefaultCatalog()

	repo := repository.NewSQLiteRepository(db)
	settingsService := service.NewSettingsService(db, provider)

	appSettings, err := settingsService.InitAndGet(context.Background(), service.SettingsDefaults{
		SystemPrompt: cfg.InitialSystemPrompt,
		MainModel:    cfg.DefaultModel,
		SupportModel: cfg.SupportModel,
		MaxTokens:    cfg.MaxTokens,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize application settings: %w", err)
	}
	slog.Info("Loaded application settings", "main_model", appSettings.MainModel, "support_model", appSettings.SupportModel)

	chatService := service.NewChatService(repo, provider, settingsService, stream.NewRegistry())
	modelService := service.NewModelService(provider, catalog)
	comparisonService := service.NewComparisonService(provider, catalog, settingsService, cfg.ComparisonConcurrency)
	documentService := service.NewDocumentService(provider, settingsService, cfg.AnalyzeMaxChars)

	router := api.NewRouter(
		api.NewChatHandler(chatService, settingsService),
		api.NewModelHandler(modelService, comparisonService),
		api.NewDocumentHandler(documentService, cfg.MaxUploadBytes),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{DB: db, Server: server, Chat: chatService, Provider: provider}, nil
}

// Shutdown stops accepting requests, waits for in-flight work and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)
	a.Chat.Wait()
	if cerr := a.DB.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close database connection: %w", cerr))
	}
	return err
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not configured yet.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	if cfg.AnthropicAPIKey == "" {
		slog.Warn("ANTHROPIC_API_KEY is not set, requests to the model provider will fail.")
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to start application", "error", err)
		return 1
	}

	checkProvider(app.Provider, cfg.AnthropicBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.AppPort)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	exitCode := 0
	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
			exitCode = 1
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		exitCode = 1
	}
	slog.Info("Server stopped")
	return exitCode
}

// checkProvider logs whether the model provider is reachable with the configured key.
// The server starts either way.
func checkProvider(provider llm.LLMProvider, baseURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	models, err := provider.ListModels(ctx)
	if err != nil {
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			slog.Warn("Model provider rejected the startup check", "status", apiErr.StatusCode, "type", apiErr.Type, "message", apiErr.Message)
			return
		}
		slog.Warn("Model provider is not reachable", "url", baseURL, "error", err)
		return
	}
	slog.Info("Model provider is ready.", "models", len(models.Models))
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
