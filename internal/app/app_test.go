package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claude-chat/backend/internal/config"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	return &config.Config{
		AppPort:               0,
		DatabasePath:          filepath.Join(t.TempDir(), "test.db"),
		AnthropicAPIKey:       "test-key",
		AnthropicBaseURL:      baseURL,
		AnthropicVersion:      "2023-06-01",
		DefaultModel:          "claude-sonnet-4-5",
		SupportModel:          "claude-haiku-4-5",
		MaxTokens:             1024,
		LogLevel:              "DEBUG",
		ComparisonConcurrency: 2,
		MaxUploadBytes:        1 << 20,
		AnalyzeMaxChars:       1000,
	}
}

func TestNewApp(t *testing.T) {
	providerServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"claude-sonnet-4-5-20250929","display_name":"Claude Sonnet 4.5","created_at":"2025-09-29T00:00:00Z"}]}`))
	}))
	defer providerServer.Close()

	app, err := NewApp(testConfig(t, providerServer.URL))
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.NotNil(t, app.DB)
	assert.NotNil(t, app.Server)
	assert.Equal(t, ":0", app.Server.Addr)

	var mainModel string
	require.NoError(t, app.DB.QueryRow("SELECT value FROM settings WHERE key = 'main_model'").Scan(&mainModel))
	assert.Equal(t, "claude-sonnet-4-5", mainModel)

	rr := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	require.NoError(t, app.Shutdown(context.Background()))
}

func TestNewApp_BadDatabasePath(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o600))

	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.DatabasePath = filepath.Join(notADir, "test.db")

	_, err := NewApp(cfg)
	assert.Error(t, err)
}
