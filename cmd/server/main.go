package main

import (
	"os"

	"claude-chat/backend/internal/app"
)

// @title        Claude Chat API
// @version      1.0
// @description  Streaming chat, document utilities and model comparison over the Anthropic Messages API.
// @BasePath     /api
func main() {
	os.Exit(app.Run())
}
