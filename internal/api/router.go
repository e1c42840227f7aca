package api

import (
	"net/http"
	"time"

	// Registers the swagger spec served under /api/swagger.
	_ "claude-chat/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(chatHandler *ChatHandler, modelHandler *ModelHandler, documentHandler *DocumentHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Liveness probe.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Plain JSON routes get a request timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/settings", chatHandler.GetSettings)
			r.Post("/settings", chatHandler.UpdateSettings)

			r.Get("/conversations", chatHandler.GetConversations)
			r.Get("/conversations/{conversationID}", chatHandler.GetConversation)
			r.Put("/conversations/{conversationID}/title", chatHandler.UpdateConversationTitle)
			r.Delete("/conversations/{conversationID}", chatHandler.HandleDeleteConversation)
			r.Get("/conversations/{conversationID}/export", chatHandler.HandleExportConversation)
			r.Post("/conversations/{conversationID}/cancel", chatHandler.HandleCancelStream)

			r.Get("/models", modelHandler.HandleListModels)

			r.Post("/documents/json/format", documentHandler.HandleFormatJSON)
			r.Post("/documents/csv/convert", documentHandler.HandleConvertCSV)
			r.Post("/documents/extract", documentHandler.HandleExtract)
		})

		// Routes that wait on the model provider. Streaming routes must not time out,
		// the others get a longer budget than plain JSON routes.
		r.Group(func(r chi.Router) {
			r.Post("/conversations/messages", chatHandler.HandleStreamMessage)
			r.Post("/conversations/{conversationID}/messages/{messageID}/regenerate", chatHandler.HandleRegenerateMessage)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(5 * time.Minute))

			r.Post("/comparisons", modelHandler.HandleCompare)
			r.Post("/documents/analyze", documentHandler.HandleAnalyze)
		})
	})

	return r
}
