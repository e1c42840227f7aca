package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "claude-chat/backend/internal/errors"
	"claude-chat/backend/internal/model"
)

// Shared response DTOs and helpers for consistent HTTP and SSE responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is returned by operations that have no resource to return.
type StatusResponse struct {
	Status string `json:"status"`
}

// UpdateTitleRequest is the DTO for the manual conversation title update endpoint.
type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100" example:"Trip to Lisbon"`
}

// respondWithError maps business-layer errors to HTTP status codes and writes
// a standard JSON error body.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = err.Error()
	case errors.Is(err, app_errors.ErrPermission):
		statusCode = http.StatusForbidden
		message = "You do not have permission to perform this action."
	case errors.Is(err, app_errors.ErrUpstream):
		statusCode = http.StatusBadGateway
		message = "The model provider could not complete the request."
	default:
		// Details stay in the log.
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// sendStreamError sends an `event: error` frame over an SSE stream.
func sendStreamError(w http.ResponseWriter, message string) {
	slog.Warn("Sending stream error to client", "message", message)
	jsonData, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		slog.Error("Failed to marshal stream error payload", "error", err)
		return
	}

	if _, err := fmt.Fprintf(w, "event: error\ndata: %s\n\n", string(jsonData)); err != nil {
		// Usually the client closed the connection.
		slog.Warn("Failed to write stream error, client might have disconnected", "error", err)
		return
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// writeStreamEvent writes one `data:` frame. A returned error means the client is gone.
func writeStreamEvent(w http.ResponseWriter, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		return nil
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", string(jsonData)); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// pipeStream forwards service chunks to the client as SSE frames. An error raised
// before anything was written is answered with a plain HTTP error status instead.
func pipeStream(w http.ResponseWriter, r *http.Request, streamChan <-chan model.StreamResponse) {
	wrote := false
	for chunk := range streamChan {
		if chunk.Error != "" {
			if !wrote {
				if err := streamCodeError(chunk); err != nil {
					respondWithError(w, err)
					return
				}
			}
			sendStreamError(w, chunk.Error)
			wrote = true
			continue
		}
		if err := writeStreamEvent(w, chunk); err != nil {
			slog.Warn("Could not write to stream, client likely disconnected.", "error", err)
			return
		}
		wrote = true
	}
	if r.Context().Err() != nil {
		slog.Info("Client disconnected during stream.")
	}
}

func streamCodeError(chunk model.StreamResponse) error {
	switch chunk.Code {
	case model.StreamErrorConflict:
		return fmt.Errorf("%w: %s", app_errors.ErrConflict, chunk.Error)
	case model.StreamErrorNotFound:
		return fmt.Errorf("%w: %s", app_errors.ErrNotFound, chunk.Error)
	case model.StreamErrorValidation:
		return fmt.Errorf("%w: %s", app_errors.ErrValidation, chunk.Error)
	}
	return nil
}
