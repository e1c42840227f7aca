package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	app_errors "claude-chat/backend/internal/errors"
	"claude-chat/backend/internal/interfaces"
	"claude-chat/backend/internal/service"
)

// DocumentHandler serves the document utilities.
type DocumentHandler struct {
	documentService interfaces.DocumentService
	maxUploadBytes  int64
}

func NewDocumentHandler(documentSvc interfaces.DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{documentService: documentSvc, maxUploadBytes: maxUploadBytes}
}

// HandleExtract godoc
// @Summary      Extract text from a document
// @Description  Accepts PDF, CSV, JSON and plain text. The kind is detected from the file name unless given.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "Document"
// @Param        kind       formData  string  false  "pdf, csv, json or text"
// @Param        delimiter  formData  string  false  "CSV delimiter: comma, tab, semicolon or a single character"
// @Success      200        {object}  service.ExtractResult
// @Failure      400        {object}  ErrorResponse
// @Failure      413        {object}  ErrorResponse
// @Router       /v1/documents/extract [post]
func (h *DocumentHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	result, err := h.documentService.Extract(r.Context(), doc)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandleAnalyze godoc
// @Summary      Analyze a document with the main model
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true   "Document"
// @Param        instruction  formData  string  false  "What to ask about the document"
// @Param        kind         formData  string  false  "pdf, csv, json or text"
// @Success      200          {object}  service.AnalysisResult
// @Failure      400          {object}  ErrorResponse
// @Failure      502          {object}  ErrorResponse
// @Router       /v1/documents/analyze [post]
func (h *DocumentHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	result, err := h.documentService.Analyze(r.Context(), doc, r.FormValue("instruction"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandleFormatJSON godoc
// @Summary      Validate and format JSON
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      service.FormatJSONRequest  true  "JSON text"
// @Success      200      {object}  service.FormatJSONResult
// @Failure      400      {object}  ErrorResponse
// @Router       /v1/documents/json/format [post]
func (h *DocumentHandler) HandleFormatJSON(w http.ResponseWriter, r *http.Request) {
	var req service.FormatJSONRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	result, err := h.documentService.FormatJSON(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandleConvertCSV godoc
// @Summary      Convert CSV to JSON records
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      service.ConvertCSVRequest  true  "CSV text"
// @Success      200      {object}  service.ConvertCSVResult
// @Failure      400      {object}  ErrorResponse
// @Router       /v1/documents/csv/convert [post]
func (h *DocumentHandler) HandleConvertCSV(w http.ResponseWriter, r *http.Request) {
	var req service.ConvertCSVRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	result, err := h.documentService.ConvertCSV(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *DocumentHandler) decodeJSON(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: fmt.Sprintf("Request body exceeds %d bytes", h.maxUploadBytes)})
			return false
		}
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return false
	}
	if err := validateRequest(payload); err != nil {
		respondWithError(w, err)
		return false
	}
	return true
}

// readUpload reads the "file" part of a multipart form into memory.
func (h *DocumentHandler) readUpload(w http.ResponseWriter, r *http.Request) (*service.Document, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: fmt.Sprintf("Upload exceeds %d bytes", h.maxUploadBytes)})
			return nil, false
		}
		respondWithError(w, fmt.Errorf("%w: expected a multipart form with a file field", app_errors.ErrValidation))
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, fmt.Errorf("%w: missing file field", app_errors.ErrValidation))
		return nil, false
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("Failed to close uploaded file", "error", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, fmt.Errorf("could not read upload: %w", err))
		return nil, false
	}

	return &service.Document{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Kind:        r.FormValue("kind"),
		Delimiter:   r.FormValue("delimiter"),
		Data:        data,
	}, true
}
