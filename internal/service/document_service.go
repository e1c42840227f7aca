package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"claude-chat/backend/internal/documents"
	app_errors "claude-chat/backend/internal/errors"
	"claude-chat/backend/internal/llm"
	"claude-chat/backend/internal/model"
)

const analysisSystemPrompt = "You are a careful analyst. Answer using only the document provided by the user. If the document does not contain the answer, say so."

// Document is an uploaded file. Kind overrides detection when set.
type Document struct {
	Filename    string
	ContentType string
	Kind        string
	Delimiter   string
	Data        []byte
}

// ExtractResult is the text view of a document.
type ExtractResult struct {
	Filename string              `json:"filename,omitempty"`
	Kind     documents.Kind      `json:"kind"`
	Text     string              `json:"text"`
	Pages    int                 `json:"pages,omitempty"`
	Rows     int                 `json:"rows,omitempty"`
	Stats    documents.TextStats `json:"stats"`
}

type FormatJSONRequest struct {
	Content string `json:"content" validate:"required"`
	Indent  int    `json:"indent,omitempty" validate:"omitempty,gte=1,lte=8"`
	Minify  bool   `json:"minify,omitempty"`
}

type FormatJSONResult struct {
	Formatted string `json:"formatted"`
}

type ConvertCSVRequest struct {
	Content   string `json:"content" validate:"required"`
	Delimiter string `json:"delimiter,omitempty"`
	MaxRows   int    `json:"max_rows,omitempty" validate:"omitempty,gte=1"`
}

type ConvertCSVResult struct {
	Headers  []string            `json:"headers"`
	Records  []map[string]string `json:"records"`
	RowCount int                 `json:"row_count"`
}

// AnalysisResult is the model's answer about a document.
type AnalysisResult struct {
	Filename  string              `json:"filename,omitempty"`
	Kind      documents.Kind      `json:"kind"`
	Model     string              `json:"model"`
	Analysis  string              `json:"analysis"`
	Truncated bool                `json:"truncated"`
	Stats     documents.TextStats `json:"stats"`
	Usage     model.Usage         `json:"usage"`
}

type DocumentService struct {
	llm      llm.LLMProvider
	settings SettingsProvider
	maxChars int
}

func NewDocumentService(llmProvider llm.LLMProvider, settings SettingsProvider, maxChars int) *DocumentService {
	return &DocumentService{llm: llmProvider, settings: settings, maxChars: maxChars}
}

// Extract turns an uploaded document into normalized text with statistics.
func (s *DocumentService) Extract(ctx context.Context, doc *Document) (*ExtractResult, error) {
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("%w: document is empty", app_errors.ErrValidation)
	}

	kind := documents.DetectKind(doc.Filename, doc.ContentType)
	if doc.Kind != "" {
		k, ok := documents.ParseKind(doc.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported document kind %q", app_errors.ErrValidation, doc.Kind)
		}
		kind = k
	}

	result := &ExtractResult{Filename: doc.Filename, Kind: kind}
	switch kind {
	case documents.KindPDF:
		extracted, err := documents.ExtractPDF(doc.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", app_errors.ErrValidation, err)
		}
		result.Text = extracted.Text
		result.Pages = extracted.Pages
	case documents.KindCSV:
		delimiter := documents.DefaultDelimiter(doc.Filename, doc.ContentType)
		if doc.Delimiter != "" {
			d, err := documents.ParseDelimiter(doc.Delimiter)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", app_errors.ErrValidation, err)
			}
			delimiter = d
		}
		table, err := documents.ParseCSV(bytes.NewReader(doc.Data), documents.CSVOptions{Delimiter: delimiter})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", app_errors.ErrValidation, err)
		}
		result.Text = table.Text()
		result.Rows = len(table.Rows)
	case documents.KindJSON:
		formatted, err := documents.FormatJSON(doc.Data, "  ")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", app_errors.ErrValidation, err)
		}
		result.Text = string(formatted)
	default:
		if !utf8.Valid(doc.Data) {
			return nil, fmt.Errorf("%w: text documents must be UTF-8", app_errors.ErrValidation)
		}
		result.Text = string(doc.Data)
	}

	result.Text = documents.Normalize(result.Text)
	result.Stats = documents.Stats(result.Text)
	slog.Info("Extracted document", "filename", doc.Filename, "kind", kind, "characters", result.Stats.Characters)
	return result, nil
}

// FormatJSON pretty-prints or minifies a JSON document.
func (s *DocumentService) FormatJSON(ctx context.Context, req *FormatJSONRequest) (*FormatJSONResult, error) {
	indent := ""
	if !req.Minify {
		width := req.Indent
		if width == 0 {
			width = 2
		}
		indent = strings.Repeat(" ", width)
	}
	formatted, err := documents.FormatJSON([]byte(req.Content), indent)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", app_errors.ErrValidation, err)
	}
	return &FormatJSONResult{Formatted: string(formatted)}, nil
}

// ConvertCSV turns CSV text into JSON records keyed by the header row.
func (s *DocumentService) ConvertCSV(ctx context.Context, req *ConvertCSVRequest) (*ConvertCSVResult, error) {
	delimiter, err := documents.ParseDelimiter(req.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrValidation, err)
	}
	table, err := documents.ParseCSV(strings.NewReader(req.Content), documents.CSVOptions{Delimiter: delimiter, MaxRows: req.MaxRows})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrValidation, err)
	}
	return &ConvertCSVResult{Headers: table.Headers, Records: table.Records(), RowCount: len(table.Rows)}, nil
}

// Analyze extracts the document and asks the main model about it.
func (s *DocumentService) Analyze(ctx context.Context, doc *Document, instruction string) (*AnalysisResult, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		instruction = "Summarize this document."
	}

	extracted, err := s.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(extracted.Text) == "" {
		return nil, fmt.Errorf("%w: document has no text to analyze", app_errors.ErrValidation)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not load settings: %v", app_errors.ErrInternal, err)
	}

	text, truncated := documents.Truncate(extracted.Text, s.maxChars)
	prompt := fmt.Sprintf("<document name=%q kind=%q>\n%s\n</document>\n\n%s", doc.Filename, extracted.Kind, text, instruction)
	resp, err := s.llm.Generate(ctx, &llm.GenerateRequest{
		Model:     settings.MainModel,
		System:    analysisSystemPrompt,
		Messages:  []llm.Message{{Role: string(model.RoleUser), Content: prompt}},
		MaxTokens: settings.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		slog.Error("Document analysis failed", "filename", doc.Filename, "error", err)
		return nil, fmt.Errorf("%w: analysis failed: %v", app_errors.ErrUpstream, err)
	}

	return &AnalysisResult{
		Filename:  doc.Filename,
		Kind:      extracted.Kind,
		Model:     settings.MainModel,
		Analysis:  resp.Content,
		Truncated: truncated,
		Stats:     extracted.Stats,
		Usage:     model.Usage{InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens},
	}, nil
}
