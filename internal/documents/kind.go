// Package documents implements the text, CSV, JSON and PDF utilities behind the
// document endpoints. Nothing here talks to the model provider.
package documents

import (
	"mime"
	"path/filepath"
	"strings"
)

type Kind string

const (
	KindPDF  Kind = "pdf"
	KindCSV  Kind = "csv"
	KindJSON Kind = "json"
	KindText Kind = "text"
)

// ParseKind maps an explicit kind name; unknown names return false.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPDF:
		return KindPDF, true
	case KindCSV:
		return KindCSV, true
	case KindJSON:
		return KindJSON, true
	case KindText, "txt", "md", "markdown":
		return KindText, true
	}
	return "", false
}

// DetectKind guesses the document kind from the file name, then the content type.
// Anything unrecognised is treated as plain text.
func DetectKind(filename, contentType string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF
	case ".csv", ".tsv":
		return KindCSV
	case ".json":
		return KindJSON
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return KindText
	}
	switch mediaType {
	case "application/pdf":
		return KindPDF
	case "text/csv", "text/tab-separated-values":
		return KindCSV
	case "application/json":
		return KindJSON
	}
	return KindText
}

// DefaultDelimiter is the CSV delimiter implied by the file: tab for TSV files, comma otherwise.
func DefaultDelimiter(filename, contentType string) rune {
	if strings.EqualFold(filepath.Ext(filename), ".tsv") {
		return '\t'
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "text/tab-separated-values" {
		return '\t'
	}
	return ','
}
