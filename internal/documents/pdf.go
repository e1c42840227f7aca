package documents

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned for PDFs without an extractable text layer (e.g. scans).
var ErrNoText = errors.New("pdf has no extractable text")

// PDFText holds the plain text of a PDF.
type PDFText struct {
	Text  string
	Pages int
}

// ExtractPDF reads the text layer of an in-memory PDF.
func ExtractPDF(data []byte) (result *PDFText, err error) {
	// The parser panics on some malformed inputs instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("could not parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("could not open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("could not extract pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return nil, fmt.Errorf("could not read pdf text: %w", err)
	}

	text := strings.TrimSpace(Normalize(string(raw)))
	if text == "" {
		return nil, ErrNoText
	}
	return &PDFText{Text: text, Pages: reader.NumPage()}, nil
}
