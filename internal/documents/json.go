package documents

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// SyntaxError locates a JSON parse failure.
type SyntaxError struct {
	Offset int64  `json:"offset"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Msg    string `json:"message"`
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid json at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// ValidateJSON reports nil for a single well-formed JSON value.
func ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return locate(data, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		off := dec.InputOffset()
		line, col := position(data, off)
		return &SyntaxError{Offset: off, Line: line, Column: col, Msg: "unexpected data after top-level value"}
	}
	return nil
}

// FormatJSON re-indents data. An empty indent produces compact output.
func FormatJSON(data []byte, indent string) ([]byte, error) {
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	var err error
	if indent == "" {
		err = json.Compact(&out, data)
	} else {
		err = json.Indent(&out, bytes.TrimSpace(data), "", indent)
	}
	if err != nil {
		return nil, locate(data, err)
	}
	return out.Bytes(), nil
}

func locate(data []byte, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := position(data, syntaxErr.Offset)
		return &SyntaxError{Offset: syntaxErr.Offset, Line: line, Column: col, Msg: syntaxErr.Error()}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		line, col := position(data, int64(len(data)))
		return &SyntaxError{Offset: int64(len(data)), Line: line, Column: col, Msg: "unexpected end of input"}
	}
	return &SyntaxError{Line: 1, Column: 1, Msg: err.Error()}
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
