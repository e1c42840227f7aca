package documents

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrEmptyCSV is returned when the input has no header row.
var ErrEmptyCSV = errors.New("csv input has no header row")

// Table is a parsed CSV document. The first row is treated as the header.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// CSVOptions controls parsing. A zero Delimiter means ','.
type CSVOptions struct {
	Delimiter rune
	MaxRows   int
}

// ParseCSV reads a header row and all data rows. Short rows are padded and long rows
// are rejected so that every row lines up with the headers.
func ParseCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("could not read csv header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("column_%d", i+1)
		}
	}

	table := &Table{Headers: headers, Rows: [][]string{}}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read csv row %d: %w", len(table.Rows)+2, err)
		}
		if len(record) > len(headers) {
			return nil, fmt.Errorf("csv row %d has %d fields, header has %d", len(table.Rows)+2, len(record), len(headers))
		}
		for len(record) < len(headers) {
			record = append(record, "")
		}
		table.Rows = append(table.Rows, record)
		if opts.MaxRows > 0 && len(table.Rows) >= opts.MaxRows {
			break
		}
	}
	return table, nil
}

// Records returns the rows keyed by header name.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for j, h := range t.Headers {
			rec[h] = row[j]
		}
		out[i] = rec
	}
	return out
}

// Text renders the table as tab-separated lines for prompts and statistics.
func (t *Table) Text() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(row, "\t"))
	}
	return sb.String()
}

// ParseDelimiter accepts a single character or the names "tab", "comma", "semicolon".
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "comma":
		return ',', nil
	case "tab", "\\t":
		return '\t', nil
	case "semicolon":
		return ';', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid csv delimiter %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid csv delimiter %q", s)
	}
	return r, nil
}
