// Package csvdata parses raw CSV text into a header row plus data rows shared by
// the analysis tools.
package csvdata

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	ErrEmpty ErrorKind = iota + 1
	ErrMalformed
)

// ParseError is returned by Parse. Its message is written for the model, not for
// a developer, because tools surface it verbatim as a tool result.
type ParseError struct {
	Kind ErrorKind
	Err  error // underlying csv error, if any
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrEmpty:
		return "CSV data is empty."
	default:
		return "Invalid or empty CSV data."
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsKind reports whether err is a *ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}

// Table is a parsed CSV document. Rows keep their raw cells and may be shorter
// or longer than Headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Parse reads text as comma-delimited, double-quote-escaped CSV.
//
// Quoted fields and embedded delimiters follow encoding/csv. Ragged rows are
// retained. A read error after at least one data row keeps what was recovered.
func Parse(text string) (*Table, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Kind: ErrEmpty}
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Kind: ErrMalformed}
		}
		return nil, &ParseError{Kind: ErrMalformed, Err: err}
	}
	if len(header) == 0 {
		return nil, &ParseError{Kind: ErrMalformed}
	}

	t := &Table{Headers: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if len(t.Rows) == 0 {
				return nil, &ParseError{Kind: ErrMalformed, Err: err}
			}
			break
		}
		t.Rows = append(t.Rows, rec)
	}
	if len(t.Rows) == 0 {
		return nil, &ParseError{Kind: ErrMalformed}
	}
	return t, nil
}

// Index returns the position of the first header equal to name, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the raw value of column name in row. ok is false when the column
// does not exist or the row is too short to hold it.
func (t *Table) Cell(row []string, name string) (string, bool) {
	i := t.Index(name)
	if i < 0 || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// Columns returns header names in order with duplicates removed (first wins).
func (t *Table) Columns() []string {
	seen := make(map[string]struct{}, len(t.Headers))
	out := make([]string, 0, len(t.Headers))
	for _, h := range t.Headers {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
