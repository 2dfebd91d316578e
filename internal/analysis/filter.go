package analysis

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/petasbytes/csv-agent/internal/csvdata"
)

// Operators lists the supported comparison operators in display order.
var Operators = []string{"==", "!=", ">", "<", ">=", "<="}

// FilterErrorKind classifies a filter failure.
type FilterErrorKind int

const (
	UnknownColumn FilterErrorKind = iota + 1
	UnknownOperator
)

// FilterError is returned by Filter for bad column names or operators.
type FilterError struct {
	Kind      FilterErrorKind
	Column    string
	Operator  string
	Available []string
}

func (e *FilterError) Error() string {
	switch e.Kind {
	case UnknownColumn:
		return fmt.Sprintf("Column '%s' not found. Available columns: %s", e.Column, strings.Join(e.Available, ", "))
	default:
		return fmt.Sprintf("Invalid operator '%s'. Use one of: %s", e.Operator, strings.Join(Operators, ", "))
	}
}

func compareFloat(op string, a, b float64) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	default:
		return a <= b
	}
}

func compareString(op string, a, b string) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	default:
		return a <= b
	}
}

func validOperator(op string) bool {
	for _, o := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Filter returns the header plus every row whose column value satisfies
// "cell operator value", encoded as CSV.
//
// When value parses as a number the comparison is numeric, and rows whose cell
// does not parse are dropped rather than reported. This is a deliberate policy:
// a numeric predicate says nothing about non-numeric cells. Otherwise the raw
// cell text is compared lexicographically. Rows too short to hold the column
// never match.
//
// If nothing matches, a readable "No matching rows found." sentence is returned
// instead of a header-only CSV.
func Filter(t *csvdata.Table, column, operator, value string) (string, error) {
	idx := t.Index(column)
	if idx < 0 {
		return "", &FilterError{Kind: UnknownColumn, Column: column, Available: t.Headers}
	}
	if !validOperator(operator) {
		return "", &FilterError{Kind: UnknownOperator, Operator: operator}
	}

	want, numeric := parseNumber(value)

	matched := [][]string{t.Headers}
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		cell := row[idx]
		if numeric {
			got, ok := parseNumber(cell)
			if !ok {
				continue
			}
			if compareFloat(operator, got, want) {
				matched = append(matched, row)
			}
			continue
		}
		if compareString(operator, cell, value) {
			matched = append(matched, row)
		}
	}

	if len(matched) == 1 {
		return fmt.Sprintf("Filtered data for %s %s %s: No matching rows found.", column, operator, value), nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(matched); err != nil {
		return "", fmt.Errorf("encode filtered rows: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
