package metrics

import (
	"strings"

	"github.com/petasbytes/csv-agent/internal/csvdata"
)

// Features holds local shape features of a CSV input. No cell values are kept.
type Features struct {
	Bytes      int
	Lines      int
	Rows       int
	Columns    int
	EmptyCells int
}

// CountFeatures computes byte and line counts for s and, when s parses as CSV,
// its data-row, column and empty-cell counts. Unparseable input leaves the table
// counts at zero.
func CountFeatures(s string) Features {
	f := Features{Bytes: len(s), Lines: countLines(s)}
	t, err := csvdata.Parse(s)
	if err != nil {
		return f
	}
	f.Rows = len(t.Rows)
	f.Columns = len(t.Headers)
	f.EmptyCells = countEmptyCells(t)
	return f
}

// countEmptyCells counts blank cells, including cells missing from short rows.
func countEmptyCells(t *csvdata.Table) int {
	n := 0
	for _, row := range t.Rows {
		for i := range t.Headers {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				n++
			}
		}
	}
	return n
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
