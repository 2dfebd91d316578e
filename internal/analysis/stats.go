package analysis

import (
	"math"
	"strconv"
	"strings"

	"github.com/petasbytes/csv-agent/internal/csvdata"
)

// numericColumn holds the parseable values of one column in row order.
type numericColumn struct {
	Name   string
	Values []float64
}

// parseNumber parses a trimmed cell as a float. Empty strings never parse.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// numericColumns classifies every distinct header. A column is numeric when at
// least one of its cells parses; unparseable cells are skipped, so mixed columns
// still aggregate their numeric part.
func numericColumns(t *csvdata.Table) ([]numericColumn, map[string][]float64) {
	var ordered []numericColumn
	byName := make(map[string][]float64)
	for _, h := range t.Columns() {
		var vals []float64
		for _, row := range t.Rows {
			cell, ok := t.Cell(row, h)
			if !ok {
				continue
			}
			if f, ok := parseNumber(cell); ok {
				vals = append(vals, f)
			}
		}
		if len(vals) > 0 {
			ordered = append(ordered, numericColumn{Name: h, Values: vals})
			byName[h] = vals
		}
	}
	return ordered, byName
}

// Summary holds descriptive statistics for a non-empty series.
type Summary struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
	Std   float64 // population standard deviation (divisor n)
}

// Describe computes Summary for vals. vals must be non-empty.
func Describe(vals []float64) Summary {
	s := Summary{Count: len(vals), Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, v := range vals {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(len(vals))
	var ss float64
	for _, v := range vals {
		d := v - s.Mean
		ss += d * d
	}
	s.Std = math.Sqrt(ss / float64(len(vals)))
	return s
}

// Pearson returns the correlation coefficient of a[:n] and b[:n] where n is the
// shorter length. ok is false when n < 2 or either series has zero variance,
// in which case the coefficient is undefined.
func Pearson(a, b []float64) (r float64, ok bool) {
	n := min(len(a), len(b))
	if n < 2 {
		return 0, false
	}
	a, b = a[:n], b[:n]
	var ma, mb float64
	for i := 0; i < n; i++ {
		ma += a[i]
		mb += b[i]
	}
	ma /= float64(n)
	mb /= float64(n)

	var sab, saa, sbb float64
	for i := 0; i < n; i++ {
		da, db := a[i]-ma, b[i]-mb
		sab += da * db
		saa += da * da
		sbb += db * db
	}
	if saa == 0 || sbb == 0 {
		return 0, false
	}
	r = sab / math.Sqrt(saa*sbb)
	// Clamp float drift so |r| never exceeds 1.
	return math.Max(-1, math.Min(1, r)), true
}
