// Package analysis implements the deterministic CSV tools: a query-routed
// statistical report and an operator-based row filter.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/petasbytes/csv-agent/internal/csvdata"
)

const (
	topCategories   = 5
	topCorrelations = 5
)

// Analyze renders a text report for query. Routes are tried in a fixed order:
//  1. empty query, "summary" or "overview": table overview with numeric stats
//  2. a header name appears in the query: describe that column
//  3. "correlation" or "trend": strongest Pearson pairs among numeric columns
//  4. otherwise: a guidance message listing the supported intents
//
// Matching is case-insensitive substring matching so paraphrased requests still
// route; output is stable for a given table and query.
func Analyze(t *csvdata.Table, query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	numeric, byName := numericColumns(t)

	if q == "" || strings.Contains(q, "summary") || strings.Contains(q, "overview") {
		return summaryReport(t, numeric)
	}

	for _, h := range t.Columns() {
		if h == "" || !strings.Contains(q, strings.ToLower(h)) {
			continue
		}
		if vals, ok := byName[h]; ok {
			return numericColumnReport(h, vals)
		}
		return categoricalColumnReport(t, h)
	}

	if strings.Contains(q, "correlation") || strings.Contains(q, "trend") {
		return correlationReport(numeric)
	}

	return fmt.Sprintf("Sorry, I couldn't interpret the query '%s'. "+
		"Try asking for 'summary', 'describe <column>', or 'correlation'.", query)
}

func summaryReport(t *csvdata.Table, numeric []numericColumn) string {
	lines := []string{
		fmt.Sprintf("CSV contains %d rows and %d columns.", len(t.Rows), len(t.Headers)),
		fmt.Sprintf("Columns: %s.", strings.Join(t.Headers, ", ")),
		"",
		"Numeric column statistics:",
	}
	for _, c := range numeric {
		s := Describe(c.Values)
		lines = append(lines, fmt.Sprintf("- %s: mean=%.2f, min=%.2f, max=%.2f, std=%.2f",
			c.Name, s.Mean, s.Min, s.Max, s.Std))
	}
	return strings.Join(lines, "\n")
}

func numericColumnReport(name string, vals []float64) string {
	s := Describe(vals)
	return fmt.Sprintf("Column '%s' has %d numeric values.\nMean: %.2f\nMin: %.2f\nMax: %.2f\nStd Dev: %.2f",
		name, s.Count, s.Mean, s.Min, s.Max, s.Std)
}

// CategoryCount is a value and how many rows hold it.
type CategoryCount struct {
	Value string
	Count int
}

// TopValues counts non-empty trimmed values of column and returns the n most
// frequent. Ties keep first-encounter order.
func TopValues(t *csvdata.Table, column string, n int) []CategoryCount {
	var counts []CategoryCount
	pos := make(map[string]int)
	for _, row := range t.Rows {
		cell, ok := t.Cell(row, column)
		if !ok {
			continue
		}
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		if i, ok := pos[v]; ok {
			counts[i].Count++
			continue
		}
		pos[v] = len(counts)
		counts = append(counts, CategoryCount{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func categoricalColumnReport(t *csvdata.Table, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Column '%s' appears to be categorical.\nTop values:", name)
	for _, c := range TopValues(t, name, topCategories) {
		fmt.Fprintf(&b, "\n- %s: %d occurrences", c.Value, c.Count)
	}
	return b.String()
}

// PairCorr is the correlation of two numeric columns.
type PairCorr struct {
	A, B string
	R    float64
}

// Correlations returns every defined pairwise correlation among numeric
// columns, ordered by descending |r|. Pairs with an undefined coefficient are
// omitted.
func Correlations(t *csvdata.Table) []PairCorr {
	numeric, _ := numericColumns(t)
	return correlations(numeric)
}

func correlations(numeric []numericColumn) []PairCorr {
	var pairs []PairCorr
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r, ok := Pearson(numeric[i].Values, numeric[j].Values)
			if !ok {
				continue
			}
			pairs = append(pairs, PairCorr{A: numeric[i].Name, B: numeric[j].Name, R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return math.Abs(pairs[i].R) > math.Abs(pairs[j].R) })
	return pairs
}

func correlationReport(numeric []numericColumn) string {
	pairs := correlations(numeric)
	if len(pairs) == 0 {
		return "No numeric correlations found."
	}
	if len(pairs) > topCorrelations {
		pairs = pairs[:topCorrelations]
	}
	lines := make([]string, 0, len(pairs)+1)
	lines = append(lines, "Top correlations:")
	for _, p := range pairs {
		lines = append(lines, fmt.Sprintf("- %s <-> %s: corr=%.2f", p.A, p.B, p.R))
	}
	return strings.Join(lines, "\n")
}
