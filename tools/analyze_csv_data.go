package tools

import (
	"encoding/json"

	"github.com/petasbytes/csv-agent/internal/analysis"
	"github.com/petasbytes/csv-agent/internal/csvdata"
)

type AnalyzeCSVDataInput struct {
	CSVText string `json:"csv_text" jsonschema_description:"The CSV data as a string."`
	Query   string `json:"query" jsonschema_description:"The analysis query (e.g., \"summary\", \"describe columns\", \"find trends\")."`
}

var AnalyzeCSVDataDefinition = ToolDefinition{
	Name: AnalyzeCSVData,
	Description: `Analyzes CSV data and extracts key statistics or insights based on the query.

Supported queries: "summary" (row/column counts and numeric column statistics), a column name (describe that column), and "correlation" (strongest correlations between numeric columns).
Returns a text summary of the analysis.`,
	InputSchema: AnalyzeCSVDataInputSchema,
	DataParam:   DataParam,
	Function:    AnalyzeCSVDataTool,
}

var AnalyzeCSVDataInputSchema = GenerateSchema[AnalyzeCSVDataInput]()

// AnalyzeCSVDataTool parses the CSV argument and routes the query through the
// statistical analyzer.
func AnalyzeCSVDataTool(input json.RawMessage) (string, error) {
	var in AnalyzeCSVDataInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	tbl, err := csvdata.Parse(in.CSVText)
	if err != nil {
		return "", err
	}
	return analysis.Analyze(tbl, in.Query), nil
}
