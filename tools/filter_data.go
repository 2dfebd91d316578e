package tools

import (
	"encoding/json"

	"github.com/petasbytes/csv-agent/internal/analysis"
	"github.com/petasbytes/csv-agent/internal/csvdata"
)

type FilterDataInput struct {
	CSVText    string `json:"csv_text" jsonschema_description:"The CSV data as a string"`
	ColumnName string `json:"column_name" jsonschema_description:"Column to filter on"`
	Operator   string `json:"operator" jsonschema_description:"Filtering operator (e.g., '==', '!=', '>', '<', '>=', '<=')"`
	Value      string `json:"value" jsonschema_description:"The value to compare against (will be string-compared or float-compared if possible)"`
}

var FilterDataDefinition = ToolDefinition{
	Name:        FilterData,
	Description: "Filters CSV data based on a condition. Returns the filtered CSV data as a string, including headers, or an error message.",
	InputSchema: FilterDataInputSchema,
	DataParam:   DataParam,
	Function:    FilterDataTool,
}

var FilterDataInputSchema = GenerateSchema[FilterDataInput]()

func FilterDataTool(input json.RawMessage) (string, error) {
	var in FilterDataInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	tbl, err := csvdata.Parse(in.CSVText)
	if err != nil {
		return "", err
	}
	return analysis.Filter(tbl, in.ColumnName, in.Operator, in.Value)
}
