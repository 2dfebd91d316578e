package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Name identifies a tool. The set is closed: every valid Name has a constant
// below and an entry in Registry.
type Name string

const (
	AnalyzeCSVData Name = "analyze_csv_data"
	FilterData     Name = "filter_data"
)

// DataParam is the argument that carries the run's CSV text. The dispatcher
// always overwrites it, whatever the model sent.
const DataParam = "csv_text"

// ToolDefinition describes a tool to the model and binds it to its handler.
type ToolDefinition struct {
	Name        Name
	Description string
	InputSchema *jsonschema.Schema
	// DataParam names the argument the dispatcher fills with the run's CSV text.
	DataParam string
	Function  func(input json.RawMessage) (string, error)
}

// GenerateSchema derives an inline JSON Schema from T's json and
// jsonschema_description tags. Fields without omitempty are required.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// Property is a flattened view of one top-level schema property, enough for
// providers whose tool declarations are not raw JSON Schema.
type Property struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Properties lists the schema's top-level properties in declaration order.
func (d ToolDefinition) Properties() []Property {
	if d.InputSchema == nil || d.InputSchema.Properties == nil {
		return nil
	}
	required := make(map[string]bool, len(d.InputSchema.Required))
	for _, r := range d.InputSchema.Required {
		required[r] = true
	}
	var out []Property
	for pair := d.InputSchema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Property{
			Name:        pair.Key,
			Type:        pair.Value.Type,
			Description: pair.Value.Description,
			Required:    required[pair.Key],
		})
	}
	return out
}
