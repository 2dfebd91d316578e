// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, data parameter, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - CSV tools: analyze_csv_data, filter_data. Names and argument names are part
//     of the contract with the model and must not change.
//   - Invariants: handlers are pure functions of their input and safe for concurrent use.
package tools
