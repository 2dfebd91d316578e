package tools

// Registry returns all tool definitions wired for the agent
func Registry() []ToolDefinition {
	return []ToolDefinition{AnalyzeCSVDataDefinition, FilterDataDefinition}
}

// Lookup resolves a model-supplied tool name against the static registry.
func Lookup(defs []ToolDefinition, name string) (ToolDefinition, bool) {
	for _, d := range defs {
		if string(d.Name) == name {
			return d, true
		}
	}
	return ToolDefinition{}, false
}
