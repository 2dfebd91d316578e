package windowing_test

import "github.com/petasbytes/csv-agent/memory"

// Test helpers for building small histories.

func User(text string) memory.Message { return memory.UserMessage(text) }

func Asst(text string) memory.Message { return memory.ModelMessage(text, nil) }

// Call builds a model message issuing tool calls with the given ids.
func Call(ids ...string) memory.Message {
	calls := make([]memory.ToolCall, 0, len(ids))
	for _, id := range ids {
		calls = append(calls, memory.ToolCall{ID: id, Name: "analyze_csv_data", Arguments: map[string]any{"query": "summary"}})
	}
	return memory.ModelMessage("", calls)
}

// Result builds a tool-result message answering id.
func Result(id, content string) memory.Message {
	return memory.ToolResultMessage(id, "analyze_csv_data", content, false)
}
