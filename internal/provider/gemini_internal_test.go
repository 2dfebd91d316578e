package provider

import (
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

func TestGeminiContents_MergesToolResults(t *testing.T) {
	history := []memory.Message{
		memory.UserMessage("go"),
		memory.ModelMessage("", []memory.ToolCall{
			{ID: "a", Name: "analyze_csv_data", Arguments: map[string]any{"query": "summary"}},
			{ID: "b", Name: "filter_data"},
		}),
		memory.ToolResultMessage("a", "analyze_csv_data", "ok", false),
		memory.ToolResultMessage("b", "filter_data", "Error: bad", true),
	}
	got := geminiContents(history)
	if len(got) != 3 {
		t.Fatalf("want 3 contents, got %d", len(got))
	}
	if got[1].Role != "model" || len(got[1].Parts) != 2 {
		t.Fatalf("unexpected model content: %+v", got[1])
	}
	if fc, ok := got[1].Parts[1].(genai.FunctionCall); !ok || fc.Name != "filter_data" || fc.Args == nil {
		t.Fatalf("unexpected second call: %#v", got[1].Parts[1])
	}
	if got[2].Role != "user" || len(got[2].Parts) != 2 {
		t.Fatalf("unexpected results content: %+v", got[2])
	}
	first := got[2].Parts[0].(genai.FunctionResponse)
	second := got[2].Parts[1].(genai.FunctionResponse)
	if first.Name != "analyze_csv_data" || first.Response["content"] != "ok" {
		t.Fatalf("unexpected first response: %+v", first)
	}
	if second.Response["error"] != "Error: bad" {
		t.Fatalf("error result must use the error key: %+v", second)
	}
}

func TestGeminiTools(t *testing.T) {
	got := geminiTools(tools.Registry())
	if len(got) != 1 || len(got[0].FunctionDeclarations) != 2 {
		t.Fatalf("unexpected tools: %+v", got)
	}
	fd := got[0].FunctionDeclarations[1]
	if fd.Name != "filter_data" || fd.Parameters.Type != genai.TypeObject {
		t.Fatalf("unexpected declaration: %+v", fd)
	}
	if p := fd.Parameters.Properties["operator"]; p == nil || p.Type != genai.TypeString {
		t.Fatalf("operator property missing or mistyped: %+v", fd.Parameters.Properties)
	}
	if len(fd.Parameters.Required) != 4 {
		t.Fatalf("want 4 required, got %v", fd.Parameters.Required)
	}
}

func TestGeminiReply_MintsIDs(t *testing.T) {
	c := &genai.Content{Parts: []genai.Part{
		genai.Text("thinking"),
		genai.FunctionCall{Name: "analyze_csv_data", Args: map[string]any{"query": "summary"}},
		genai.FunctionCall{Name: "analyze_csv_data", Args: map[string]any{"query": "correlation"}},
	}}
	m := geminiReply(c)
	if m.Text != "thinking" || len(m.ToolCalls) != 2 {
		t.Fatalf("unexpected reply: %+v", m)
	}
	if m.ToolCalls[0].ID == "" || m.ToolCalls[0].ID == m.ToolCalls[1].ID {
		t.Fatalf("ids must be unique and non-empty: %+v", m.ToolCalls)
	}
}
