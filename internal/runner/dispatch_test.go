package runner_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/petasbytes/csv-agent/internal/runner"
	"github.com/petasbytes/csv-agent/internal/telemetry"
	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

func TestDispatch_NilArgumentsStillGetCSV(t *testing.T) {
	var seen string
	echo := tools.ToolDefinition{
		Name:      "echo",
		DataParam: tools.DataParam,
		Function: func(in json.RawMessage) (string, error) {
			seen = string(in)
			return "ok", nil
		},
	}
	out := runner.Dispatch(context.Background(), []tools.ToolDefinition{echo}, memory.ToolCall{ID: "1", Name: "echo"}, "a\n1")
	if out.IsError || out.Content != "ok" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if seen != `{"csv_text":"a\n1"}` {
		t.Fatalf("unexpected input: %s", seen)
	}
}

func TestDispatch_PanicBecomesError(t *testing.T) {
	bad := tools.ToolDefinition{
		Name:      "bad",
		DataParam: tools.DataParam,
		Function:  func(json.RawMessage) (string, error) { panic("kaboom") },
	}
	out := runner.Dispatch(context.Background(), []tools.ToolDefinition{bad}, memory.ToolCall{ID: "1", Name: "bad"}, grades)
	if !out.IsError || !strings.HasPrefix(out.Content, "Error: ") || !strings.Contains(out.Content, "kaboom") {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestDispatch_BadArgumentTypes(t *testing.T) {
	call := memory.ToolCall{ID: "1", Name: "analyze_csv_data", Arguments: map[string]any{"query": 42}}
	out := runner.Dispatch(context.Background(), tools.Registry(), call, grades)
	if !out.IsError || !strings.HasPrefix(out.Content, "Error: ") {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestDispatch_EmptyCSV(t *testing.T) {
	call := memory.ToolCall{ID: "1", Name: "analyze_csv_data", Arguments: map[string]any{"query": "summary"}}
	out := runner.Dispatch(context.Background(), tools.Registry(), call, " ")
	if !out.IsError || out.Content != "Error: CSV data is empty." {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestDispatch_Telemetry(t *testing.T) {
	dir := observe(t)
	ctx := telemetry.WithRunID(context.Background(), "run-1")

	runner.Dispatch(ctx, tools.Registry(), memory.ToolCall{ID: "1", Name: "analyze_csv_data", Arguments: map[string]any{"query": "summary"}}, grades)
	runner.Dispatch(ctx, tools.Registry(), memory.ToolCall{ID: "2", Name: "filter_data", Arguments: map[string]any{"column_name": "x", "operator": "==", "value": "1"}}, grades)
	runner.Dispatch(ctx, tools.Registry(), memory.ToolCall{ID: "3", Name: "missing"}, grades)

	events := readEvents(t, dir)
	if len(events) != 3 {
		t.Fatalf("want 3 tool_exec events, got %d", len(events))
	}
	wantErr := []any{nil, "tool error", "tool not found"}
	for i, ev := range events {
		if ev["event"] != "tool_exec" || ev["run_id"] != "run-1" {
			t.Errorf("event %d: unexpected %#v", i, ev)
		}
		if ev["error"] != wantErr[i] {
			t.Errorf("event %d: error=%v want %v", i, ev["error"], wantErr[i])
		}
		if v, ok := ev["duration_ms"].(float64); !ok || v < 0 {
			t.Errorf("event %d: duration_ms=%v", i, ev["duration_ms"])
		}
	}
	if v, _ := events[0]["output_size"].(float64); v <= 0 {
		t.Errorf("success should report output_size > 0, got %v", events[0]["output_size"])
	}
}
