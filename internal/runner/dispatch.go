package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/petasbytes/csv-agent/internal/telemetry"
	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

// Outcome is the result of one tool call as the model will see it.
type Outcome struct {
	Content string
	IsError bool
}

func errorOutcome(format string, args ...any) Outcome {
	return Outcome{Content: "Error: " + fmt.Sprintf(format, args...), IsError: true}
}

// Dispatch runs call against defs with csvText injected under the tool's data
// parameter, replacing whatever the model supplied. Unknown tools, bad
// arguments, handler errors and handler panics all become error outcomes.
func Dispatch(ctx context.Context, defs []tools.ToolDefinition, call memory.ToolCall, csvText string) Outcome {
	runID, _ := telemetry.RunIDFromContext(ctx)
	start := time.Now()

	// input/output sizes only; payloads stay out of telemetry
	emit := func(inputSize, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   call.Name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  inputSize,
			"output_size": outputSize,
			"run_id":      runID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	def, ok := tools.Lookup(defs, call.Name)
	if !ok {
		emit(0, 0, "tool not found")
		return errorOutcome("unknown tool %q", call.Name)
	}

	args := maps.Clone(call.Arguments)
	if args == nil {
		args = map[string]any{}
	}
	args[def.DataParam] = csvText
	input, err := json.Marshal(args)
	if err != nil {
		emit(0, 0, "bad arguments")
		return errorOutcome("invalid arguments: %v", err)
	}

	out, err := invoke(def, input)
	if err != nil {
		// generic string in telemetry; the detail goes to the model
		emit(len(input), 0, "tool error")
		return errorOutcome("%v", err)
	}
	emit(len(input), len(out), "")
	return Outcome{Content: out}
}

// invoke calls the handler, converting a panic into an error.
func invoke(def tools.ToolDefinition, input json.RawMessage) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", def.Name, r)
		}
	}()
	return def.Function(input)
}
