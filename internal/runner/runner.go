package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/petasbytes/csv-agent/internal/logging"
	"github.com/petasbytes/csv-agent/internal/prompt"
	"github.com/petasbytes/csv-agent/internal/provider"
	"github.com/petasbytes/csv-agent/internal/telemetry"
	"github.com/petasbytes/csv-agent/internal/windowing"
	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

const DefaultMaxIterations = 5

// NoResponse is the fallback answer when the budget runs out and the last
// message has no text.
const NoResponse = "No response"

// observationLogLimit caps tool output echoed to the log.
const observationLogLimit = 500

// ErrDanglingToolCall means the history about to be sent holds a tool call
// without its result (or a result without its call).
var ErrDanglingToolCall = errors.New("runner: dangling tool call")

type State string

const (
	StateCompleted       State = "completed"
	StateBudgetExhausted State = "budget_exhausted"
)

// Result is a finished run.
type Result struct {
	Text       string
	State      State
	Iterations int // model invocations made
	History    []memory.Message
}

type Runner struct {
	Model         provider.Model
	Tools         []tools.ToolDefinition
	MaxIterations int
	// TokenBudget is advisory: exceeding it is logged, never trimmed.
	TokenBudget int
	Logger      *slog.Logger
}

func New(model provider.Model, toolDefs []tools.ToolDefinition) *Runner {
	return &Runner{
		Model:         model,
		Tools:         toolDefs,
		MaxIterations: DefaultMaxIterations,
		Logger:        logging.Nop(),
	}
}

// Run analyzes csvText following task. It returns an error only when the model
// call fails or ctx ends; tool failures are fed back to the model as results.
func (r *Runner) Run(ctx context.Context, task, csvText string) (*Result, error) {
	maxIter := r.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	log := r.Logger
	if log == nil {
		log = logging.Nop()
	}

	runID, ok := telemetry.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = telemetry.WithRunID(ctx, runID)
	}
	log = log.With("run_id", runID)

	history := memory.NewHistory(memory.UserMessage(prompt.InitialMessage(task, csvText)))
	telemetry.Emit("run_started", map[string]any{
		"run_id":         runID,
		"model":          r.Model.Name(),
		"max_iterations": maxIter,
		"tools":          len(r.Tools),
	})
	telemetry.EmitInputFeatures(ctx, csvText)

	res, err := r.loop(ctx, log, history, maxIter, csvText)

	fields := map[string]any{"run_id": runID, "messages": history.Len()}
	if err != nil {
		fields["state"] = "error"
		fields["error"] = "run failed"
	} else {
		fields["state"] = string(res.State)
		fields["iterations"] = res.Iterations
	}
	telemetry.Emit("run_finished", fields)
	telemetry.PersistTranscript(ctx, history.Messages())
	return res, err
}

func (r *Runner) loop(ctx context.Context, log *slog.Logger, history *memory.History, maxIter int, csvText string) (*Result, error) {
	counter := windowing.HeuristicCounter{}
	runID, _ := telemetry.RunIDFromContext(ctx)

	for iter := 1; iter <= maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgs := history.Messages()
		stats, err := windowing.Prepare(msgs, r.TokenBudget, counter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDanglingToolCall, err)
		}
		telemetry.Emit("window_prepared", map[string]any{
			"run_id":          runID,
			"iteration":       iter,
			"model":           r.Model.Name(),
			"budget":          stats.Budget,
			"total_estimated": stats.Total,
			"groups":          stats.Groups,
			"pairs":           stats.Pairs,
			"over_budget":     stats.OverBudget,
		})
		if stats.OverBudget {
			log.Warn("history exceeds token budget", "estimated", stats.Total, "budget", stats.Budget)
		}

		log.Debug("invoking model", "iteration", iter, "messages", len(msgs))
		reply, err := r.Model.Invoke(ctx, msgs, r.Tools)
		if err != nil {
			return nil, fmt.Errorf("runner: iteration %d: %w", iter, err)
		}
		history.Append(reply)

		if len(reply.ToolCalls) == 0 {
			log.Info("final answer", "iteration", iter)
			return &Result{Text: reply.Text, State: StateCompleted, Iterations: iter, History: history.Messages()}, nil
		}

		log.Info("thought: model requested tools", "iteration", iter, "tools", callNames(reply.ToolCalls))
		for _, call := range reply.ToolCalls {
			out := Dispatch(ctx, r.Tools, call, csvText)
			history.Append(memory.ToolResultMessage(call.ID, call.Name, out.Content, out.IsError))
			log.Debug("action", "tool", call.Name, "call_id", call.ID, "error", out.IsError,
				"observation", logging.Truncate(out.Content, observationLogLimit))
		}
	}

	log.Warn("max iterations reached", "max_iterations", maxIter)
	text := NoResponse
	if last, ok := history.Last(); ok && strings.TrimSpace(last.Text) != "" {
		text = last.Text
	}
	return &Result{Text: text, State: StateBudgetExhausted, Iterations: maxIter, History: history.Messages()}, nil
}

func callNames(calls []memory.ToolCall) []string {
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.Name)
	}
	return names
}
