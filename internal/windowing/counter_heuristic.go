package windowing

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/petasbytes/csv-agent/memory"
)

// TokenCounter estimates input-token cost for messages or groups.
type TokenCounter interface {
	CountMessage(m memory.Message) int
	CountGroup(g Group, all []memory.Message) int
}

// HeuristicCounter is the current default deterministic estimator.
// Rules:
//   - message text: rune count
//   - tool calls: rune count of the JSON-encoded arguments
//     Add a small per-block overhead to account for minimal formatting.
type HeuristicCounter struct{}

// Fixed per-block overhead for deterministic counts; changing this requires updating the guard test.
const blockOverhead = 4

func (HeuristicCounter) CountMessage(m memory.Message) int {
	total := 0
	if m.Text != "" || len(m.ToolCalls) == 0 {
		total += utf8.RuneCountInString(m.Text) + blockOverhead
	}
	for _, c := range m.ToolCalls {
		total += countCall(c)
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []memory.Message) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountMessage(all[i])
	}
	return total
}

func countCall(c memory.ToolCall) int {
	if len(c.Arguments) == 0 {
		return blockOverhead
	}
	b, err := json.Marshal(c.Arguments)
	if err != nil {
		vlogf("counter: unencodable_arguments tool=%s using=overhead_only", c.Name)
		return blockOverhead
	}
	return utf8.RuneCount(b) + blockOverhead
}
