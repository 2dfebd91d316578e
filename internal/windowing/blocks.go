package windowing

import (
	"fmt"
	"os"

	"github.com/petasbytes/csv-agent/memory"
)

// GroupKind denotes the atomic unit type within a history.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Group describes a contiguous span of messages [Start, End) in the input slice.
// Kind indicates whether it is a singleton or a validated pair.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into msgs
	End   int // exclusive index into msgs
}

// GroupMessages groups messages into atomic units that preserve tool-call pairs.
// Invariants:
//   - A pair is a model message with N tool calls followed immediately by N
//     tool-result messages.
//   - The i-th tool result answers the i-th tool call (same id, emission order).
//   - Error results pair the same way as successful ones.
func GroupMessages(msgs []memory.Message) []Group {
	groups := make([]Group, 0, len(msgs))
	for i := 0; i < len(msgs); {
		m := msgs[i]
		if m.Role == memory.RoleModel && len(m.ToolCalls) > 0 {
			ok, reason := answeredInOrder(msgs, i)
			if ok {
				end := i + 1 + len(m.ToolCalls)
				groups = append(groups, Group{Kind: GroupPair, Start: i, End: end})
				i = end
				continue
			}
			vlogf("exclude pair: reason=%s idx=%d", reason, i)
		}
		// Fallback: singleton
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

// answeredInOrder checks that the tool calls of msgs[i] are answered by the
// messages right after it, one result per call, in the same order.
func answeredInOrder(msgs []memory.Message, i int) (bool, string) {
	calls := msgs[i].ToolCalls
	for k, call := range calls {
		j := i + 1 + k
		if j >= len(msgs) {
			return false, "missing_results"
		}
		r := msgs[j]
		if r.Role != memory.RoleTool {
			return false, "not_followed_by_results"
		}
		if r.ToolCallID != call.ID {
			return false, "ordering_invalid"
		}
	}
	return true, ""
}

// Validate reports the first position where the history breaks the pairing
// invariant: a tool call without its result, or a result without its call.
func Validate(msgs []memory.Message) error {
	for _, g := range GroupMessages(msgs) {
		if g.Kind == GroupPair {
			continue
		}
		m := msgs[g.Start]
		switch {
		case m.Role == memory.RoleModel && len(m.ToolCalls) > 0:
			return fmt.Errorf("%w: model message %d has unanswered tool calls", ErrUnpaired, g.Start)
		case m.Role == memory.RoleTool:
			return fmt.Errorf("%w: tool result %d (%s) has no matching call", ErrUnpaired, g.Start, m.ToolCallID)
		}
	}
	return nil
}

// minimal verbose logging when AGT_VERBOSE_WINDOW_LOGS=1
var verbose = os.Getenv("AGT_VERBOSE_WINDOW_LOGS") == "1"

func vlogf(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[windowing] "+format+"\n", args...)
	}
}
