package windowing

import (
	"errors"

	"github.com/petasbytes/csv-agent/memory"
)

// ErrUnpaired marks a history that would send a dangling tool call (or an
// orphan tool result) to the model.
var ErrUnpaired = errors.New("windowing: unpaired tool call")

// Stats summarizes a history about to be sent.
//
// Fields:
// - Total: estimated tokens for the whole history.
// - Budget: the advisory token budget (0 when unset).
// - Groups: number of atomic groups.
// - Pairs: number of tool-call pairs among them.
// - OverBudget: true when Budget > 0 and Total exceeds it.
type Stats struct {
	Total      int
	Budget     int
	Groups     int
	Pairs      int
	OverBudget bool
}

// Prepare validates that every tool call in msgs is answered and estimates the
// cost of sending the full history. The history is never trimmed: the model
// always sees every message. budget is advisory and only sets OverBudget.
func Prepare(msgs []memory.Message, budget int, c TokenCounter) (Stats, error) {
	stats := Stats{Budget: budget}
	if len(msgs) == 0 {
		return stats, nil
	}
	if err := Validate(msgs); err != nil {
		return stats, err
	}

	groups := GroupMessages(msgs)
	stats.Groups = len(groups)
	for _, g := range groups {
		if g.Kind == GroupPair {
			stats.Pairs++
		}
		stats.Total += c.CountGroup(g, msgs)
	}
	if budget > 0 && stats.Total > budget {
		vlogf("reason=over_budget budget=%d total=%d", budget, stats.Total)
		stats.OverBudget = true
	}
	return stats, nil
}
