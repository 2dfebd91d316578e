package runner_test

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

const grades = "name,score\nAlice,90\nBob,70\nCara,85"

// stubModel replays scripted replies and records every history it was sent.
// Once the script runs out it repeats the last reply.
type stubModel struct {
	mu      sync.Mutex
	replies []memory.Message
	err     error
	seen    [][]memory.Message
}

func (s *stubModel) Name() string { return "stub/test" }

func (s *stubModel) Invoke(ctx context.Context, history []memory.Message, defs []tools.ToolDefinition) (memory.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, history)
	if s.err != nil {
		return memory.Message{}, s.err
	}
	i := len(s.seen) - 1
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return s.replies[i], nil
}

func (s *stubModel) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func toolCall(id, name string, args map[string]any) memory.Message {
	return memory.ModelMessage("", []memory.ToolCall{{ID: id, Name: name, Arguments: args}})
}

// observe enables JSONL telemetry into a temp artifacts dir.
func observe(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AGT_ARTIFACTS_DIR", dir)
	t.Setenv("AGT_OBSERVE_JSON", "1")
	return dir
}

func readEvents(t *testing.T, dir string) []map[string]any {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("open events: %v", err)
	}
	defer f.Close()

	var out []map[string]any
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		out = append(out, m)
	}
	return out
}
