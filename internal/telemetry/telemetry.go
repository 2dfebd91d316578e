package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/petasbytes/csv-agent/memory"
)

// ArtifactsDir returns the directory for telemetry artifacts: AGT_ARTIFACTS_DIR
// when set, otherwise ".agent" relative to the working directory.
func ArtifactsDir() string {
	if v := os.Getenv("AGT_ARTIFACTS_DIR"); v != "" {
		return v
	}
	return ".agent"
}

// Emit writes a single JSON line to <artifacts>/events.jsonl when observation is enabled
// (AGT_OBSERVE_JSON=1, or calibration mode with AGT_OBSERVE_JSON unset).
// It augments fields with RFC3339Nano time and the event name.
func Emit(name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}

	// Make a shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal: %v\n", err)
		return
	}

	dir := ArtifactsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}

	path := filepath.Join(dir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
		return
	}
}

// PersistTranscript dumps a finished run's history to
// <artifacts>/transcripts/<runID>.json when payload persistence is enabled.
// The file is a write-only debug artifact.
func PersistTranscript(ctx context.Context, msgs []memory.Message) {
	if !PersistPayloadsEnabled() {
		return
	}
	runID, ok := RunIDFromContext(ctx)
	if !ok {
		runID = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	dir := filepath.Join(ArtifactsDir(), "transcripts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}
	path := filepath.Join(dir, runID+".json")
	if err := memory.SaveTranscript(path, msgs); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: transcript %s: %v\n", path, err)
	}
}
