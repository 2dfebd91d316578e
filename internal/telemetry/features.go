package telemetry

import (
	"context"

	"github.com/petasbytes/csv-agent/internal/metrics"
)

// EmitInputFeatures records the shape of a run's CSV input. Cell values never
// leave this function.
func EmitInputFeatures(ctx context.Context, csvText string) {
	if !ObserveEnabled() {
		return
	}
	runID, _ := RunIDFromContext(ctx)
	f := metrics.CountFeatures(csvText)
	Emit("input_features", map[string]any{
		"run_id":           runID,
		"features_version": "2",
		"csv": map[string]any{
			"bytes":       f.Bytes,
			"lines":       f.Lines,
			"rows":        f.Rows,
			"columns":     f.Columns,
			"empty_cells": f.EmptyCells,
		},
	})
}
