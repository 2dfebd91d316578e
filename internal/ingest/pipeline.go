// Package ingest feeds CSV files from an input directory through the agent
// and records each answer in a results file.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/petasbytes/csv-agent/internal/executor"
	"github.com/petasbytes/csv-agent/internal/fsops"
	"github.com/petasbytes/csv-agent/internal/logging"
)

// Pipeline reads inputs through FS, submits them to Exec and appends one
// Record per input to Out.
type Pipeline struct {
	FS     *fsops.FS
	Exec   *executor.Executor
	Out    *ResultWriter
	Logger *slog.Logger
}

func (p *Pipeline) log() *slog.Logger {
	if p.Logger == nil {
		return logging.Nop()
	}
	return p.Logger
}

// Process analyzes one input file and records the outcome.
func (p *Pipeline) Process(ctx context.Context, rel string) Record {
	rec := p.record(rel, p.load(rel), func(text string) (string, error) {
		return p.Exec.Submit(ctx, rel, text)
	})
	p.write(rec)
	return rec
}

// ProcessAll analyzes files concurrently, bounded by the executor, and
// returns their records in input order.
func (p *Pipeline) ProcessAll(ctx context.Context, rels []string) []Record {
	jobs := make([]executor.Job, len(rels))
	for i, rel := range rels {
		jobs[i] = executor.Job{Name: rel, CSV: p.load(rel)}
	}
	results := p.Exec.SubmitAll(ctx, jobs)

	recs := make([]Record, len(results))
	for i, res := range results {
		recs[i] = p.record(res.Name, jobs[i].CSV, func(string) (string, error) { return res.Text, res.Err })
		p.write(recs[i])
	}
	return recs
}

// Run processes existing and newly arriving files from w until ctx ends,
// then waits for in-flight runs.
func (p *Pipeline) Run(ctx context.Context, w *Watcher) error {
	var wg sync.WaitGroup
	err := w.Watch(ctx, func(rel string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Process(ctx, rel)
		}()
	})
	wg.Wait()
	return err
}

func (p *Pipeline) load(rel string) string {
	data, err := p.FS.ReadFile(rel)
	if err != nil {
		p.log().Warn("read input", "file", rel, "err", err)
		return ""
	}
	text := Decode(data)
	if text == "" && len(data) > 0 {
		p.log().Warn("input is not valid UTF-8", "file", rel)
	}
	return text
}

func (p *Pipeline) record(rel, text string, submit func(string) (string, error)) Record {
	rec := Record{File: rel, Time: time.Now()}
	answer, err := submit(text)
	switch {
	case err == nil && answer == "" && isBlank(text):
		rec.Status = StatusSkipped
	case err == nil:
		rec.Status, rec.Response = StatusOK, answer
	case errors.Is(err, executor.ErrRunTimeout):
		rec.Status = StatusTimeout
	default:
		rec.Status, rec.Response = StatusError, err.Error()
	}
	return rec
}

func (p *Pipeline) write(rec Record) {
	if p.Out == nil {
		return
	}
	if err := p.Out.Write(rec); err != nil {
		p.log().Error("write result", "file", rec.File, "err", err)
		return
	}
	p.log().Info("result recorded", "file", rec.File, "status", rec.Status, "response", logging.Truncate(rec.Response, 80))
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
