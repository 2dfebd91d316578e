// Package executor admits analysis runs under a concurrency cap and a
// per-run timeout.
package executor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/petasbytes/csv-agent/internal/logging"
	"github.com/petasbytes/csv-agent/internal/telemetry"
)

const (
	DefaultCapacity = 2
	DefaultTimeout  = 3000 * time.Second
)

// ErrRunTimeout is returned when a run outlives its timeout. It wins over a
// result that arrives at the same moment.
var ErrRunTimeout = errors.New("executor: run timed out")

// RunFunc analyzes one CSV input and returns the text answer.
type RunFunc func(ctx context.Context, csvText string) (string, error)

type Executor struct {
	run     RunFunc
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *slog.Logger
}

// New bounds run to capacity concurrent calls, each cancelled after timeout.
// Non-positive values select the defaults.
func New(run RunFunc, capacity int, timeout time.Duration, logger *slog.Logger) *Executor {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Executor{run: run, sem: semaphore.NewWeighted(int64(capacity)), timeout: timeout, logger: logger}
}

type result struct {
	text string
	err  error
}

// Submit waits for a free slot, then runs csvText under the run timeout.
// Blank input returns "" without running. The slot is held until the run
// itself returns, even when Submit has already reported a timeout.
func (e *Executor) Submit(ctx context.Context, name, csvText string) (string, error) {
	if strings.TrimSpace(csvText) == "" {
		return "", nil
	}
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}

	runID := uuid.NewString()
	runCtx, cancel := context.WithTimeout(telemetry.WithRunID(ctx, runID), e.timeout)
	defer cancel()
	log := e.logger.With("run_id", runID, "file", name)
	log.Info("run admitted")
	start := time.Now()

	done := make(chan result, 1)
	go func() {
		defer e.sem.Release(1)
		text, err := e.run(runCtx, csvText)
		done <- result{text: text, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-runCtx.Done():
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		log.Warn("run timed out", "timeout", e.timeout)
		return "", ErrRunTimeout
	}
	if res.err == nil && runCtx.Err() != nil {
		res.err = runCtx.Err()
	}
	if res.err != nil {
		log.Error("run failed", "err", res.err, "duration", time.Since(start))
		return "", res.err
	}
	log.Info("run finished", "duration", time.Since(start))
	return res.text, nil
}

// Job is one named CSV input.
type Job struct {
	Name string
	CSV  string
}

// Result pairs a Job with its answer or failure.
type Result struct {
	Name string
	Text string
	Err  error
}

// SubmitAll runs every job through Submit and returns results in job order.
// Per-job failures are reported in Result.Err and do not stop the others.
func (e *Executor) SubmitAll(ctx context.Context, jobs []Job) []Result {
	out := make([]Result, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() error {
			text, err := e.Submit(ctx, j.Name, j.CSV)
			out[i] = Result{Name: j.Name, Text: text, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
