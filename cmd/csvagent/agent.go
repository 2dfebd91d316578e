package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/petasbytes/csv-agent/internal/executor"
	"github.com/petasbytes/csv-agent/internal/fsops"
	"github.com/petasbytes/csv-agent/internal/ingest"
	"github.com/petasbytes/csv-agent/internal/prompt"
	"github.com/petasbytes/csv-agent/internal/provider"
	"github.com/petasbytes/csv-agent/internal/runner"
	"github.com/petasbytes/csv-agent/tools"
)

// apiKeyEnv lists the variable each hosted backend reads its key from.
var apiKeyEnv = map[string][]string{
	provider.Anthropic: {"ANTHROPIC_API_KEY"},
	provider.Gemini:    {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	provider.OpenAI:    {"OPENAI_API_KEY"},
}

func checkCredentials(backend string) error {
	vars, ok := apiKeyEnv[strings.ToLower(backend)]
	if !ok {
		return nil
	}
	for _, v := range vars {
		if os.Getenv(v) != "" {
			return nil
		}
	}
	return fmt.Errorf("missing %s; export it before running", strings.Join(vars, " or "))
}

// newExecutor wires config -> model -> runner -> executor.
func newExecutor(ctx context.Context) (*executor.Executor, error) {
	if err := checkCredentials(cfg.Provider); err != nil {
		return nil, err
	}
	tmpl, err := prompt.Load(cfg.TaskTemplate)
	if err != nil {
		return nil, err
	}
	model, err := provider.New(ctx, provider.Settings{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		OllamaHost:  cfg.OllamaHost,
	})
	if err != nil {
		return nil, err
	}

	r := runner.New(model, tools.Registry())
	r.MaxIterations = cfg.MaxIterations
	r.TokenBudget = cfg.TokenBudget
	r.Logger = logger
	logger.Info("agent ready", "model", model.Name(), "max_iterations", r.MaxIterations)

	run := func(ctx context.Context, csvText string) (string, error) {
		task, err := tmpl.Render(csvText)
		if err != nil {
			return "", err
		}
		res, err := r.Run(ctx, task, csvText)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	}
	return executor.New(run, cfg.MaxConcurrentRuns, cfg.RunTimeout(), logger), nil
}

// newPipeline reads from the input dir and writes results relative to the
// working directory.
func newPipeline(ctx context.Context) (*ingest.Pipeline, *ingest.Watcher, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	fs, err := fsops.New(cfg.InputDir, cwd)
	if err != nil {
		return nil, nil, err
	}
	exec, err := newExecutor(ctx)
	if err != nil {
		return nil, nil, err
	}

	ignore := map[string]bool{}
	if rel, ok := fs.Rel(filepath.Join(fs.WriteRoot, cfg.OutputFile)); ok {
		ignore[rel] = true
	}
	p := &ingest.Pipeline{
		FS:     fs,
		Exec:   exec,
		Out:    ingest.NewResultWriter(fs, cfg.OutputFile),
		Logger: logger,
	}
	w := &ingest.Watcher{FS: fs, Settle: cfg.Settle(), Ignore: ignore, Logger: logger}
	return p, w, nil
}
