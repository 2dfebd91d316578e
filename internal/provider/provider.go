// Package provider adapts LLM backends to the agent's message model.
//
// Every adapter converts the full history to its backend's wire format,
// declares the tools, and returns the next model message with any structured
// tool calls. Adapters never retry and never execute tools.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

// Model produces the next model message for a history.
type Model interface {
	Invoke(ctx context.Context, history []memory.Message, defs []tools.ToolDefinition) (memory.Message, error)
	// Name identifies the backend and model for logs and telemetry.
	Name() string
}

// Backend names accepted by New.
const (
	Anthropic = "anthropic"
	Gemini    = "gemini"
	OpenAI    = "openai"
	Ollama    = "ollama"
)

// Settings selects and tunes a backend.
type Settings struct {
	Provider    string
	Model       string // empty selects the backend default
	MaxTokens   int
	Temperature float64
	OllamaHost  string
}

// New constructs the Model for s.Provider. Credentials come from the
// backend's usual environment variables.
func New(ctx context.Context, s Settings) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case Anthropic, "":
		return NewAnthropic(NewAnthropicClient(), s), nil
	case Gemini:
		m, err := NewGemini(ctx, s)
		if err != nil {
			return nil, err
		}
		return m, nil
	case OpenAI:
		return NewOpenAI(NewOpenAIClient(), s), nil
	case Ollama:
		m, err := NewOllama(s)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("provider: unknown backend %q (want %s, %s, %s or %s)", s.Provider, Anthropic, Gemini, OpenAI, Ollama)
	}
}

func modelOr(name, def string) string {
	if strings.TrimSpace(name) == "" {
		return def
	}
	return name
}

// parametersOf renders a tool's input schema as a plain JSON-schema object
// (type, properties, required) without the $schema header.
func parametersOf(d tools.ToolDefinition) map[string]any {
	props := map[string]any{}
	var required []string
	for _, p := range d.Properties() {
		props[p.Name] = map[string]any{"type": p.Type, "description": p.Description}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	out := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

// ErrEmptyResponse is returned when a backend answers without any candidate
// or choice to read.
var ErrEmptyResponse = errors.New("provider: empty response")
