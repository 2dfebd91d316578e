package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	ollama "github.com/ollama/ollama/api"

	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

const DefaultOllamaModel = "llama3.1"

// OllamaModel speaks the Ollama /api/chat endpoint without streaming.
// Ollama tool calls carry no ids, so one is minted per call.
type OllamaModel struct {
	Client      *ollama.Client
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewOllama uses s.OllamaHost, then OLLAMA_HOST, then http://localhost:11434.
func NewOllama(s Settings) (*OllamaModel, error) {
	host := s.OllamaHost
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		host = "http://localhost:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	httpClient := &http.Client{
		Timeout: 5 * time.Minute,
	}
	return &OllamaModel{
		Client:      ollama.NewClient(u, httpClient),
		Model:       modelOr(s.Model, DefaultOllamaModel),
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
	}, nil
}

func (o *OllamaModel) Name() string { return Ollama + "/" + o.Model }

func (o *OllamaModel) Invoke(ctx context.Context, history []memory.Message, defs []tools.ToolDefinition) (memory.Message, error) {
	msgs, err := ollamaMessages(history)
	if err != nil {
		return memory.Message{}, err
	}
	toolList, err := ollamaTools(defs)
	if err != nil {
		return memory.Message{}, err
	}

	stream := false
	req := &ollama.ChatRequest{
		Model:    o.Model,
		Messages: msgs,
		Tools:    toolList,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": o.Temperature,
		},
	}
	if o.MaxTokens > 0 {
		req.Options["num_predict"] = o.MaxTokens
	}

	var (
		text  strings.Builder
		calls []memory.ToolCall
	)
	err = o.Client.Chat(ctx, req, func(cr ollama.ChatResponse) error {
		text.WriteString(cr.Message.Content)
		for _, tc := range cr.Message.ToolCalls {
			raw, err := json.Marshal(tc.Function.Arguments)
			if err != nil {
				return fmt.Errorf("encode arguments: %w", err)
			}
			args, err := decodeArguments(raw)
			if err != nil {
				return err
			}
			calls = append(calls, memory.ToolCall{ID: uuid.NewString(), Name: tc.Function.Name, Arguments: args})
		}
		return nil
	})
	if err != nil {
		return memory.Message{}, fmt.Errorf("ollama: %w", err)
	}
	return memory.ModelMessage(text.String(), calls), nil
}

// The ollama api types are assembled from their JSON form so that only the
// documented wire fields are relied on.

type ollamaWireCall struct {
	Function struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"function"`
}

type ollamaWireMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaWireCall `json:"tool_calls,omitempty"`
	ToolName  string           `json:"tool_name,omitempty"`
}

func ollamaMessages(history []memory.Message) ([]ollama.Message, error) {
	wire := make([]ollamaWireMessage, 0, len(history))
	for _, m := range history {
		w := ollamaWireMessage{Content: m.Text}
		switch m.Role {
		case memory.RoleTool:
			w.Role = "tool"
			w.ToolName = m.ToolName
		case memory.RoleModel:
			w.Role = "assistant"
			for _, c := range m.ToolCalls {
				var wc ollamaWireCall
				wc.Function.Name = c.Name
				wc.Function.Arguments = argumentsOrEmpty(c.Arguments)
				w.ToolCalls = append(w.ToolCalls, wc)
			}
		default:
			w.Role = "user"
		}
		wire = append(wire, w)
	}

	var out []ollama.Message
	if err := remarshal(wire, &out); err != nil {
		return nil, fmt.Errorf("ollama: messages: %w", err)
	}
	return out, nil
}

func ollamaTools(defs []tools.ToolDefinition) (ollama.Tools, error) {
	wire := make([]map[string]any, 0, len(defs))
	for _, d := range defs {
		wire = append(wire, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        string(d.Name),
				"description": d.Description,
				"parameters":  parametersOf(d),
			},
		})
	}
	var out ollama.Tools
	if err := remarshal(wire, &out); err != nil {
		return nil, fmt.Errorf("ollama: tools: %w", err)
	}
	return out, nil
}

func remarshal(in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
