package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest
const APIVersion = "2023-06-01"

// NewAnthropicClient returns a client using API key from the env.
func NewAnthropicClient(opts ...option.RequestOption) *anthropic.Client {
	c := anthropic.NewClient(opts...)
	return &c
}

// AnthropicModel speaks the Anthropic Messages API.
type AnthropicModel struct {
	Client      *anthropic.Client
	Model       anthropic.Model
	MaxTokens   int64
	Temperature float64
}

func NewAnthropic(client *anthropic.Client, s Settings) *AnthropicModel {
	return &AnthropicModel{
		Client:      client,
		Model:       anthropic.Model(modelOr(s.Model, string(DefaultAnthropicModel))),
		MaxTokens:   int64(s.MaxTokens),
		Temperature: s.Temperature,
	}
}

func (a *AnthropicModel) Name() string { return Anthropic + "/" + string(a.Model) }

func (a *AnthropicModel) Invoke(ctx context.Context, history []memory.Message, defs []tools.ToolDefinition) (memory.Message, error) {
	params := anthropic.MessageNewParams{
		Model:       a.Model,
		MaxTokens:   a.MaxTokens,
		Messages:    anthropicMessages(history),
		Tools:       anthropicTools(defs),
		Temperature: anthropic.Float(a.Temperature),
	}
	msg, err := a.Client.Messages.New(ctx, params)
	if err != nil {
		return memory.Message{}, fmt.Errorf("anthropic: %w", err)
	}

	var text strings.Builder
	var calls []memory.ToolCall
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(v.Text)
		case anthropic.ToolUseBlock:
			args, err := decodeArguments(json.RawMessage(v.JSON.Input.Raw()))
			if err != nil {
				return memory.Message{}, fmt.Errorf("anthropic: tool_use %s: %w", v.ID, err)
			}
			calls = append(calls, memory.ToolCall{ID: v.ID, Name: v.Name, Arguments: args})
		}
	}
	return memory.ModelMessage(text.String(), calls), nil
}

func anthropicTools(defs []tools.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		schema := anthropic.ToolInputSchemaParam{}
		if d.InputSchema != nil {
			schema.Properties = d.InputSchema.Properties
			schema.Required = d.InputSchema.Required
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        string(d.Name),
			Description: anthropic.String(d.Description),
			InputSchema: schema,
		}})
	}
	return out
}

// anthropicMessages maps the history onto user/assistant turns. Consecutive
// tool results travel together in one user message, in call order.
func anthropicMessages(history []memory.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(history))
	var results []anthropic.ContentBlockParamUnion
	flush := func() {
		if len(results) > 0 {
			out = append(out, anthropic.NewUserMessage(results...))
			results = nil
		}
	}
	for _, m := range history {
		switch m.Role {
		case memory.RoleTool:
			results = append(results, anthropic.NewToolResultBlock(m.ToolCallID, m.Text, m.IsError))
		case memory.RoleModel:
			flush()
			var blocks []anthropic.ContentBlockParamUnion
			if m.Text != "" || len(m.ToolCalls) == 0 {
				blocks = append(blocks, anthropic.NewTextBlock(m.Text))
			}
			for _, c := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(c.ID, argumentsOrEmpty(c.Arguments), c.Name))
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		default:
			flush()
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		}
	}
	flush()
	return out
}

func argumentsOrEmpty(args map[string]any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	return args
}

// decodeArguments parses a tool call's JSON arguments. Empty input yields an
// empty map.
func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return args, nil
}
