package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// NewOpenAIClient reads OPENAI_API_KEY, falling back to OPENAI_KEY.
func NewOpenAIClient() *openai.Client {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_KEY") // fallback
	}
	return openai.NewClient(apiKey)
}

// OpenAIModel speaks the Chat Completions API with function tools.
type OpenAIModel struct {
	Client      *openai.Client
	Model       string
	MaxTokens   int
	Temperature float32
}

func NewOpenAI(client *openai.Client, s Settings) *OpenAIModel {
	return &OpenAIModel{
		Client:      client,
		Model:       modelOr(s.Model, DefaultOpenAIModel),
		MaxTokens:   s.MaxTokens,
		Temperature: float32(s.Temperature),
	}
}

func (o *OpenAIModel) Name() string { return OpenAI + "/" + o.Model }

func (o *OpenAIModel) Invoke(ctx context.Context, history []memory.Message, defs []tools.ToolDefinition) (memory.Message, error) {
	msgs, err := openaiMessages(history)
	if err != nil {
		return memory.Message{}, err
	}
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.Model,
		Messages:    msgs,
		Tools:       openaiTools(defs),
		MaxTokens:   o.MaxTokens,
		Temperature: o.Temperature,
	})
	if err != nil {
		return memory.Message{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return memory.Message{}, ErrEmptyResponse
	}

	reply := resp.Choices[0].Message
	calls := make([]memory.ToolCall, 0, len(reply.ToolCalls))
	for _, tc := range reply.ToolCalls {
		args, err := decodeArguments(json.RawMessage(tc.Function.Arguments))
		if err != nil {
			return memory.Message{}, fmt.Errorf("openai: tool call %s: %w", tc.ID, err)
		}
		calls = append(calls, memory.ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: args})
	}
	if len(calls) == 0 {
		calls = nil
	}
	return memory.ModelMessage(reply.Content, calls), nil
}

func openaiTools(defs []tools.ToolDefinition) []openai.Tool {
	out := make([]openai.Tool, 0, len(defs))
	for _, d := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        string(d.Name),
				Description: d.Description,
				Parameters:  parametersOf(d),
			},
		})
	}
	return out
}

func openaiMessages(history []memory.Message) ([]openai.ChatCompletionMessage, error) {
	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case memory.RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Text,
				ToolCallID: m.ToolCallID,
			})
		case memory.RoleModel:
			msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Text}
			for _, c := range m.ToolCalls {
				b, err := json.Marshal(argumentsOrEmpty(c.Arguments))
				if err != nil {
					return nil, fmt.Errorf("openai: encode arguments for %s: %w", c.ID, err)
				}
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:       c.ID,
					Type:     openai.ToolTypeFunction,
					Function: openai.FunctionCall{Name: c.Name, Arguments: string(b)},
				})
			}
			out = append(out, msg)
		default:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Text})
		}
	}
	return out, nil
}
