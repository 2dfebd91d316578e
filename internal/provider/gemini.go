package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiModel speaks the Gemini generateContent API through a chat session.
// Gemini function calls carry no ids, so one is minted per call.
type GeminiModel struct {
	Client      *genai.Client
	Model       string
	MaxTokens   int32
	Temperature float32
}

// NewGemini reads GOOGLE_API_KEY, falling back to GEMINI_API_KEY.
func NewGemini(ctx context.Context, s Settings, opts ...option.ClientOption) (*GeminiModel, error) {
	if len(opts) == 0 {
		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("gemini: missing GOOGLE_API_KEY or GEMINI_API_KEY")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &GeminiModel{
		Client:      client,
		Model:       modelOr(s.Model, DefaultGeminiModel),
		MaxTokens:   int32(s.MaxTokens),
		Temperature: float32(s.Temperature),
	}, nil
}

func (g *GeminiModel) Name() string { return Gemini + "/" + g.Model }

func (g *GeminiModel) Invoke(ctx context.Context, history []memory.Message, defs []tools.ToolDefinition) (memory.Message, error) {
	contents := geminiContents(history)
	if len(contents) == 0 {
		return memory.Message{}, errors.New("gemini: empty history")
	}

	gm := g.Client.GenerativeModel(g.Model)
	gm.SetTemperature(g.Temperature)
	if g.MaxTokens > 0 {
		gm.SetMaxOutputTokens(g.MaxTokens)
	}
	gm.Tools = geminiTools(defs)

	cs := gm.StartChat()
	cs.History = contents[:len(contents)-1]
	resp, err := cs.SendMessage(ctx, contents[len(contents)-1].Parts...)
	if err != nil {
		return memory.Message{}, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return memory.Message{}, ErrEmptyResponse
	}
	return geminiReply(resp.Candidates[0].Content), nil
}

func geminiReply(c *genai.Content) memory.Message {
	var text strings.Builder
	var calls []memory.ToolCall
	for _, part := range c.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			calls = append(calls, memory.ToolCall{ID: uuid.NewString(), Name: p.Name, Arguments: argumentsOrEmpty(p.Args)})
		}
	}
	return memory.ModelMessage(text.String(), calls)
}

func geminiTools(defs []tools.ToolDefinition) []*genai.Tool {
	if len(defs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, d := range defs {
		schema := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}
		for _, p := range d.Properties() {
			schema.Properties[p.Name] = &genai.Schema{Type: geminiType(p.Type), Description: p.Description}
			if p.Required {
				schema.Required = append(schema.Required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        string(d.Name),
			Description: d.Description,
			Parameters:  schema,
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func geminiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	}
	return genai.TypeUnspecified
}

// geminiContents maps the history onto user/model contents. Consecutive tool
// results become one user content of function responses, in call order.
func geminiContents(history []memory.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	var results []genai.Part
	flush := func() {
		if len(results) > 0 {
			out = append(out, &genai.Content{Role: "user", Parts: results})
			results = nil
		}
	}
	for _, m := range history {
		switch m.Role {
		case memory.RoleTool:
			key := "content"
			if m.IsError {
				key = "error"
			}
			results = append(results, genai.FunctionResponse{Name: m.ToolName, Response: map[string]any{key: m.Text}})
		case memory.RoleModel:
			flush()
			var parts []genai.Part
			if m.Text != "" || len(m.ToolCalls) == 0 {
				parts = append(parts, genai.Text(m.Text))
			}
			for _, c := range m.ToolCalls {
				parts = append(parts, genai.FunctionCall{Name: c.Name, Args: argumentsOrEmpty(c.Arguments)})
			}
			out = append(out, &genai.Content{Role: "model", Parts: parts})
		default:
			flush()
			out = append(out, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Text)}})
		}
	}
	flush()
	return out
}
