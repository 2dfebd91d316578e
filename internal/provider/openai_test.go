package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/petasbytes/csv-agent/internal/provider"
	"github.com/petasbytes/csv-agent/tools"
)

func newOpenAI(rt http.RoundTripper) *provider.OpenAIModel {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = "http://openai.test/v1"
	cfg.HTTPClient = &http.Client{Transport: rt}
	return provider.NewOpenAI(openai.NewClientWithConfig(cfg), provider.Settings{MaxTokens: 512, Temperature: 0.7})
}

func TestOpenAI_ParsesToolCalls(t *testing.T) {
	resp := `{
		"id": "c1", "object": "chat.completion", "created": 1, "model": "m",
		"choices": [{
			"index": 0,
			"finish_reason": "tool_calls",
			"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{
					"id": "call_1", "type": "function",
					"function": {"name": "filter_data", "arguments": "{\"column_name\":\"score\",\"operator\":\">\",\"value\":\"80\"}"}
				}]
			}
		}]
	}`
	capReq := &capture{}
	m := newOpenAI(&fakeTransport{respStatus: 200, respBody: []byte(resp), captured: capReq})

	got, err := m.Invoke(context.Background(), pairedHistory(), tools.Registry())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.ToolCalls) != 1 {
		t.Fatalf("want 1 tool call, got %+v", got.ToolCalls)
	}
	c := got.ToolCalls[0]
	if c.ID != "call_1" || c.Name != "filter_data" || c.Arguments["operator"] != ">" {
		t.Fatalf("unexpected call: %+v", c)
	}

	var body struct {
		Messages []struct {
			Role       string `json:"role"`
			Content    string `json:"content"`
			ToolCallID string `json:"tool_call_id"`
			ToolCalls  []struct {
				ID string `json:"id"`
			} `json:"tool_calls"`
		} `json:"messages"`
		Tools []struct {
			Type     string `json:"type"`
			Function struct {
				Name       string         `json:"name"`
				Parameters map[string]any `json:"parameters"`
			} `json:"function"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(capReq.body, &body); err != nil {
		t.Fatalf("unmarshal body: %v\nbody=%s", err, capReq.body)
	}
	if len(body.Messages) != 4 {
		t.Fatalf("want 4 messages, got %d", len(body.Messages))
	}
	if body.Messages[1].Role != "assistant" || len(body.Messages[1].ToolCalls) != 2 {
		t.Fatalf("unexpected assistant message: %+v", body.Messages[1])
	}
	if body.Messages[2].Role != "tool" || body.Messages[2].ToolCallID != "t1" || body.Messages[3].ToolCallID != "t2" {
		t.Fatalf("tool messages out of order: %+v", body.Messages[2:])
	}
	if len(body.Tools) != 2 || body.Tools[0].Type != "function" || body.Tools[0].Function.Parameters["type"] != "object" {
		t.Fatalf("unexpected tools: %+v", body.Tools)
	}
	if _, ok := body.Tools[0].Function.Parameters["$schema"]; ok {
		t.Fatal("parameters must not carry $schema")
	}
}

func TestOpenAI_NoChoices(t *testing.T) {
	resp := `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`
	m := newOpenAI(&fakeTransport{respStatus: 200, respBody: []byte(resp)})

	if _, err := m.Invoke(context.Background(), pairedHistory(), tools.Registry()); err != provider.ErrEmptyResponse {
		t.Fatalf("want ErrEmptyResponse, got %v", err)
	}
}
