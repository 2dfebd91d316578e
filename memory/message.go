package memory

import (
	"encoding/json"
	"os"
	"slices"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// ToolCall is one structured tool request emitted by the model.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Message is a user, model, or tool-result turn. Model messages may carry
// ToolCalls; tool-result messages carry the ToolCallID they answer.
type Message struct {
	Role       Role       `json:"role"`
	Text       string     `json:"text,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
	IsError    bool       `json:"is_error,omitempty"`
}

func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

func ModelMessage(text string, calls []ToolCall) Message {
	return Message{Role: RoleModel, Text: text, ToolCalls: calls}
}

func ToolResultMessage(callID, toolName, content string, isError bool) Message {
	return Message{Role: RoleTool, ToolCallID: callID, ToolName: toolName, Text: content, IsError: isError}
}

// History is the append-only message log of one run. It is not safe for
// concurrent use; each run owns its own History.
type History struct {
	msgs []Message
}

// NewHistory starts a history seeded with the given messages.
func NewHistory(seed ...Message) *History {
	return &History{msgs: slices.Clone(seed)}
}

func (h *History) Append(m ...Message) {
	h.msgs = append(h.msgs, m...)
}

// Messages returns a copy of the log, oldest first.
func (h *History) Messages() []Message {
	return slices.Clone(h.msgs)
}

func (h *History) Len() int { return len(h.msgs) }

// Last returns the newest message, if any.
func (h *History) Last() (Message, bool) {
	if len(h.msgs) == 0 {
		return Message{}, false
	}
	return h.msgs[len(h.msgs)-1], true
}

// SaveTranscript writes msgs as indented JSON for offline inspection.
func SaveTranscript(path string, msgs []Message) error {
	b, err := json.MarshalIndent(msgs, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
