package agent

// Message represents a single entry in the conversation. Messages are
// immutable once appended; the conversation is grown copy-on-append.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is a tool invocation requested by the provider inside an
// assistant message.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolResult is the outcome of one tool call, appended to the conversation
// as a tool-role message keyed by the call's id.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error"`
}

// AppendMessage returns a new conversation with the message added. The
// input slice is never mutated.
func AppendMessage(conversation []Message, msg Message) []Message {
	updated := make([]Message, len(conversation), len(conversation)+1)
	copy(updated, conversation)
	return append(updated, msg)
}
