package domain

// Message is a single entry in a conversation transcript.
//
// Assistant messages may carry tool calls. Tool messages always reference
// the tool call of the immediately preceding assistant message through
// ToolCallID. Within one run the transcript is append-only.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a structured tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the target tool and carries its serialized arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// FilterRole returns a copy of messages with every message of the given
// role removed. Used to strip stale system prompts out of prior history.
func FilterRole(messages []Message, role Role) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == role {
			continue
		}
		out = append(out, m)
	}
	return out
}
