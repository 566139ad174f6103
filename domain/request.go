package domain

// RunRequest is the input to one bounded execution of the agent loop.
type RunRequest struct {
	Agent          *Agent    `json:"agent"`
	Input          string    `json:"input"`
	ConversationID string    `json:"conversation_id,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	MaxIterations  int       `json:"max_iterations,omitempty"`
	History        []Message `json:"history,omitempty"`
}

// RunResult is the outcome of a run: the final answer plus the complete
// transcript accumulated during the run, for the caller to persist and
// pass back as History on the next turn.
type RunResult struct {
	Content        string         `json:"content"`
	ConversationID string         `json:"conversation_id"`
	ToolCalls      []ToolCall     `json:"tool_calls,omitempty"`
	ToolResults    map[string]any `json:"tool_results,omitempty"`
	Messages       []Message      `json:"messages"`
}
