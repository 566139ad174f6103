package domain

// ExecResult is the outcome of one tool invocation. It is produced once
// and never mutated; the engine serializes it straight into a tool message.
type ExecResult struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ExecContext carries per-run metadata into every tool handler invoked
// during that run. Handlers must treat it as read-only.
type ExecContext struct {
	AgentID        string         `json:"agent_id"`
	ConversationID string         `json:"conversation_id,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}
