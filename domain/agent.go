package domain

import "time"

// Agent represents a registered agent definition.
type Agent struct {
	AgentID     string      `json:"agent_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      AgentStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	Config      AgentConfig `json:"config"`
}

// AgentConfig binds an agent to a model and a permitted tool subset.
// Tools is ordered and must not contain duplicates; every name must
// resolve in the tool registry before a run starts.
type AgentConfig struct {
	Provider string            `json:"provider"`
	Model    string            `json:"model"`
	Tools    []string          `json:"tools"`
	Env      map[string]string `json:"env,omitempty"`
}

// FullModel returns the provider-qualified model name used by the
// LLM gateway, e.g. "openai/gpt-4o".
func (c AgentConfig) FullModel() string {
	if c.Provider == "" {
		return c.Model
	}
	return c.Provider + "/" + c.Model
}
