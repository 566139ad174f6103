package engine

import (
	"fmt"
	"strings"

	"github.com/agentd-io/agentd/domain"
)

const systemPromptTemplate = `You are %s, an AI agent.

%s

You have access to the following tools: %s.
Call a tool whenever it helps you complete the user's request. When an
action requires approval you will receive an approval instruction instead
of a result; relay it to the user and stop. Answer in plain text when no
further tool calls are needed.`

// buildMessages assembles the initial transcript for a run: a freshly
// generated system message, the prior history with any stale system
// messages stripped, and the current user input (unless it is already
// the tail of history).
func buildMessages(agent *domain.Agent, input string, history []domain.Message) []domain.Message {
	description := strings.TrimSpace(agent.Description)
	if description == "" {
		description = "You help the user accomplish their tasks."
	}
	toolList := "none"
	if len(agent.Config.Tools) > 0 {
		toolList = strings.Join(agent.Config.Tools, ", ")
	}

	messages := []domain.Message{{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf(systemPromptTemplate, agent.Name, description, toolList),
	}}
	messages = append(messages, domain.FilterRole(history, domain.RoleSystem)...)

	if n := len(messages); n == 0 || messages[n-1].Role != domain.RoleUser || messages[n-1].Content != input {
		messages = append(messages, domain.Message{Role: domain.RoleUser, Content: input})
	}
	return messages
}
