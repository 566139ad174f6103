package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentd-io/agentd/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAgentRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	agent := &domain.Agent{
		AgentID:     "agent_1",
		Name:        "Helper",
		Description: "does things",
		Status:      domain.AgentStatusActive,
		CreatedAt:   time.Now(),
		Config: domain.AgentConfig{
			Provider: "openai",
			Model:    "gpt-4o",
			Tools:    []string{"read_file", "web_search"},
			Env:      map[string]string{"REGION": "eu"},
		},
	}
	require.NoError(t, s.CreateAgent(ctx, agent))

	got, err := s.GetAgent(ctx, "agent_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Helper", got.Name)
	assert.Equal(t, []string{"read_file", "web_search"}, got.Config.Tools)
	assert.Equal(t, "eu", got.Config.Env["REGION"])

	missing, err := s.GetAgent(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	agents, err := s.ListAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 1)

	require.NoError(t, s.DeleteAgent(ctx, "agent_1"))
	agents, err = s.ListAgents(ctx)
	require.NoError(t, err)
	assert.Empty(t, agents)
}

func TestConversationTranscriptRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.CreateAgent(ctx, &domain.Agent{
		AgentID: "agent_1", Name: "Helper", Status: domain.AgentStatusActive,
		CreatedAt: time.Now(), Config: domain.AgentConfig{Model: "gpt-4o"},
	}))

	conv, err := s.GetOrCreateConversation(ctx, "conv_1", "agent_1", "user_1")
	require.NoError(t, err)
	assert.Equal(t, "conv_1", conv.ConversationID)

	// Second call returns the existing row.
	again, err := s.GetOrCreateConversation(ctx, "conv_1", "agent_1", "user_1")
	require.NoError(t, err)
	assert.Equal(t, conv.CreatedAt.Unix(), again.CreatedAt.Unix())

	transcript := []domain.Message{
		{Role: domain.RoleSystem, Content: "sys"},
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "", ToolCalls: []domain.ToolCall{{
			ID: "call_1", Type: "function",
			Function: domain.FunctionCall{Name: "echo", Arguments: `{"msg":"hi"}`},
		}}},
		{Role: domain.RoleTool, Content: `{"echo":"hi"}`, ToolCallID: "call_1"},
		{Role: domain.RoleAssistant, Content: "done"},
	}
	require.NoError(t, s.ReplaceTranscript(ctx, "conv_1", transcript))

	got, err := s.GetTranscript(ctx, "conv_1")
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, transcript[2].ToolCalls, got[2].ToolCalls)
	assert.Equal(t, "call_1", got[3].ToolCallID)

	// Replacing with an extended transcript keeps it consistent.
	extended := append(got, domain.Message{Role: domain.RoleUser, Content: "more"})
	require.NoError(t, s.ReplaceTranscript(ctx, "conv_1", extended))
	got, err = s.GetTranscript(ctx, "conv_1")
	require.NoError(t, err)
	assert.Len(t, got, 6)
}
