package api

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentd-io/agentd/config"
	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/engine"
	"github.com/agentd-io/agentd/internal/llm"
	"github.com/agentd-io/agentd/internal/registry"
	"github.com/agentd-io/agentd/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry()

	reg.Register(registry.New("echo_tool", "Echoes its input back.",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{"text": map[string]any{"type": "string"}},
			"required":   []any{"text"},
		},
		func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
			return map[string]any{"echo": args["text"]}, nil
		}))

	reg.Register(registry.New("wipe_disk", "Wipes a disk.",
		map[string]any{"type": "object"}, nil).
		WithApproval(&registry.ApprovalSpec{
			Message: func(args map[string]any, ec *domain.ExecContext) string {
				return "About to wipe a disk."
			},
			ExecuteTool: "execute_wipe_disk",
		}))

	reg.Register(registry.New("execute_wipe_disk", "Wipes a disk after approval.",
		map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
			return "disk wiped", nil
		}).AsHidden())

	return reg
}

func newTestHandler(t *testing.T, client llm.Client) *Handler {
	t.Helper()
	reg := newTestRegistry(t)
	eng, err := engine.New(client, reg)
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	cfg := &config.Config{
		MaxIterations:       5,
		SummaryTargetTokens: 1024,
		LLMTimeout:          time.Second,
	}
	return NewHandler(newTestStore(t), eng, reg, cfg)
}

func seedAgent(t *testing.T, h *Handler, status domain.AgentStatus) *domain.Agent {
	t.Helper()
	agent := &domain.Agent{
		AgentID:   "agent_test1",
		Name:      "Test Agent",
		Status:    status,
		CreatedAt: time.Now(),
		Config: domain.AgentConfig{
			Provider: "openai",
			Model:    "gpt-4o",
			Tools:    []string{"echo_tool", "wipe_disk"},
		},
	}
	if err := h.store.CreateAgent(context.Background(), agent); err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	return agent
}
