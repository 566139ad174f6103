package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/llm"
)

func TestCreateAgentValidation(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, llm.NewScriptedClient())

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"config":{"model":"gpt-4o"}}`},
		{"missing model", `{"name":"demo"}`},
		{"unknown tool", `{"name":"demo","config":{"model":"gpt-4o","tools":["no_such_tool"]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/agents", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := h.CreateAgent(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateAgentSuccess(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, llm.NewScriptedClient())

	body := `{"name":"Demo","description":"demo agent","config":{"provider":"openai","model":"gpt-4o","tools":["echo_tool"]}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/agents", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateAgent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Agent
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if created.AgentID == "" || created.Status != domain.AgentStatusActive {
		t.Fatalf("unexpected agent: %+v", created)
	}

	got, err := h.store.GetAgent(context.Background(), created.AgentID)
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got == nil || got.Config.Model != "gpt-4o" {
		t.Fatalf("unexpected stored agent: %+v", got)
	}
}

func TestGetAgentNotFound(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, llm.NewScriptedClient())

	req := httptest.NewRequest(http.MethodGet, "/v1/agents/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("agent_id")
	c.SetParamValues("nope")

	if err := h.GetAgent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListAndDeleteAgents(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, llm.NewScriptedClient())
	agent := seedAgent(t, h, domain.AgentStatusActive)

	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	rec := httptest.NewRecorder()
	if err := h.ListAgents(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var listed struct {
		Agents []domain.Agent `json:"agents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(listed.Agents) != 1 || listed.Agents[0].AgentID != agent.AgentID {
		t.Fatalf("unexpected agents: %+v", listed.Agents)
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/agents/"+agent.AgentID, nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("agent_id")
	c.SetParamValues(agent.AgentID)
	if err := h.DeleteAgent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	got, err := h.store.GetAgent(context.Background(), agent.AgentID)
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected agent gone, got %+v", got)
	}
}
