package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/agentd-io/agentd/internal/llm"
)

func TestListTools(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, llm.NewScriptedClient())

	req := httptest.NewRequest(http.MethodGet, "/v1/tools", nil)
	rec := httptest.NewRecorder()
	if err := h.ListTools(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Tools []ToolInfo `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	byName := map[string]ToolInfo{}
	for _, info := range resp.Tools {
		byName[info.Name] = info
	}
	if _, ok := byName["execute_wipe_disk"]; ok {
		t.Fatalf("hidden tool leaked into listing: %+v", resp.Tools)
	}
	if info, ok := byName["echo_tool"]; !ok || info.RequiresApproval {
		t.Fatalf("unexpected echo_tool info: %+v", info)
	}
	if info, ok := byName["wipe_disk"]; !ok || !info.RequiresApproval {
		t.Fatalf("expected wipe_disk to require approval: %+v", info)
	}
}
