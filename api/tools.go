package api

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// ToolInfo is the user-facing description of one registered tool.
type ToolInfo struct {
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Parameters       map[string]any `json:"parameters,omitempty"`
	RequiresApproval bool           `json:"requires_approval"`
}

// ListTools returns every visible tool. Hidden execute counterparts are
// deliberately absent; they are reachable only through the approval flow.
func (h *Handler) ListTools(c echo.Context) error {
	names := h.registry.List()
	sort.Strings(names)

	infos := make([]ToolInfo, 0, len(names))
	for _, name := range names {
		tool, err := h.registry.Resolve(name)
		if err != nil {
			continue
		}
		infos = append(infos, ToolInfo{
			Name:             tool.Name,
			Description:      tool.Description,
			Parameters:       tool.Parameters,
			RequiresApproval: tool.Approval != nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"tools": infos})
}
