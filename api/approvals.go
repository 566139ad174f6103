package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/registry"
)

// ExecuteApprovedRequest re-invokes the hidden follow-up tool named in
// an approval payload. This endpoint is the explicit human confirmation
// step; it is never called by the model.
type ExecuteApprovedRequest struct {
	AgentID        string         `json:"agent_id"`
	ConversationID string         `json:"conversation_id,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
	Tool           string         `json:"tool"`
	Args           map[string]any `json:"args,omitempty"`
}

// ExecuteApproved dispatches the named follow-up tool with the
// arguments carried over from the approval payload.
func (h *Handler) ExecuteApproved(c echo.Context) error {
	var req ExecuteApprovedRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Tool == "" {
		return badRequest(c, "tool is required")
	}

	tool, err := h.registry.Resolve(req.Tool)
	if err != nil {
		if errors.Is(err, registry.ErrToolNotFound) {
			return errorJSON(c, http.StatusNotFound, err.Error(), "")
		}
		return errorJSON(c, http.StatusInternalServerError, err.Error(), "")
	}
	// Approval-gated proposers would just re-emit the approval payload;
	// this endpoint exists for their execute counterparts.
	if tool.Approval != nil {
		return badRequest(c, "tool "+req.Tool+" requires approval; invoke its execute counterpart instead")
	}

	execCtx := &domain.ExecContext{
		AgentID:        req.AgentID,
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
	}
	result, err := h.registry.Dispatch(c.Request().Context(), req.Tool, req.Args, execCtx)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error(), "")
	}
	return c.JSON(http.StatusOK, result)
}
