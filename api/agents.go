package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/agentd-io/agentd/domain"
)

// CreateAgentRequest is the payload for registering an agent.
type CreateAgentRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Config      domain.AgentConfig `json:"config"`
}

// CreateAgent registers a new agent definition. The permitted tool list
// is validated against the registry up front so a misconfigured agent
// fails here, not at run time.
func (h *Handler) CreateAgent(c echo.Context) error {
	var req CreateAgentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	if req.Config.Model == "" {
		return badRequest(c, "config.model is required")
	}
	if _, err := h.registry.DeclarationsFor(req.Config.Tools); err != nil {
		return badRequest(c, err.Error())
	}

	agent := &domain.Agent{
		AgentID:     "agent_" + uuid.New().String()[:8],
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.AgentStatusActive,
		CreatedAt:   time.Now(),
		Config:      req.Config,
	}
	if err := h.store.CreateAgent(c.Request().Context(), agent); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "failed to create agent", "")
	}
	return c.JSON(http.StatusCreated, agent)
}

// ListAgents returns every registered agent.
func (h *Handler) ListAgents(c echo.Context) error {
	agents, err := h.store.ListAgents(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "failed to list agents", "")
	}
	if agents == nil {
		agents = []domain.Agent{}
	}
	return c.JSON(http.StatusOK, map[string]any{"agents": agents})
}

// GetAgent returns one agent by id.
func (h *Handler) GetAgent(c echo.Context) error {
	agent, err := h.store.GetAgent(c.Request().Context(), c.Param("agent_id"))
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "failed to get agent", "")
	}
	if agent == nil {
		return errorJSON(c, http.StatusNotFound, "agent not found", "")
	}
	return c.JSON(http.StatusOK, agent)
}

// DeleteAgent removes one agent by id.
func (h *Handler) DeleteAgent(c echo.Context) error {
	if err := h.store.DeleteAgent(c.Request().Context(), c.Param("agent_id")); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "failed to delete agent", "")
	}
	return c.NoContent(http.StatusNoContent)
}
