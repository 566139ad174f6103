// Package api exposes the HTTP surface: agent management, chat runs,
// tool listing and explicit approval execution.
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/agentd-io/agentd/config"
	"github.com/agentd-io/agentd/internal/engine"
	"github.com/agentd-io/agentd/internal/registry"
	"github.com/agentd-io/agentd/store"
)

// Handler bundles the collaborators behind the HTTP endpoints.
type Handler struct {
	store    store.Store
	engine   *engine.Engine
	registry *registry.Registry
	config   *config.Config
}

// NewHandler creates the API handler.
func NewHandler(st store.Store, eng *engine.Engine, reg *registry.Registry, cfg *config.Config) *Handler {
	return &Handler{store: st, engine: eng, registry: reg, config: cfg}
}

// RegisterRoutes attaches all routes to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/v1")

	v1.POST("/agents", h.CreateAgent)
	v1.GET("/agents", h.ListAgents)
	v1.GET("/agents/:agent_id", h.GetAgent)
	v1.DELETE("/agents/:agent_id", h.DeleteAgent)

	v1.POST("/agents/:agent_id/chat", h.Chat)

	v1.GET("/tools", h.ListTools)
	v1.POST("/approvals/execute", h.ExecuteApproved)
}
