package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/llm"
	"github.com/agentd-io/agentd/internal/registry"
	"github.com/agentd-io/agentd/internal/tokens"
)

// ChatRequest is one user turn against an agent.
type ChatRequest struct {
	Input          string `json:"input"`
	ConversationID string `json:"conversation_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	MaxIterations  int    `json:"max_iterations,omitempty"`
}

// ChatResponse carries the final answer for one run.
type ChatResponse struct {
	Content        string            `json:"content"`
	ConversationID string            `json:"conversation_id"`
	ToolCalls      []domain.ToolCall `json:"tool_calls,omitempty"`
	ToolResults    map[string]any    `json:"tool_results,omitempty"`
}

// Chat executes one run: load the stored transcript, keep it inside the
// model's context window, run the engine, persist the extended
// transcript.
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Input == "" {
		return badRequest(c, "input is required")
	}

	agent, err := h.store.GetAgent(ctx, c.Param("agent_id"))
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "failed to get agent", "")
	}
	if agent == nil {
		return errorJSON(c, http.StatusNotFound, "agent not found", "")
	}
	if agent.Status != domain.AgentStatusActive {
		return errorJSON(c, http.StatusConflict, "agent is disabled", "")
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = "conv_" + uuid.New().String()[:8]
	}
	if _, err := h.store.GetOrCreateConversation(ctx, conversationID, agent.AgentID, req.UserID); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "failed to open conversation", "")
	}

	history, err := h.store.GetTranscript(ctx, conversationID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "failed to load transcript", "")
	}

	model := agent.Config.FullModel()
	if len(history) > 0 && tokens.ShouldSummarize(history, model, tokens.DefaultSafetyMargin) {
		history = tokens.Summarize(history, model, h.config.SummaryTargetTokens)
	}

	maxIterations := req.MaxIterations
	if maxIterations <= 0 {
		maxIterations = h.config.MaxIterations
	}

	result, err := h.engine.Run(ctx, domain.RunRequest{
		Agent:          agent,
		Input:          req.Input,
		ConversationID: conversationID,
		UserID:         req.UserID,
		MaxIterations:  maxIterations,
		History:        history,
	})
	if err != nil {
		return h.chatError(c, err)
	}

	if err := h.store.ReplaceTranscript(ctx, conversationID, result.Messages); err != nil {
		// The run succeeded; losing the transcript is bad but not worth
		// hiding the answer from the user.
		log.Printf("ERROR: failed to persist transcript for %s: %v", conversationID, err)
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Content:        result.Content,
		ConversationID: result.ConversationID,
		ToolCalls:      result.ToolCalls,
		ToolResults:    result.ToolResults,
	})
}

// chatError maps run failures to distinct user guidance. Unknown-tool
// failures are configuration bugs and surface loudly as server errors.
func (h *Handler) chatError(c echo.Context, err error) error {
	if errors.Is(err, registry.ErrToolNotFound) {
		log.Printf("ERROR: run failed on unknown tool: %v", err)
		return errorJSON(c, http.StatusInternalServerError, err.Error(),
			"The agent references a tool that is not registered. Fix the agent configuration.")
	}

	switch llm.KindOf(err) {
	case llm.ErrKindAuth:
		return errorJSON(c, http.StatusBadGateway, err.Error(),
			"The model provider rejected the credentials. Check the configured API key.")
	case llm.ErrKindRateLimit:
		return errorJSON(c, http.StatusTooManyRequests, err.Error(),
			"The model provider is rate limiting requests. Wait and retry.")
	default:
		return errorJSON(c, http.StatusBadGateway, err.Error(),
			"The model call failed. Retry, and check gateway connectivity if it persists.")
	}
}
