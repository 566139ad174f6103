// Package engine drives the bounded tool-calling conversation loop: it
// talks to the model, dispatches requested tool calls through the
// registry, and returns the final answer with the full transcript.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/llm"
	"github.com/agentd-io/agentd/internal/registry"
)

// DefaultMaxIterations bounds the number of model round-trips per run.
const DefaultMaxIterations = 5

// Engine executes agent runs. It holds no per-run state; concurrent
// Run calls are independent.
type Engine struct {
	client   llm.Client
	registry *registry.Registry
}

// New creates an engine over the given model client and tool registry.
func New(client llm.Client, reg *registry.Registry) (*Engine, error) {
	if client == nil {
		return nil, errors.New("llm client is required")
	}
	if reg == nil {
		return nil, errors.New("tool registry is required")
	}
	return &Engine{client: client, registry: reg}, nil
}

// Run executes one bounded conversation for a single user input.
//
// Unknown tool names, whether configured on the agent or invented by the
// model, abort the whole run; every other tool failure is surfaced back
// to the model as a conversational error message and the run continues.
// Model-call failures propagate unretried.
func (e *Engine) Run(ctx context.Context, req domain.RunRequest) (*domain.RunResult, error) {
	if req.Agent == nil {
		return nil, errors.New("agent is required")
	}
	if req.Input == "" {
		return nil, errors.New("input is required")
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = "conv_" + uuid.New().String()[:8]
	}

	// Fail fast if the agent references tools the registry doesn't
	// have; silently dropping them would let the agent lose
	// capabilities without anyone noticing.
	declarations, err := e.registry.DeclarationsFor(req.Agent.Config.Tools)
	if err != nil {
		return nil, fmt.Errorf("agent %s has unknown tools: %w", req.Agent.AgentID, err)
	}

	maxIterations := req.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	execCtx := &domain.ExecContext{
		AgentID:        req.Agent.AgentID,
		ConversationID: conversationID,
		UserID:         req.UserID,
	}

	messages := buildMessages(req.Agent, req.Input, req.History)

	result := &domain.RunResult{
		ConversationID: conversationID,
		ToolResults:    map[string]any{},
	}

	for iteration := 0; iteration < maxIterations; iteration++ {
		resp, err := e.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
			Model:      req.Agent.Config.FullModel(),
			Messages:   llm.FromMessages(messages),
			Tools:      declarations,
			ToolChoice: "auto",
		})
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
			return nil, errors.New("model returned no choices")
		}

		assistant := resp.Choices[0].Message
		messages = append(messages, domain.Message{
			Role:      domain.RoleAssistant,
			Content:   assistant.Content,
			ToolCalls: assistant.ToolCalls,
		})

		if len(assistant.ToolCalls) == 0 {
			result.Content = assistant.Content
			result.Messages = messages
			return result, nil
		}

		result.ToolCalls = append(result.ToolCalls, assistant.ToolCalls...)

		for _, call := range assistant.ToolCalls {
			toolMsg, err := e.executeToolCall(ctx, call, execCtx, result.ToolResults)
			if err != nil {
				return nil, err
			}
			messages = append(messages, toolMsg)
		}
	}

	log.Printf("WARN: run %s for agent %s hit the iteration cap (%d)", conversationID, req.Agent.AgentID, maxIterations)
	result.Messages = messages
	return result, nil
}

// executeToolCall dispatches one tool call and renders its tool-role
// message. Only ErrToolNotFound is returned as an error; everything
// else is folded into the transcript.
func (e *Engine) executeToolCall(ctx context.Context, call domain.ToolCall, execCtx *domain.ExecContext, toolResults map[string]any) (domain.Message, error) {
	name := call.Function.Name

	args := map[string]any{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			// A garbled payload is treated as an empty argument object
			// rather than aborting the turn; validation surfaces any
			// resulting schema violations to the model.
			log.Printf("WARN: malformed arguments for tool %s: %v", name, err)
			args = map[string]any{}
		}
	}

	res, err := e.registry.Dispatch(ctx, name, args, execCtx)
	if err != nil {
		if errors.Is(err, registry.ErrToolNotFound) {
			return domain.Message{}, fmt.Errorf("model requested unknown tool: %w", err)
		}
		return domain.Message{}, err
	}

	msg := domain.Message{Role: domain.RoleTool, ToolCallID: call.ID}
	if !res.Success {
		msg.Content = "Error: " + res.Error
		if res.Result != nil {
			// Approval-required results carry a structured payload the
			// model and the user both need to see.
			if serialized, err := json.Marshal(res); err == nil {
				msg.Content = string(serialized)
			}
			toolResults[name] = res.Result
		} else {
			toolResults[name] = map[string]any{"error": res.Error}
		}
		return msg, nil
	}

	serialized, err := json.Marshal(res.Result)
	if err != nil {
		msg.Content = "Error: tool result is not serializable"
		toolResults[name] = map[string]any{"error": err.Error()}
		return msg, nil
	}
	msg.Content = string(serialized)
	toolResults[name] = res.Result
	return msg, nil
}
