package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentd-io/agentd/domain"
)

// ScriptedClient replays a fixed sequence of responses and records every
// request it receives. It backs engine and handler tests.
type ScriptedClient struct {
	mu        sync.Mutex
	responses []*ChatCompletionResponse
	errs      []error
	calls     int

	// Requests holds every request received, in order.
	Requests []*ChatCompletionRequest
}

var _ Client = (*ScriptedClient)(nil)

// NewScriptedClient creates a client that returns the given responses in
// order. A nil entry in responses pairs with the error at the same index.
func NewScriptedClient(responses ...*ChatCompletionResponse) *ScriptedClient {
	return &ScriptedClient{responses: responses, errs: make([]error, len(responses))}
}

// FailAt replaces the response at index i with an error.
func (s *ScriptedClient) FailAt(i int, err error) *ScriptedClient {
	for len(s.errs) <= i {
		s.errs = append(s.errs, nil)
		s.responses = append(s.responses, nil)
	}
	s.errs[i] = err
	s.responses[i] = nil
	return s
}

// Calls reports how many requests have been received.
func (s *ScriptedClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *ScriptedClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.calls
	s.calls++
	s.Requests = append(s.Requests, req)

	if i >= len(s.responses) {
		return nil, fmt.Errorf("scripted client: unexpected call %d", i+1)
	}
	if s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return s.responses[i], nil
}

// TextResponse builds a plain assistant response with no tool calls.
func TextResponse(text string) *ChatCompletionResponse {
	return &ChatCompletionResponse{
		Object: "chat.completion",
		Choices: []Choice{{
			Message:      &ChatMessage{Role: "assistant", Content: text},
			FinishReason: "stop",
		}},
	}
}

// ToolCallResponse builds an assistant response requesting the given
// tool calls.
func ToolCallResponse(text string, calls ...ChatMessageToolCall) *ChatCompletionResponse {
	msg := &ChatMessage{Role: "assistant", Content: text}
	for i, c := range calls {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", i+1)
		}
		msg.ToolCalls = append(msg.ToolCalls, toolCallFromScript(id, c.Name, c.Arguments))
	}
	return &ChatCompletionResponse{
		Object: "chat.completion",
		Choices: []Choice{{
			Message:      msg,
			FinishReason: "tool_calls",
		}},
	}
}

// ChatMessageToolCall is a shorthand for scripting tool call responses.
type ChatMessageToolCall struct {
	ID        string
	Name      string
	Arguments string
}

func toolCallFromScript(id, name, args string) domain.ToolCall {
	return domain.ToolCall{
		ID:   id,
		Type: "function",
		Function: domain.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}
