package registry

import (
	"context"
	"fmt"
	"log"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/schema"
)

// ApprovalErrorMarker is the fixed error string carried by every
// approval-required result.
const ApprovalErrorMarker = "APPROVAL_REQUIRED"

// HandlerFunc is the effect behind a tool: validated arguments and the
// run's execution context in, a JSON-serializable result out.
type HandlerFunc func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error)

// ApprovalSpec marks a tool as requiring explicit human confirmation.
// The primary handler of such a tool never runs; execution happens only
// through the bound follow-up tool, a distinct (normally hidden)
// registry entry invoked in a second, explicit call.
type ApprovalSpec struct {
	// Message renders the human-readable explanation of what the tool
	// is about to do.
	Message func(args map[string]any, ec *domain.ExecContext) string

	// ExecuteTool names the hidden follow-up tool that actually runs
	// the effect once a human has confirmed.
	ExecuteTool string

	// ExecuteArgs rebuilds the follow-up tool's arguments from the
	// original call's arguments.
	ExecuteArgs func(args map[string]any) map[string]any
}

// ApprovalPayload is the structured result of a gated call.
type ApprovalPayload struct {
	ApprovalRequired bool           `json:"approvalRequired"`
	Message          string         `json:"message"`
	Instruction      string         `json:"instruction"`
	ExecuteToolName  string         `json:"executeToolName,omitempty"`
	ExecuteArgs      map[string]any `json:"executeArgs,omitempty"`
}

// Tool is a named, schema-described action the model may request.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Hidden      bool
	Approval    *ApprovalSpec

	handler HandlerFunc
}

// New builds a tool, wiring schema validation, the approval gate and the
// handler into a single execution entry point.
func New(name, description string, parameters map[string]any, handler HandlerFunc) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Parameters:  parameters,
		handler:     handler,
	}
}

// WithApproval attaches an approval spec to the tool.
func (t *Tool) WithApproval(spec *ApprovalSpec) *Tool {
	t.Approval = spec
	return t
}

// AsHidden excludes the tool from listings and default declarations.
// Hidden tools remain dispatchable by name.
func (t *Tool) AsHidden() *Tool {
	t.Hidden = true
	return t
}

// Execute runs one invocation: validate, gate, then handler.
//
// The gate is unconditional. No argument the model controls (such as a
// "confirm" flag) reaches the handler of an approval-gated tool; the
// only path to execution is a second call to the bound follow-up tool.
func (t *Tool) Execute(ctx context.Context, args map[string]any, ec *domain.ExecContext) domain.ExecResult {
	if args == nil {
		args = map[string]any{}
	}

	if err := schema.Validate(t.Parameters, args); err != nil {
		return domain.ExecResult{Success: false, Error: err.Error()}
	}

	if t.Approval != nil {
		payload := ApprovalPayload{
			ApprovalRequired: true,
			Message:          t.Approval.Message(args, ec),
			Instruction:      "This action requires explicit approval before it can run.",
		}
		if t.Approval.ExecuteTool != "" {
			payload.ExecuteToolName = t.Approval.ExecuteTool
			if t.Approval.ExecuteArgs != nil {
				payload.ExecuteArgs = t.Approval.ExecuteArgs(args)
			} else {
				payload.ExecuteArgs = args
			}
			payload.Instruction = fmt.Sprintf(
				"This action requires explicit approval. To proceed, invoke %q with the provided arguments.",
				t.Approval.ExecuteTool)
		}
		return domain.ExecResult{Success: false, Result: payload, Error: ApprovalErrorMarker}
	}

	result, err := t.run(ctx, args, ec)
	if err != nil {
		return domain.ExecResult{Success: false, Error: err.Error()}
	}
	return domain.ExecResult{Success: true, Result: result}
}

// run invokes the handler, converting a panic into an error result so a
// misbehaving tool cannot take down the whole run.
func (t *Tool) run(ctx context.Context, args map[string]any, ec *domain.ExecContext) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: tool %s panicked: %v", t.Name, r)
			err = fmt.Errorf("tool %s panicked: %v", t.Name, r)
		}
	}()
	if t.handler == nil {
		return nil, fmt.Errorf("tool %s has no handler", t.Name)
	}
	return t.handler(ctx, args, ec)
}
