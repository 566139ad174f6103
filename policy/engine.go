// Package policy evaluates Rego rules that decide whether a shell
// command may run at all. This is a blocklist, not a sandbox: it stops
// the obviously destructive invocations before the approval gate even
// gets involved.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine prepares the given Rego policy for evaluation.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.command_policy.decision"),
		rego.Module("command_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}
	return &Engine{query: query}, nil
}

// Evaluate checks a command against the policy. Input carries at least
// "command" (the full command line). Returns "allow" or "block".
func (e *Engine) Evaluate(ctx context.Context, input map[string]any) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "allow", nil
	}
	if decision, ok := results[0].Expressions[0].Value.(string); ok {
		return decision, nil
	}
	return "allow", nil
}

// DefaultPolicy blocks the command patterns no agent should ever run
// unattended, approval or not.
const DefaultPolicy = `
package command_policy

default decision = "allow"

blocked_substrings := [
	"rm -rf /",
	"mkfs",
	"dd if=",
	":(){ :|:& };:",
	"shutdown",
	"reboot",
	"> /dev/sda",
]

decision = "block" {
	some i
	contains(input.command, blocked_substrings[i])
}
`
