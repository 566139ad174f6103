package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/registry"
)

const maxOutputBytes = 64 * 1024

var commandSchema = map[string]any{
	"type":     "object",
	"required": []any{"command"},
	"properties": map[string]any{
		"command": map[string]any{"type": "string"},
	},
	"additionalProperties": false,
}

func registerShell(reg *registry.Registry, deps Deps) {
	execHandler := func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
		command := args["command"].(string)

		if deps.Policy != nil {
			decision, err := deps.Policy.Evaluate(ctx, map[string]any{
				"command":  command,
				"agent_id": ec.AgentID,
			})
			if err != nil {
				return nil, fmt.Errorf("policy evaluation failed: %w", err)
			}
			if decision == "block" {
				return nil, fmt.Errorf("command blocked by policy: %s", command)
			}
		}

		cmdCtx, cancel := context.WithTimeout(ctx, deps.commandTimeout())
		defer cancel()

		cmd := exec.CommandContext(cmdCtx, "sh", "-c", command)
		cmd.Dir = deps.WorkDir
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		runErr := cmd.Run()
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		result := map[string]any{
			"command":   command,
			"stdout":    clipOutput(stdout.String()),
			"stderr":    clipOutput(stderr.String()),
			"exit_code": exitCode,
		}
		if cmdCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("command timed out: %s", command)
		}
		if runErr != nil && stderr.Len() == 0 && stdout.Len() == 0 {
			return nil, fmt.Errorf("command failed: %w", runErr)
		}
		return result, nil
	}

	reg.Register(registry.New("run_command", "Run a shell command in the working directory. Requires approval.",
		commandSchema, execHandler).
		WithApproval(&registry.ApprovalSpec{
			Message: func(args map[string]any, ec *domain.ExecContext) string {
				return fmt.Sprintf("Run shell command: %v", args["command"])
			},
			ExecuteTool: "execute_run_command",
		}))

	reg.Register(registry.New("execute_run_command", "Run a previously approved shell command.",
		commandSchema, execHandler).AsHidden())
}

func clipOutput(s string) string {
	if len(s) > maxOutputBytes {
		return s[:maxOutputBytes] + "\n[output truncated]"
	}
	return strings.TrimRight(s, "\n")
}
