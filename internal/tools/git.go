package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/registry"
)

func runGit(ctx context.Context, deps Deps, args ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, deps.commandTimeout())
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "git", args...)
	cmd.Dir = deps.WorkDir
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errOut.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s failed: %s", args[0], msg)
	}
	return clipOutput(out.String()), nil
}

func registerGit(reg *registry.Registry, deps Deps) {
	reg.Register(registry.New("git_status", "Show the git working tree status of the working directory.",
		map[string]any{
			"type":                 "object",
			"properties":           map[string]any{},
			"additionalProperties": false,
		},
		func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
			out, err := runGit(ctx, deps, "status", "--porcelain=v1", "--branch")
			if err != nil {
				return nil, err
			}
			return map[string]any{"status": out}, nil
		}))

	reg.Register(registry.New("git_log", "Show recent commits in the working directory.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "number"},
			},
			"additionalProperties": false,
		},
		func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
			limit := 10
			if v, ok := args["limit"].(float64); ok && v > 0 {
				limit = int(v)
			}
			out, err := runGit(ctx, deps, "log", "--oneline", "-n", strconv.Itoa(limit))
			if err != nil {
				return nil, err
			}
			return map[string]any{"log": out}, nil
		}))

	reg.Register(registry.New("git_diff", "Show unstaged changes in the working directory.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string"},
			},
			"additionalProperties": false,
		},
		func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
			gitArgs := []string{"diff"}
			if path, ok := args["path"].(string); ok && path != "" {
				gitArgs = append(gitArgs, "--", path)
			}
			out, err := runGit(ctx, deps, gitArgs...)
			if err != nil {
				return nil, err
			}
			return map[string]any{"diff": out}, nil
		}))
}
