package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/registry"
)

const maxReadBytes = 256 * 1024

// resolvePath confines a tool-supplied path to the configured work dir.
func resolvePath(workDir, raw string) (string, error) {
	if workDir == "" {
		workDir = "."
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", err
	}
	full := filepath.Clean(filepath.Join(abs, raw))
	if full != abs && !strings.HasPrefix(full, abs+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the working directory", raw)
	}
	return full, nil
}

func pathSchema(extra map[string]any) map[string]any {
	properties := map[string]any{
		"path": map[string]any{"type": "string"},
	}
	for k, v := range extra {
		properties[k] = v
	}
	return map[string]any{
		"type":                 "object",
		"required":             []any{"path"},
		"properties":           properties,
		"additionalProperties": false,
	}
}

func registerFilesystem(reg *registry.Registry, deps Deps) {
	reg.Register(registry.New("read_file", "Read a text file relative to the working directory.",
		pathSchema(nil),
		func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
			full, err := resolvePath(deps.WorkDir, args["path"].(string))
			if err != nil {
				return nil, err
			}
			data, err := os.ReadFile(full)
			if err != nil {
				return nil, fmt.Errorf("failed to read file: %w", err)
			}
			truncated := false
			if len(data) > maxReadBytes {
				data = data[:maxReadBytes]
				truncated = true
			}
			return map[string]any{
				"path":      args["path"],
				"content":   string(data),
				"truncated": truncated,
			}, nil
		}))

	reg.Register(registry.New("list_directory", "List the entries of a directory relative to the working directory.",
		pathSchema(nil),
		func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
			full, err := resolvePath(deps.WorkDir, args["path"].(string))
			if err != nil {
				return nil, err
			}
			entries, err := os.ReadDir(full)
			if err != nil {
				return nil, fmt.Errorf("failed to list directory: %w", err)
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				name := e.Name()
				if e.IsDir() {
					name += "/"
				}
				names = append(names, name)
			}
			return map[string]any{"path": args["path"], "entries": names}, nil
		}))

	writeSchema := pathSchema(map[string]any{
		"content": map[string]any{"type": "string"},
	})
	writeSchema["required"] = []any{"path", "content"}

	writeHandler := func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
		full, err := resolvePath(deps.WorkDir, args["path"].(string))
		if err != nil {
			return nil, err
		}
		content := args["content"].(string)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create parent directory: %w", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write file: %w", err)
		}
		return map[string]any{"path": args["path"], "bytes": len(content)}, nil
	}

	reg.Register(registry.New("write_file", "Write content to a file relative to the working directory. Requires approval.",
		writeSchema, writeHandler).
		WithApproval(&registry.ApprovalSpec{
			Message: func(args map[string]any, ec *domain.ExecContext) string {
				content, _ := args["content"].(string)
				return fmt.Sprintf("Write %d bytes to %v?", len(content), args["path"])
			},
			ExecuteTool: "execute_write_file",
		}))

	reg.Register(registry.New("execute_write_file", "Write a previously approved file change.",
		writeSchema, writeHandler).AsHidden())
}
