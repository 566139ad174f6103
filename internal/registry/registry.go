// Package registry holds the tool descriptors an agent run can dispatch
// against. Registration happens once at startup; after that the registry
// is treated as read-only by concurrent runs.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/llm"
)

// ErrToolNotFound marks a dispatch against an unregistered tool name.
// The engine treats it as fatal for the whole run.
var ErrToolNotFound = errors.New("tool not found")

// Registry maps tool names to descriptors.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register inserts or overwrites the tool under its name. Last
// registration wins; callers avoid collisions by convention.
func (r *Registry) Register(t *Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
}

// Resolve returns the tool registered under name.
func (r *Registry) Resolve(name string) (*Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// List returns every registered tool name, hidden tools excluded.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name, t := range r.tools {
		if t.Hidden {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Declarations exports the model-facing function declarations for every
// visible tool. The result reflects the registry state at call time.
func (r *Registry) Declarations() []llm.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]llm.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		if t.Hidden {
			continue
		}
		out = append(out, declaration(t))
	}
	return out
}

// DeclarationsFor exports declarations for the named tools only, in the
// given order. Hidden tools are included when explicitly named. Unknown
// names are reported so the caller can fail fast instead of silently
// dropping an agent capability.
func (r *Registry) DeclarationsFor(names []string) ([]llm.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []string
	out := make([]llm.Tool, 0, len(names))
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out = append(out, declaration(t))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrToolNotFound, missing)
	}
	return out, nil
}

// Dispatch resolves name and executes the tool. A missing tool surfaces
// as ErrToolNotFound; every other failure is carried inside the result.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any, ec *domain.ExecContext) (domain.ExecResult, error) {
	t, err := r.Resolve(name)
	if err != nil {
		return domain.ExecResult{}, err
	}
	return t.Execute(ctx, args, ec), nil
}

func declaration(t *Tool) llm.Tool {
	return llm.Tool{
		Type: "function",
		Function: llm.ToolFunction{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		},
	}
}
