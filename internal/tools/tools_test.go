package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/registry"
	"github.com/agentd-io/agentd/policy"
)

func newTestRegistry(t *testing.T, deps Deps) *registry.Registry {
	t.Helper()
	if deps.Policy == nil {
		engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
		require.NoError(t, err)
		deps.Policy = engine
	}
	reg := registry.NewRegistry()
	RegisterBuiltins(reg, deps)
	return reg
}

func TestBuiltinRegistration(t *testing.T) {
	reg := newTestRegistry(t, Deps{WorkDir: t.TempDir()})

	visible := reg.List()
	for _, name := range []string{"read_file", "list_directory", "write_file", "run_command", "git_status", "git_log", "git_diff", "web_search", "send_email"} {
		assert.Contains(t, visible, name)
	}
	for _, name := range []string{"execute_write_file", "execute_run_command", "execute_send_email"} {
		assert.NotContains(t, visible, name)
		_, err := reg.Resolve(name)
		assert.NoError(t, err)
	}
}

func TestReadFileAndListDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	reg := newTestRegistry(t, Deps{WorkDir: dir})
	ec := &domain.ExecContext{AgentID: "a1"}

	res, err := reg.Dispatch(context.Background(), "read_file", map[string]any{"path": "note.txt"}, ec)
	require.NoError(t, err)
	require.True(t, res.Success)
	out := res.Result.(map[string]any)
	assert.Equal(t, "hello", out["content"])
	assert.Equal(t, false, out["truncated"])

	res, err = reg.Dispatch(context.Background(), "list_directory", map[string]any{"path": "."}, ec)
	require.NoError(t, err)
	require.True(t, res.Success)
	entries := res.Result.(map[string]any)["entries"].([]string)
	assert.Contains(t, entries, "note.txt")
	assert.Contains(t, entries, "sub/")
}

func TestReadFileEscapeRejected(t *testing.T) {
	reg := newTestRegistry(t, Deps{WorkDir: t.TempDir()})

	res, err := reg.Dispatch(context.Background(), "read_file",
		map[string]any{"path": "../../etc/passwd"}, &domain.ExecContext{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "escapes")
}

func TestWriteFileGatedAndExecutable(t *testing.T) {
	dir := t.TempDir()
	reg := newTestRegistry(t, Deps{WorkDir: dir})
	ec := &domain.ExecContext{AgentID: "a1"}
	args := map[string]any{"path": "out.txt", "content": "data"}

	res, err := reg.Dispatch(context.Background(), "write_file", args, ec)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, registry.ApprovalErrorMarker, res.Error)
	_, statErr := os.Stat(filepath.Join(dir, "out.txt"))
	assert.True(t, os.IsNotExist(statErr))

	payload := res.Result.(registry.ApprovalPayload)
	assert.Equal(t, "execute_write_file", payload.ExecuteToolName)

	res, err = reg.Dispatch(context.Background(), payload.ExecuteToolName, payload.ExecuteArgs, ec)
	require.NoError(t, err)
	require.True(t, res.Success)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestRunCommandGatedThenExecuted(t *testing.T) {
	reg := newTestRegistry(t, Deps{WorkDir: t.TempDir()})
	ec := &domain.ExecContext{AgentID: "a1"}
	args := map[string]any{"command": "echo hello"}

	res, err := reg.Dispatch(context.Background(), "run_command", args, ec)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, registry.ApprovalErrorMarker, res.Error)

	res, err = reg.Dispatch(context.Background(), "execute_run_command", args, ec)
	require.NoError(t, err)
	require.True(t, res.Success)
	out := res.Result.(map[string]any)
	assert.Equal(t, "hello", out["stdout"])
	assert.Equal(t, 0, out["exit_code"])
}

func TestRunCommandBlockedByPolicy(t *testing.T) {
	reg := newTestRegistry(t, Deps{WorkDir: t.TempDir()})

	res, err := reg.Dispatch(context.Background(), "execute_run_command",
		map[string]any{"command": "rm -rf / --no-preserve-root"}, &domain.ExecContext{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "blocked by policy")
}

func TestWebSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang agents", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(map[string]any{
			"items": []any{map[string]any{"title": "Go agents", "url": "https://example.com"}},
		})
	}))
	defer srv.Close()

	reg := newTestRegistry(t, Deps{WorkDir: t.TempDir(), SearchURL: srv.URL})

	res, err := reg.Dispatch(context.Background(), "web_search",
		map[string]any{"query": "golang agents"}, &domain.ExecContext{})
	require.NoError(t, err)
	require.True(t, res.Success)
	out := res.Result.(map[string]any)
	assert.Equal(t, "golang agents", out["query"])
	assert.NotNil(t, out["results"])
}

func TestWebSearchNotConfigured(t *testing.T) {
	reg := newTestRegistry(t, Deps{WorkDir: t.TempDir()})

	res, err := reg.Dispatch(context.Background(), "web_search",
		map[string]any{"query": "anything"}, &domain.ExecContext{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "not configured")
}

func TestSendEmailGated(t *testing.T) {
	reg := newTestRegistry(t, Deps{WorkDir: t.TempDir()})
	args := map[string]any{"to": "a@example.com", "subject": "hi", "body": "hello"}

	res, err := reg.Dispatch(context.Background(), "send_email", args, &domain.ExecContext{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	payload := res.Result.(registry.ApprovalPayload)
	assert.Equal(t, "execute_send_email", payload.ExecuteToolName)
	assert.Contains(t, payload.Message, "a@example.com")

	// Delivery unconfigured: the hidden executor fails cleanly.
	res, err = reg.Dispatch(context.Background(), "execute_send_email", args, &domain.ExecContext{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "not configured")
}
