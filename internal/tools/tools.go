// Package tools provides the builtin tool set: filesystem, shell, git,
// web search and email. Destructive tools are registered as a visible
// approval-gated proposer plus a hidden execute counterpart, so the
// model can never trigger the effect in a single call.
package tools

import (
	"net/http"
	"time"

	"github.com/agentd-io/agentd/internal/registry"
	"github.com/agentd-io/agentd/policy"
)

// Deps carries the external collaborators the builtin tools need.
type Deps struct {
	// Policy gates shell commands. Required for the shell tools.
	Policy *policy.Engine

	// WorkDir is the root every filesystem and git tool is confined to.
	WorkDir string

	// SearchURL is the web search endpoint queried by web_search.
	SearchURL string

	// SMTPAddr and SMTPFrom configure outbound email. Empty disables
	// actual delivery; send attempts then fail with a clear error.
	SMTPAddr string
	SMTPFrom string

	// HTTPClient is used for outbound HTTP. Defaults to a 15s client.
	HTTPClient *http.Client

	// CommandTimeout bounds one shell command. Defaults to 60s.
	CommandTimeout time.Duration
}

func (d *Deps) httpClient() *http.Client {
	if d.HTTPClient != nil {
		return d.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func (d *Deps) commandTimeout() time.Duration {
	if d.CommandTimeout > 0 {
		return d.CommandTimeout
	}
	return 60 * time.Second
}

// RegisterBuiltins registers every builtin tool. Call once at startup,
// before any run is served.
func RegisterBuiltins(reg *registry.Registry, deps Deps) {
	registerFilesystem(reg, deps)
	registerShell(reg, deps)
	registerGit(reg, deps)
	registerWebSearch(reg, deps)
	registerEmail(reg, deps)
}
