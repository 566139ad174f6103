package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/registry"
)

const maxSearchBytes = 128 * 1024

func registerWebSearch(reg *registry.Registry, deps Deps) {
	reg.Register(registry.New("web_search", "Search the web and return raw results for a query.",
		map[string]any{
			"type":     "object",
			"required": []any{"query"},
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
			},
			"additionalProperties": false,
		},
		func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
			if deps.SearchURL == "" {
				return nil, fmt.Errorf("web search is not configured")
			}
			query := args["query"].(string)

			endpoint := deps.SearchURL + "?q=" + url.QueryEscape(query)
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to create search request: %w", err)
			}

			resp, err := deps.httpClient().Do(httpReq)
			if err != nil {
				return nil, fmt.Errorf("search request failed: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBytes))
			if err != nil {
				return nil, fmt.Errorf("failed to read search response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
			}

			// Pass structured results through when the endpoint speaks
			// JSON; otherwise hand the model the raw text.
			var parsed any
			if err := json.Unmarshal(body, &parsed); err == nil {
				return map[string]any{"query": query, "results": parsed}, nil
			}
			return map[string]any{"query": query, "results": string(body)}, nil
		}))
}
