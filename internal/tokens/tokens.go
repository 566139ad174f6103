// Package tokens keeps a growing transcript within a model's context
// window. Token counts are a deliberate character-length heuristic, not
// a real tokenizer; callers must treat every estimate as approximate.
package tokens

import (
	"fmt"
	"math"
	"strings"

	"github.com/agentd-io/agentd/domain"
)

const (
	// charsPerToken is the rough multiplier behind every estimate. It is
	// a tunable constant, not a contract; it skews for non-English text
	// and code-heavy content.
	charsPerToken = 4

	// messageOverhead covers role and formatting tokens per message.
	messageOverhead = 4

	// toolCallOverhead covers the structural tokens of one tool call.
	toolCallOverhead = 8

	// DefaultContextWindow is the ceiling assumed for unknown models.
	DefaultContextWindow = 4096

	// DefaultSafetyMargin is the fraction of the window that may be
	// filled before summarization kicks in.
	DefaultSafetyMargin = 0.8
)

var contextWindows = map[string]int{
	"gpt-4o":                    128000,
	"gpt-4o-mini":               128000,
	"gpt-4-turbo":               128000,
	"gpt-4":                     8192,
	"gpt-3.5-turbo":             16385,
	"claude-3-5-sonnet-20241022": 200000,
	"claude-3-5-haiku-20241022":  200000,
	"claude-3-opus-20240229":     200000,
	"gemini-1.5-pro":            2097152,
	"gemini-1.5-flash":          1048576,
	"llama3.1":                  131072,
	"mistral-large-latest":      128000,
}

// Estimate returns the approximate token cost of text: one token per
// four characters, rounded up, never below one.
func Estimate(text string) int {
	n := (len(text) + charsPerToken - 1) / charsPerToken
	if n < 1 {
		return 1
	}
	return n
}

// EstimateMessage returns the approximate token cost of one message,
// including tool call payloads and the tool-call-reference id.
func EstimateMessage(m domain.Message) int {
	total := messageOverhead + Estimate(m.Content)
	for _, tc := range m.ToolCalls {
		total += toolCallOverhead
		total += Estimate(tc.ID)
		total += Estimate(tc.Function.Name)
		total += Estimate(tc.Function.Arguments)
	}
	if m.ToolCallID != "" {
		total += Estimate(m.ToolCallID)
	}
	return total
}

// EstimateMessages sums EstimateMessage over the transcript.
func EstimateMessages(messages []domain.Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateMessage(m)
	}
	return total
}

// ContextWindow returns the known token ceiling for model. A
// "provider/model" prefix is stripped before lookup; unknown models get
// the conservative default.
func ContextWindow(model string) int {
	if i := strings.Index(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	if window, ok := contextWindows[model]; ok {
		return window
	}
	return DefaultContextWindow
}

// ShouldSummarize reports whether the transcript's estimated size
// exceeds the model window scaled by safetyMargin.
func ShouldSummarize(messages []domain.Message, model string, safetyMargin float64) bool {
	if safetyMargin <= 0 {
		safetyMargin = DefaultSafetyMargin
	}
	threshold := int(math.Ceil(float64(ContextWindow(model)) * safetyMargin))
	return EstimateMessages(messages) > threshold
}

// Summarize collapses the oldest part of the transcript into a single
// synthetic assistant message so that roughly targetTokens of window
// headroom remains. Message index 0 (the system message) is always kept
// verbatim. Without a positive target, or when the transcript already
// fits, the input is returned unchanged.
func Summarize(messages []domain.Message, model string, targetTokens int) []domain.Message {
	if targetTokens <= 0 {
		return messages
	}
	if EstimateMessages(messages) <= targetTokens {
		return messages
	}

	budget := ContextWindow(model) - targetTokens
	running := 0
	cut := len(messages)
	for i, m := range messages {
		cost := EstimateMessage(m)
		if running+cost > budget {
			cut = i
			break
		}
		running += cost
	}
	if cut <= 1 {
		return messages
	}

	out := make([]domain.Message, 0, len(messages)-cut+2)
	out = append(out, messages[0])
	out = append(out, domain.Message{
		Role:    domain.RoleAssistant,
		Content: fmt.Sprintf("[Summary: %d prior messages were summarized to fit the context window.]", cut-1),
	})
	out = append(out, messages[cut:]...)
	return out
}
