// Package store persists agent definitions and conversation transcripts.
// The engine is stateless between runs; this is where callers keep the
// transcript they hand back on the next user turn.
package store

import (
	"context"

	"github.com/agentd-io/agentd/domain"
)

// Store is the persistence boundary used by the HTTP layer.
type Store interface {
	CreateAgent(ctx context.Context, agent *domain.Agent) error
	GetAgent(ctx context.Context, agentID string) (*domain.Agent, error)
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	DeleteAgent(ctx context.Context, agentID string) error

	GetOrCreateConversation(ctx context.Context, conversationID, agentID, userID string) (*domain.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error)

	// ReplaceTranscript swaps the stored transcript of a conversation
	// with the extended one returned by a run.
	ReplaceTranscript(ctx context.Context, conversationID string, messages []domain.Message) error
	GetTranscript(ctx context.Context, conversationID string) ([]domain.Message, error)

	Close() error
}
