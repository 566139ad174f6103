package domain

import (
	"encoding/json"
	"time"
)

// Conversation groups the persisted transcript of one agent conversation.
// The engine itself is stateless across runs; the caller owns the
// transcript and resubmits it on the next user turn.
type Conversation struct {
	ConversationID string          `json:"conversation_id"`
	AgentID        string          `json:"agent_id"`
	UserID         string          `json:"user_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// StoredMessage is a transcript message as persisted by the store,
// with ordering and identity attached.
type StoredMessage struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	Seq            int       `json:"seq"`
	Message        Message   `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
