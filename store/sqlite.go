package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/agentd-io/agentd/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and migrates) a SQLite database at dsn.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS agents (
			agent_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			config TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			conversation_id TEXT PRIMARY KEY,
			agent_id TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			metadata TEXT,
			FOREIGN KEY (agent_id) REFERENCES agents(agent_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			payload TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (conversation_id) REFERENCES conversations(conversation_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, seq)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateAgent inserts a new agent definition.
func (s *SQLiteStore) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	config, err := json.Marshal(agent.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal agent config: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO agents (agent_id, name, description, status, config, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		agent.AgentID, agent.Name, agent.Description, string(agent.Status), string(config), agent.CreatedAt)
	return err
}

// GetAgent returns the agent with the given id, or nil when absent.
func (s *SQLiteStore) GetAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT agent_id, name, description, status, config, created_at FROM agents WHERE agent_id = ?`,
		agentID)
	agent, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// ListAgents returns every agent definition.
func (s *SQLiteStore) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT agent_id, name, description, status, config, created_at FROM agents ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

// DeleteAgent removes an agent definition.
func (s *SQLiteStore) DeleteAgent(ctx context.Context, agentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE agent_id = ?`, agentID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*domain.Agent, error) {
	var agent domain.Agent
	var status, config string
	if err := row.Scan(&agent.AgentID, &agent.Name, &agent.Description, &status, &config, &agent.CreatedAt); err != nil {
		return nil, err
	}
	agent.Status = domain.AgentStatus(status)
	if err := json.Unmarshal([]byte(config), &agent.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agent config: %w", err)
	}
	return &agent, nil
}

// GetConversation returns a conversation by id, or nil when absent.
func (s *SQLiteStore) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	var metadata sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT conversation_id, agent_id, user_id, created_at, updated_at, metadata FROM conversations WHERE conversation_id = ?`,
		conversationID).Scan(&conv.ConversationID, &conv.AgentID, &conv.UserID, &conv.CreatedAt, &conv.UpdatedAt, &metadata)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if metadata.Valid {
		conv.Metadata = json.RawMessage(metadata.String)
	}
	return &conv, nil
}

// GetOrCreateConversation fetches an existing conversation or starts one.
func (s *SQLiteStore) GetOrCreateConversation(ctx context.Context, conversationID, agentID, userID string) (*domain.Conversation, error) {
	conv, err := s.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	now := time.Now()
	conv = &domain.Conversation{
		ConversationID: conversationID,
		AgentID:        agentID,
		UserID:         userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conversations (conversation_id, agent_id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		conv.ConversationID, conv.AgentID, conv.UserID, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// ReplaceTranscript swaps the stored transcript of a conversation with
// the extended one returned by a run.
func (s *SQLiteStore) ReplaceTranscript(ctx context.Context, conversationID string, messages []domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return err
	}

	now := time.Now()
	for i, m := range messages {
		payload, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal message %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (message_id, conversation_id, seq, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
			"msg_"+uuid.New().String()[:8], conversationID, i, string(payload), now); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE conversation_id = ?`, now, conversationID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetTranscript loads the stored transcript of a conversation in order.
func (s *SQLiteStore) GetTranscript(ctx context.Context, conversationID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM messages WHERE conversation_id = ? ORDER BY seq`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var m domain.Message
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
