package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/scribe/internal/extractor"
)

// StoredConversation is a persisted extraction result.
type StoredConversation struct {
	ID                    uuid.UUID           `json:"id"`
	ThreadRef             string              `json:"threadRef"`
	MessageCount          int                 `json:"messageCount"`
	LastAssistantResponse string              `json:"lastAssistantResponse"`
	Messages              []extractor.Message `json:"messages"`
	CleanedDocument       json.RawMessage     `json:"cleanedDocument"`
	CreatedAt             time.Time           `json:"createdAt"`
}

// SaveConversation writes one extraction result to the conversations table.
// Table: conversations (id, thread_ref, message_count,
// last_assistant_response, messages jsonb, cleaned_document jsonb, created_at).
func (s *Store) SaveConversation(ctx context.Context, threadRef string, res extractor.Result) (uuid.UUID, error) {
	msgs, err := json.Marshal(res.Messages)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal messages: %w", err)
	}

	id := uuid.New()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO conversations (id, thread_ref, message_count, last_assistant_response, messages, cleaned_document, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		id, threadRef, res.ConversationCount, res.LastAssistantResponse, msgs, []byte(res.CleanedDocumentJSON),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert conversation: %w", err)
	}

	return id, nil
}

// GetConversation fetches a stored conversation by id.
func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (*StoredConversation, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, thread_ref, message_count, last_assistant_response, messages, cleaned_document, created_at
		FROM conversations WHERE id = $1`, id)

	var sc StoredConversation
	var msgs []byte
	err := row.Scan(&sc.ID, &sc.ThreadRef, &sc.MessageCount, &sc.LastAssistantResponse, &msgs, &sc.CleanedDocument, &sc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if err := json.Unmarshal(msgs, &sc.Messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	return &sc, nil
}

// ListRecent returns the most recently stored conversations, newest first.
// Message bodies are included; callers wanting summaries can ignore them.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]StoredConversation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, thread_ref, message_count, last_assistant_response, messages, cleaned_document, created_at
		FROM conversations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []StoredConversation
	for rows.Next() {
		var sc StoredConversation
		var msgs []byte
		if err := rows.Scan(&sc.ID, &sc.ThreadRef, &sc.MessageCount, &sc.LastAssistantResponse, &msgs, &sc.CleanedDocument, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		if err := json.Unmarshal(msgs, &sc.Messages); err != nil {
			return nil, fmt.Errorf("decode messages: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// HasThreadRef reports whether a conversation for the given thread ref is
// already stored, so repeated thread-stored events stay idempotent.
func (s *Store) HasThreadRef(ctx context.Context, threadRef string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM conversations WHERE thread_ref = $1)`, threadRef).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check thread ref: %w", err)
	}
	return exists, nil
}
