package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/muski85/ai-therapist-agent22-backend-clean/core/db"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
)

type chatSessionStore struct {
	db *db.DB
}

func newChatSessionStore(database *db.DB) ChatSessionStore {
	return &chatSessionStore{db: database}
}

func (s *chatSessionStore) GetByID(ctx context.Context, id int64) (*model.ChatSession, error) {
	row := s.db.Pool().QueryRow(ctx,
		`SELECT id, user_id, topic, status, start_time, created_at, updated_at
		 FROM chat_sessions WHERE id = $1`, id)

	var session model.ChatSession
	err := row.Scan(&session.ID, &session.UserID, &session.Topic, &session.Status,
		&session.StartTime, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	messages, err := s.ListMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Messages = messages

	return &session, nil
}

func (s *chatSessionStore) Create(ctx context.Context, session *model.ChatSession) error {
	row := s.db.Pool().QueryRow(ctx,
		`INSERT INTO chat_sessions (id, user_id, status, start_time)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, topic, status, start_time, created_at, updated_at`,
		session.ID, session.UserID, session.Status, session.StartTime)

	err := row.Scan(&session.ID, &session.UserID, &session.Topic, &session.Status,
		&session.StartTime, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return err
	}
	session.Messages = []model.ChatMessage{}
	return nil
}

func (s *chatSessionStore) ListByUser(ctx context.Context, userID int64) ([]model.ChatSessionSummary, error) {
	rows, err := s.db.Pool().Query(ctx,
		`SELECT cs.id, cs.topic, cs.status, cs.start_time, cs.created_at, cs.updated_at,
		        (SELECT count(*) FROM chat_messages cm WHERE cm.session_id = cs.id) AS message_count
		 FROM chat_sessions cs
		 WHERE cs.user_id = $1
		 ORDER BY cs.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.ChatSessionSummary{}
	for rows.Next() {
		var sum model.ChatSessionSummary
		if err := rows.Scan(&sum.ID, &sum.Topic, &sum.Status, &sum.StartTime,
			&sum.CreatedAt, &sum.UpdatedAt, &sum.MessageCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *chatSessionStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Pool().Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendMessage inserts the message and touches the session's updated_at in
// one transaction. Concurrent appends to the same session each insert their
// own row, so they can interleave but never overwrite each other.
func (s *chatSessionStore) AppendMessage(ctx context.Context, msg *model.ChatMessage) error {
	var metadata []byte
	if msg.Metadata != nil {
		var err error
		metadata, err = json.Marshal(msg.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling message metadata: %w", err)
		}
	}

	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO chat_messages (id, session_id, role, content, metadata, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING created_at`,
			msg.ID, msg.SessionID, msg.Role, msg.Content, metadata, msg.Timestamp)
		if err := row.Scan(&msg.Timestamp); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`UPDATE chat_sessions SET updated_at = now() WHERE id = $1`, msg.SessionID)
		return err
	})
}

func (s *chatSessionStore) ListMessages(ctx context.Context, sessionID int64) ([]model.ChatMessage, error) {
	rows, err := s.db.Pool().Query(ctx,
		`SELECT id, session_id, role, content, metadata, created_at
		 FROM chat_messages
		 WHERE session_id = $1
		 ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.ChatMessage{}
	for rows.Next() {
		var msg model.ChatMessage
		var metadata []byte
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content,
			&metadata, &msg.Timestamp); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			var meta model.MessageMetadata
			if err := json.Unmarshal(metadata, &meta); err != nil {
				return nil, fmt.Errorf("unmarshaling message metadata: %w", err)
			}
			msg.Metadata = &meta
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *chatSessionStore) UpdateTopic(ctx context.Context, sessionID int64, topic string) error {
	tag, err := s.db.Pool().Exec(ctx,
		`UPDATE chat_sessions SET topic = $2, updated_at = now() WHERE id = $1`,
		sessionID, topic)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *chatSessionStore) UpdateStatus(ctx context.Context, sessionID int64, status model.SessionStatus) error {
	tag, err := s.db.Pool().Exec(ctx,
		`UPDATE chat_sessions SET status = $2, updated_at = now() WHERE id = $1`,
		sessionID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
