package store

import (
	"context"
	"errors"

	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}

// ChatSessionStore defines the contract for session and message data access.
// AppendMessage must be atomic with respect to concurrent appends to the same
// session: two concurrent appends may interleave but never overwrite each
// other. Topic and status updates are last-writer-wins.
type ChatSessionStore interface {
	GetByID(ctx context.Context, id int64) (*model.ChatSession, error)
	Create(ctx context.Context, session *model.ChatSession) error
	ListByUser(ctx context.Context, userID int64) ([]model.ChatSessionSummary, error)
	Delete(ctx context.Context, id int64) error
	AppendMessage(ctx context.Context, msg *model.ChatMessage) error
	ListMessages(ctx context.Context, sessionID int64) ([]model.ChatMessage, error)
	UpdateTopic(ctx context.Context, sessionID int64, topic string) error
	UpdateStatus(ctx context.Context, sessionID int64, status model.SessionStatus) error
}
