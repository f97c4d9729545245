package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
)

// EventTherapySessionMessage is published on every message submission.
const EventTherapySessionMessage = "therapy.session.message"

// SessionEvent carries the submitted message plus the conversation context a
// downstream analytics consumer needs. Publication is best-effort.
type SessionEvent struct {
	SessionID    int64
	UserID       int64
	Message      string
	History      []model.ChatMessage
	Memory       MemoryContext
	Goals        []string
	SystemPrompt string
}

// MemoryContext is a stub of the long-term memory shape consumers expect.
type MemoryContext struct {
	UserProfile    UserProfile    `json:"userProfile"`
	SessionContext SessionContext `json:"sessionContext"`
}

type UserProfile struct {
	EmotionalState []string `json:"emotionalState"`
	RiskLevel      int      `json:"riskLevel"`
	Preferences    []string `json:"preferences"`
}

type SessionContext struct {
	ConversationThemes []string `json:"conversationThemes"`
	CurrentTechnique   *string  `json:"currentTechnique"`
}

type Producer interface {
	Publish(ctx context.Context, event SessionEvent) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Publish(ctx context.Context, event SessionEvent) error {
	history, err := json.Marshal(event.History)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	memory, err := json.Marshal(event.Memory)
	if err != nil {
		return fmt.Errorf("marshaling memory: %w", err)
	}
	goals, err := json.Marshal(event.Goals)
	if err != nil {
		return fmt.Errorf("marshaling goals: %w", err)
	}

	fields := map[string]any{
		"event":         EventTherapySessionMessage,
		"session_id":    event.SessionID,
		"user_id":       event.UserID,
		"message":       event.Message,
		"history":       string(history),
		"memory":        string(memory),
		"goals":         string(goals),
		"system_prompt": event.SystemPrompt,
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("publish session event: %w", err)
	}

	p.logger.DebugContext(ctx, "published session event",
		"session_id", event.SessionID, "user_id", event.UserID, "history_len", len(event.History))
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
