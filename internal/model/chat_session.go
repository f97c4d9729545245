package model

import "time"

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusPaused    SessionStatus = "paused"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatSession is a persisted, owned conversation. Ownership is immutable for
// the session's lifetime; the message list is append-only.
type ChatSession struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Topic     *string       `json:"topic,omitempty"`
	Status    SessionStatus `json:"status"`
	StartTime time.Time     `json:"start_time"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Messages  []ChatMessage `json:"messages"`
}

type ChatMessage struct {
	ID        int64            `json:"id"`
	SessionID int64            `json:"session_id"`
	Role      MessageRole      `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// MessageMetadata is attached to assistant messages only.
type MessageMetadata struct {
	Analysis Analysis `json:"analysis"`
	Progress Progress `json:"progress"`
}

// Analysis is the structured per-message assessment produced by the
// generation provider (or the deterministic fallback).
type Analysis struct {
	EmotionalState      string   `json:"emotionalState"`
	Themes              []string `json:"themes"`
	RiskLevel           int      `json:"riskLevel"`
	RecommendedApproach string   `json:"recommendedApproach"`
	ProgressIndicators  []string `json:"progressIndicators"`
}

// Progress is the lightweight projection of Analysis surfaced as a summary.
type Progress struct {
	EmotionalState string `json:"emotionalState"`
	RiskLevel      int    `json:"riskLevel"`
}

// ProgressOf derives the progress projection from an analysis.
func ProgressOf(a Analysis) Progress {
	return Progress{
		EmotionalState: a.EmotionalState,
		RiskLevel:      a.RiskLevel,
	}
}

// ChatSessionSummary is the listing shape: identity, topic, lifecycle and
// message count, without the message bodies.
type ChatSessionSummary struct {
	ID           int64         `json:"id"`
	Topic        *string       `json:"topic,omitempty"`
	Status       SessionStatus `json:"status"`
	StartTime    time.Time     `json:"start_time"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	MessageCount int64         `json:"message_count"`
}
