package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/muski85/ai-therapist-agent22-backend-clean/common/llm"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/store"
)

const topicPromptFmt = `Based on the conversation below, generate a short, empathetic topic label of 3 to 4 words. You may prefix it with a single fitting emoji. Respond with the label only, no quotes and no explanation.

Conversation:
%s`

// maxTopicLen bounds generated labels in characters; anything longer
// from the model is treated as a bad answer rather than truncated.
const maxTopicLen = 50

// maxStoredTopicLen caps client-supplied topics, also in characters.
const maxStoredTopicLen = 100

type TopicService interface {
	GenerateTopic(ctx context.Context, userID int64, messages []model.ChatMessage) (string, error)
	UpdateSessionTopic(ctx context.Context, sessionID, userID int64, topic string) (string, error)
}

type topicService struct {
	sessions  store.ChatSessionStore
	llmClient llm.Client
}

func NewTopicService(sessions store.ChatSessionStore, llmClient llm.Client) TopicService {
	return &topicService{sessions: sessions, llmClient: llmClient}
}

// GenerateTopic asks the model for a concise label for the conversation and
// falls back to keyword-derived labels when the model call fails or misbehaves.
func (s *topicService) GenerateTopic(ctx context.Context, userID int64, messages []model.ChatMessage) (string, error) {
	if userID == 0 {
		return "", ErrUnauthenticated
	}
	if len(messages) == 0 {
		return "", ErrNoMessages
	}

	raw, err := s.llmClient.Complete(ctx, fmt.Sprintf(topicPromptFmt, transcript(messages)))
	if err != nil {
		slog.WarnContext(ctx, "topic call failed, using fallback", "error", err)
		return FallbackTopic(messages), nil
	}

	topic := strings.TrimSpace(raw)
	topic = strings.Trim(topic, `"'`)
	topic = strings.TrimSpace(topic)
	if topic == "" || utf8.RuneCountInString(topic) > maxTopicLen {
		slog.WarnContext(ctx, "topic response unusable, using fallback", "length", utf8.RuneCountInString(topic))
		return FallbackTopic(messages), nil
	}
	return topic, nil
}

func (s *topicService) UpdateSessionTopic(ctx context.Context, sessionID, userID int64, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrEmptyTopic
	}
	if _, err := ownedSession(ctx, s.sessions, sessionID, userID); err != nil {
		return "", err
	}

	topic = truncateRunes(topic, maxStoredTopicLen)

	if err := s.sessions.UpdateTopic(ctx, sessionID, topic); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("updating session topic: %w", err)
	}

	slog.InfoContext(ctx, "session topic updated", "session_id", sessionID, "user_id", userID)
	return topic, nil
}

func transcript(messages []model.ChatMessage) string {
	var b strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, truncateRunes(m.Content, 200))
	}
	return b.String()
}

// truncateRunes caps s at n characters, never splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
