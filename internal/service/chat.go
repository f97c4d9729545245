package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/muski85/ai-therapist-agent22-backend-clean/common/id"
	"github.com/muski85/ai-therapist-agent22-backend-clean/common/llm"
	"github.com/muski85/ai-therapist-agent22-backend-clean/common/logger"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/queue"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/store"
)

// therapySystemPrompt frames every session event for downstream consumers.
const therapySystemPrompt = "You are an AI therapist assistant. Be empathetic, supportive and non-judgmental. Encourage the user to explore their feelings and suggest evidence-based coping techniques where appropriate."

const analysisPromptFmt = `You are a therapeutic AI assistant. Analyze the user's message below and respond ONLY with a JSON object in exactly this shape, no prose and no markdown:
{"emotionalState": "<one or two words>", "themes": ["<theme>", ...], "riskLevel": <integer>, "recommendedApproach": "<approach>", "progressIndicators": ["<indicator>", ...]}

User message: %q`

const replyPromptFmt = `You are a warm, supportive therapist. Respond to the message below with empathy, validate the feeling it expresses, and end with one gentle follow-up question. Keep it short and conversational.

Message: %q`

// MessageResult is what one message submission returns: the reply text, the
// full analysis and its progress projection.
type MessageResult struct {
	Response string
	Analysis model.Analysis
	Progress model.Progress
}

type ChatService interface {
	CreateSession(ctx context.Context, userID int64) (*model.ChatSession, error)
	GetSession(ctx context.Context, sessionID, userID int64) (*model.ChatSession, error)
	ListSessions(ctx context.Context, userID int64) ([]model.ChatSessionSummary, error)
	DeleteSession(ctx context.Context, sessionID, userID int64) error
	GetHistory(ctx context.Context, sessionID, userID int64) ([]model.ChatMessage, error)
	UpdateStatus(ctx context.Context, sessionID, userID int64, status model.SessionStatus) error
	SendMessage(ctx context.Context, sessionID, userID int64, text string) (*MessageResult, error)
}

type chatService struct {
	sessions  store.ChatSessionStore
	llmClient llm.Client
	events    queue.Producer
	now       func() time.Time
}

func NewChatService(sessions store.ChatSessionStore, llmClient llm.Client, events queue.Producer) ChatService {
	return &chatService{
		sessions:  sessions,
		llmClient: llmClient,
		events:    events,
		now:       time.Now,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userID int64) (*model.ChatSession, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	session := &model.ChatSession{
		ID:        id.New(),
		UserID:    userID,
		Status:    model.SessionStatusActive,
		StartTime: s.now(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		slog.ErrorContext(ctx, "failed to create chat session", "error", err, "user_id", userID)
		return nil, fmt.Errorf("creating chat session: %w", err)
	}

	slog.InfoContext(ctx, "chat session created", "session_id", session.ID, "user_id", userID)
	return session, nil
}

func (s *chatService) GetSession(ctx context.Context, sessionID, userID int64) (*model.ChatSession, error) {
	return ownedSession(ctx, s.sessions, sessionID, userID)
}

func (s *chatService) ListSessions(ctx context.Context, userID int64) ([]model.ChatSessionSummary, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	summaries, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing chat sessions: %w", err)
	}
	return summaries, nil
}

func (s *chatService) DeleteSession(ctx context.Context, sessionID, userID int64) error {
	if _, err := ownedSession(ctx, s.sessions, sessionID, userID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("deleting chat session: %w", err)
	}
	slog.InfoContext(ctx, "chat session deleted", "session_id", sessionID, "user_id", userID)
	return nil
}

func (s *chatService) GetHistory(ctx context.Context, sessionID, userID int64) ([]model.ChatMessage, error) {
	session, err := ownedSession(ctx, s.sessions, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return session.Messages, nil
}

func (s *chatService) UpdateStatus(ctx context.Context, sessionID, userID int64, status model.SessionStatus) error {
	if _, err := ownedSession(ctx, s.sessions, sessionID, userID); err != nil {
		return err
	}
	if err := s.sessions.UpdateStatus(ctx, sessionID, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("updating session status: %w", err)
	}
	return nil
}

// SendMessage runs the message pipeline. The user turn is committed before
// any model call, so downstream failures never lose the user's input.
// LLM failures are recovered into fixed fallbacks and never surfaced.
func (s *chatService) SendMessage(ctx context.Context, sessionID, userID int64, text string) (*MessageResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	session, err := ownedSession(ctx, s.sessions, sessionID, userID)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID: logger.Ptr(sessionID),
		UserID:    logger.Ptr(userID),
		Component: "chat",
	})

	userMsg := &model.ChatMessage{
		ID:        id.New(),
		SessionID: session.ID,
		Role:      model.RoleUser,
		Content:   text,
		Timestamp: s.now(),
	}
	if err := s.sessions.AppendMessage(ctx, userMsg); err != nil {
		slog.ErrorContext(ctx, "failed to append user message", "error", err)
		return nil, fmt.Errorf("appending user message: %w", err)
	}

	history := append(session.Messages, *userMsg)

	s.publishEvent(ctx, session, userMsg, history)

	analysis := s.analyzeMessage(ctx, text)
	reply := s.generateReply(ctx, text)

	progress := model.ProgressOf(analysis)
	assistantMsg := &model.ChatMessage{
		ID:        id.New(),
		SessionID: session.ID,
		Role:      model.RoleAssistant,
		Content:   reply,
		Timestamp: s.now(),
		Metadata: &model.MessageMetadata{
			Analysis: analysis,
			Progress: progress,
		},
	}
	if err := s.sessions.AppendMessage(ctx, assistantMsg); err != nil {
		slog.ErrorContext(ctx, "failed to append assistant message", "error", err)
		return nil, fmt.Errorf("appending assistant message: %w", err)
	}

	slog.InfoContext(ctx, "message processed",
		"emotional_state", analysis.EmotionalState,
		"risk_level", analysis.RiskLevel)

	return &MessageResult{
		Response: reply,
		Analysis: analysis,
		Progress: progress,
	}, nil
}

// ownedSession is the single authorization guard for session access: loads
// the session and verifies the caller owns it.
func ownedSession(ctx context.Context, sessions store.ChatSessionStore, sessionID, userID int64) (*model.ChatSession, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	session, err := sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading chat session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

// publishEvent is fire-and-forget: a failed publish is logged and swallowed.
func (s *chatService) publishEvent(ctx context.Context, session *model.ChatSession, msg *model.ChatMessage, history []model.ChatMessage) {
	event := queue.SessionEvent{
		SessionID:    session.ID,
		UserID:       session.UserID,
		Message:      msg.Content,
		History:      history,
		Memory:       queue.MemoryContext{},
		Goals:        []string{},
		SystemPrompt: therapySystemPrompt,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish session event", "error", err)
	}
}

func (s *chatService) analyzeMessage(ctx context.Context, text string) model.Analysis {
	raw, err := s.llmClient.Complete(ctx, fmt.Sprintf(analysisPromptFmt, text))
	if err != nil {
		slog.WarnContext(ctx, "analysis call failed, using fallback", "error", err)
		return FallbackAnalysis()
	}

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &analysis); err != nil {
		slog.WarnContext(ctx, "analysis response not parseable, using fallback",
			"error", err, "raw", logger.Truncate(raw, 200))
		return FallbackAnalysis()
	}
	return analysis
}

func (s *chatService) generateReply(ctx context.Context, text string) string {
	raw, err := s.llmClient.Complete(ctx, fmt.Sprintf(replyPromptFmt, text))
	if err != nil {
		slog.WarnContext(ctx, "reply call failed, using fallback", "error", err)
		return FallbackReply
	}
	reply := strings.TrimSpace(raw)
	if reply == "" {
		slog.WarnContext(ctx, "reply call returned empty text, using fallback")
		return FallbackReply
	}
	return reply
}

// stripCodeFences removes surrounding ``` markup (with or without a language
// tag) so fenced JSON still parses.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], "{[") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
