package dto

import (
	"time"

	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
)

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type SendMessageResponse struct {
	Response string         `json:"response"`
	Analysis model.Analysis `json:"analysis"`
	Progress model.Progress `json:"progress"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active completed paused"`
}

type UpdateTopicRequest struct {
	Topic string `json:"topic" binding:"required"`
}

type TopicMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type GenerateTopicRequest struct {
	Messages []TopicMessage `json:"messages" binding:"required,dive"`
}

type TopicResponse struct {
	Topic string `json:"topic"`
}

type ChatMessageResponse struct {
	ID        int64                  `json:"id,string"`
	Role      model.MessageRole      `json:"role"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  *model.MessageMetadata `json:"metadata,omitempty"`
}

type ChatSessionResponse struct {
	ID        int64                 `json:"id,string"`
	Topic     *string               `json:"topic,omitempty"`
	Status    model.SessionStatus   `json:"status"`
	StartTime time.Time             `json:"start_time"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Messages  []ChatMessageResponse `json:"messages"`
}

type ChatSessionSummaryResponse struct {
	ID           int64               `json:"id,string"`
	Topic        *string             `json:"topic,omitempty"`
	Status       model.SessionStatus `json:"status"`
	StartTime    time.Time           `json:"start_time"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	MessageCount int64               `json:"message_count"`
}

func ToChatMessageResponse(m model.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Metadata:  m.Metadata,
	}
}

func ToChatMessageResponses(messages []model.ChatMessage) []ChatMessageResponse {
	out := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, ToChatMessageResponse(m))
	}
	return out
}

func ToChatSessionResponse(s *model.ChatSession) *ChatSessionResponse {
	return &ChatSessionResponse{
		ID:        s.ID,
		Topic:     s.Topic,
		Status:    s.Status,
		StartTime: s.StartTime,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  ToChatMessageResponses(s.Messages),
	}
}

func ToChatSessionSummaryResponse(s model.ChatSessionSummary) ChatSessionSummaryResponse {
	return ChatSessionSummaryResponse{
		ID:           s.ID,
		Topic:        s.Topic,
		Status:       s.Status,
		StartTime:    s.StartTime,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		MessageCount: s.MessageCount,
	}
}
