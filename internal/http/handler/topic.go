package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/http/dto"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/http/middleware"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/service"
)

type TopicHandler struct {
	topicService service.TopicService
}

func NewTopicHandler(topicService service.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

func (h *TopicHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	var req dto.GenerateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messages := make([]model.ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, model.ChatMessage{
			Role:    model.MessageRole(m.Role),
			Content: m.Content,
		})
	}

	topic, err := h.topicService.GenerateTopic(ctx, user.ID, messages)
	if err != nil {
		respondChatError(c, err, "failed to generate topic")
		return
	}

	c.JSON(http.StatusOK, dto.TopicResponse{Topic: topic})
}

func (h *TopicHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topic, err := h.topicService.UpdateSessionTopic(ctx, sessionID, user.ID, req.Topic)
	if err != nil {
		respondChatError(c, err, "failed to update topic")
		return
	}

	c.JSON(http.StatusOK, dto.TopicResponse{Topic: topic})
}
