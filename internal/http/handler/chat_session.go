package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/http/dto"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/http/middleware"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/service"
)

type ChatSessionHandler struct {
	chatService service.ChatService
}

func NewChatSessionHandler(chatService service.ChatService) *ChatSessionHandler {
	return &ChatSessionHandler{chatService: chatService}
}

func (h *ChatSessionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	session, err := h.chatService.CreateSession(ctx, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToChatSessionResponse(session))
}

func (h *ChatSessionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	summaries, err := h.chatService.ListSessions(ctx, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}

	out := make([]dto.ChatSessionSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.ToChatSessionSummaryResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ChatSessionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.chatService.GetSession(ctx, sessionID, user.ID)
	if err != nil {
		respondChatError(c, err, "failed to load session")
		return
	}

	c.JSON(http.StatusOK, dto.ToChatSessionResponse(session))
}

func (h *ChatSessionHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if err := h.chatService.DeleteSession(ctx, sessionID, user.ID); err != nil {
		respondChatError(c, err, "failed to delete session")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ChatSessionHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	messages, err := h.chatService.GetHistory(ctx, sessionID, user.ID)
	if err != nil {
		respondChatError(c, err, "failed to load history")
		return
	}

	c.JSON(http.StatusOK, dto.ToChatMessageResponses(messages))
}

func (h *ChatSessionHandler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.chatService.UpdateStatus(ctx, sessionID, user.ID, model.SessionStatus(req.Status)); err != nil {
		respondChatError(c, err, "failed to update status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *ChatSessionHandler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.chatService.SendMessage(ctx, sessionID, user.ID, req.Message)
	if err != nil {
		respondChatError(c, err, "failed to process message")
		return
	}

	c.JSON(http.StatusOK, dto.SendMessageResponse{
		Response: result.Response,
		Analysis: result.Analysis,
		Progress: result.Progress,
	})
}

func sessionIDParam(c *gin.Context) (int64, bool) {
	sessionID, err := strconv.ParseInt(c.Param("sessionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return 0, false
	}
	return sessionID, true
}

func respondChatError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrEmptyTopic), errors.Is(err, service.ErrNoMessages):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
