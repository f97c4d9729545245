package router

import (
	"github.com/gin-gonic/gin"

	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/http/handler"
)

func ChatRouter(rg *gin.RouterGroup, chat *handler.ChatSessionHandler, topics *handler.TopicHandler) {
	rg.POST("/topic", topics.Generate)

	sessions := rg.Group("/sessions")
	{
		sessions.POST("", chat.Create)
		sessions.GET("", chat.List)
		sessions.GET("/:sessionId", chat.Get)
		sessions.DELETE("/:sessionId", chat.Delete)
		sessions.GET("/:sessionId/history", chat.History)
		sessions.POST("/:sessionId/messages", chat.SendMessage)
		sessions.PUT("/:sessionId/status", chat.UpdateStatus)
		sessions.PUT("/:sessionId/topic", topics.Update)
	}
}
