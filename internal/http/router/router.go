package router

import (
	"github.com/gin-gonic/gin"

	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/http/handler"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/http/middleware"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authService := services.Auth()

	v1 := router.Group("/api/v1")
	{
		userHandler := handler.NewUserHandler(services.Users(), authService)
		v1.POST("/users", userHandler.Create)

		authed := v1.Group("", middleware.RequireAuth(authService))
		{
			authed.GET("/users/me", userHandler.Me)

			chatHandler := handler.NewChatSessionHandler(services.Chat())
			topicHandler := handler.NewTopicHandler(services.Topics())
			ChatRouter(authed.Group("/chat"), chatHandler, topicHandler)
		}
	}
}
