package routes

import (
	"github.com/gin-gonic/gin"

	"secularai/internal/handlers"
	"secularai/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	queryHandler *handlers.QueryHandler,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/resend-verification", authHandler.ResendVerification)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}
	r.POST("/query", queryHandler.Query)

	// ---- protected
	authed := r.Group("/", middleware.AuthMiddleware())
	{
		authed.GET("/auth/me", authHandler.Me)

		chat := authed.Group("/chat")
		{
			chat.POST("/sessions", chatHandler.CreateSession)
			chat.GET("/sessions/:scripture_id", chatHandler.ListSessions)
			chat.GET("/messages/:session_id", chatHandler.ListMessages)
			chat.GET("/messages/:session_id/export", chatHandler.ExportTranscript)
			chat.DELETE("/sessions/:session_id", chatHandler.DeleteSession)
		}
	}

	return r
}
