package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regulus1128/lynkup-chat-app/internal/handlers"
	"github.com/regulus1128/lynkup-chat-app/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	messageHandler *handlers.MessageHandler,
	groupHandler *handlers.GroupHandler,
	wsHandler *handlers.WSHandler,
	tokenParser middleware.TokenParser,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	// ---- protected
	protected := r.Group("/", middleware.Auth(tokenParser))
	{
		protected.GET("/ws", wsHandler.Connect)

		authed := protected.Group("/api/auth")
		{
			authed.GET("/check", authHandler.Check)
			authed.GET("/profile", authHandler.Profile)
			authed.PUT("/update-profile", authHandler.UpdateProfile)
		}

		messages := protected.Group("/api/messages")
		{
			messages.GET("/users", messageHandler.ListContacts)
			messages.GET("/:id", messageHandler.DirectHistory)
			messages.POST("/send/:id", messageHandler.SendDirect)
		}

		groups := protected.Group("/api/groups")
		{
			groups.POST("/create", groupHandler.Create)
			groups.GET("/groups", groupHandler.List)
			groups.GET("/group/:groupId", groupHandler.GetByID)
			groups.PUT("/edit-group/:groupId", groupHandler.Edit)
			groups.DELETE("/group/:groupId", groupHandler.Delete)
			groups.POST("/:groupId/add", groupHandler.AddMembers)
			groups.POST("/:groupId/leave", groupHandler.Leave)
			groups.GET("/messages/:groupId", groupHandler.Messages)
			groups.POST("/send-group/:groupId", groupHandler.SendMessage)
		}
	}

	return r
}
