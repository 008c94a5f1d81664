package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/regulus1128/lynkup-chat-app/docs"
	"github.com/regulus1128/lynkup-chat-app/internal/config"
	"github.com/regulus1128/lynkup-chat-app/internal/handlers"
	"github.com/regulus1128/lynkup-chat-app/internal/realtime"
	"github.com/regulus1128/lynkup-chat-app/internal/repositories"
	"github.com/regulus1128/lynkup-chat-app/internal/routes"
	"github.com/regulus1128/lynkup-chat-app/internal/services"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()
	if err := repositories.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	// === Collaborators ===
	authService := services.NewAuthService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	uploader, err := newUploader(cfg.Media)
	if err != nil {
		log.Fatal("Failed to init media uploader: ", err)
	}

	// === Realtime core ===
	hub := realtime.NewHub(groupRepo)

	// === Services ===
	userService := services.NewUserService(userRepo, authService, emailService, uploader)
	groupService := services.NewGroupService(groupRepo, userRepo, messageRepo, uploader, hub)
	messageService := services.NewMessageService(messageRepo, groupRepo, userRepo, uploader, hub)

	dispatcher := realtime.NewDispatcher(hub, messageService)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	messageHandler := handlers.NewMessageHandler(messageService, userService)
	groupHandler := handlers.NewGroupHandler(groupService, messageService)
	wsHandler := handlers.NewWSHandler(hub, dispatcher, cfg.Server.AllowedOrigins)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Locally stored uploads
	if cfg.Media.Provider == "local" {
		router.Static(cfg.Media.BaseURL, cfg.Media.LocalDir)
	}

	routes.SetupRoutes(router, authHandler, messageHandler, groupHandler, wsHandler, authService)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running at %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func newUploader(cfg config.MediaConfig) (services.Uploader, error) {
	if cfg.Provider == "cloudinary" {
		return services.NewCloudinaryUploader(cfg.CloudinaryURL)
	}
	return services.NewLocalUploader(cfg.LocalDir, cfg.BaseURL)
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
