package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"secularai/internal/config"
	"secularai/internal/handlers"
	"secularai/internal/middleware"
	"secularai/internal/migrations"
	"secularai/internal/pdf"
	"secularai/internal/repositories"
	"secularai/internal/routes"
	"secularai/internal/services"
	"secularai/internal/utils"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "secularai/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to DB: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close DB: %v", err)
		}
	}()

	if err := runMigrations(db); err != nil {
		log.Fatal("Migration error: ", err)
	}

	middleware.JWTKey = []byte(cfg.Auth.JWTSecret)

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	pendingRepo := repositories.NewPendingUserRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	chatRepo := repositories.NewChatRepository(db)

	// === External capabilities ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	mistral := utils.NewMistralClient(cfg.Mistral.APIKey, cfg.Mistral.ChatModel, cfg.Mistral.EmbedModel)
	pinecone := utils.NewPineconeClient(cfg.Pinecone.APIKey, cfg.Pinecone.IndexHost)
	searcher := utils.NewVectorSearcher(mistral, pinecone)

	// === Services ===
	authService := services.NewAuthService(userRepo, pendingRepo, resetRepo, emailService)
	chatService := services.NewChatService(chatRepo, pdf.NewTranscriptExporter())
	responder := services.NewResponderService(chatRepo, searcher, mistral)

	// === Handlers ===
	tokenTTL := time.Duration(cfg.Auth.TokenTTLMins) * time.Minute
	authHandler := handlers.NewAuthHandler(authService, tokenTTL)
	chatHandler := handlers.NewChatHandler(chatService, authService)
	queryHandler := handlers.NewQueryHandler(chatService, responder)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, authHandler, chatHandler, queryHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server error: ", err)
	}
}

func runMigrations(db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	goose.SetBaseFS(migrations.Migrations)
	return goose.Up(db, ".")
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
