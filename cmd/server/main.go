package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"user-auth-backend/internal/config"
	"user-auth-backend/internal/database"
	"user-auth-backend/internal/handler"
	"user-auth-backend/internal/repository"
	"user-auth-backend/internal/service"
	"user-auth-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log.Println("Configuration loaded successfully")

	// Placeholder secrets are refused in release mode
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Build the token codec from the three signing keys
	codec := token.NewCodec(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.ResetSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.JWT.ResetTokenExpiry,
	)

	// 3. Initialize database connection, run migrations and seed accounts
	db := database.Connect(cfg)
	database.Migrate(db)
	database.Seed(db, cfg)

	// 4. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// 5. Initialize services
	emailService := service.NewEmailService(cfg)
	userService := service.NewUserService(userRepo, auditRepo, emailService)
	authService := service.NewAuthService(db, userRepo, tokenRepo, auditRepo, codec, emailService)

	// 6. Setup Gin mode and router
	gin.SetMode(cfg.Server.GinMode)
	r := handler.NewRouter(cfg, codec, authService, userService, emailService)

	// 7. Start the server
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := r.Run(":" + cfg.Server.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	log.Println("Server exited")
}
