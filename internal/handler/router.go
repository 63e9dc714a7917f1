package handler

import (
	"user-auth-backend/internal/config"
	"user-auth-backend/internal/middleware"
	"user-auth-backend/internal/models"
	"user-auth-backend/internal/service"
	"user-auth-backend/pkg/token"
	"user-auth-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP surface under /api/v1
func NewRouter(cfg *config.Config, codec *token.Codec, authService *service.AuthService, userService *service.UserService, emailService *service.EmailService) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(cfg))

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	utilsHandler := NewUtilsHandler(emailService)
	authRequired := middleware.Auth(codec, userService)

	api := r.Group("/api/v1")

	// Health check endpoint
	api.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": cfg.Project.Name,
		})
	})

	// Token lifecycle and password recovery (public)
	api.POST("/login", authHandler.Login)
	api.POST("/refresh", authHandler.Refresh)
	api.POST("/logout", authHandler.Logout)
	api.POST("/password-recovery/:email", authHandler.RecoverPassword)
	api.POST("/reset-password", authHandler.ResetPassword)

	// SMTP verification for operators
	utilsGroup := api.Group("/utils")
	utilsGroup.Use(authRequired, middleware.RequireGroups(models.GroupAdmin))
	{
		utilsGroup.POST("/test-email/:email", utilsHandler.SendTestEmail)
	}

	// Account management
	users := api.Group("/users")
	{
		users.POST("/signup", userHandler.Register)

		me := users.Group("")
		me.Use(authRequired, middleware.RequireGroups(models.GroupAdmin, models.GroupUser))
		{
			me.GET("/me", userHandler.GetMe)
			me.PATCH("/me", userHandler.UpdateMe)
			me.PATCH("/me/password", userHandler.UpdatePasswordMe)
			me.DELETE("/me", userHandler.DeleteMe)
		}

		admin := users.Group("")
		admin.Use(authRequired, middleware.RequireGroups(models.GroupAdmin))
		{
			admin.GET("", userHandler.List)
			admin.POST("", userHandler.Create)
			admin.GET("/:id", userHandler.GetByID)
			admin.PATCH("/:id", userHandler.UpdateByID)
			admin.DELETE("/:id", userHandler.DeleteByID)
		}
	}

	return r
}
