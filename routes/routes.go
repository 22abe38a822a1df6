// File: /routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tabor-blooms-api/config"
	"tabor-blooms-api/controllers"
	"tabor-blooms-api/middleware"
	"tabor-blooms-api/ratelimit"
	"tabor-blooms-api/repository"
	"tabor-blooms-api/services"
	"tabor-blooms-api/storage"
)

// Write-endpoint quotas from the public contract.
const (
	postLimit     = 1
	postWindow    = time.Minute
	commentLimit  = 5
	commentWindow = time.Minute
)

func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, cfg *config.Config, repo *repository.ForumRepository, images storage.ImageStore, limiter ratelimit.Limiter, emailService *services.EmailService, logger *zap.Logger) {
	moderation := services.NewModerationService(repo, logger)

	// Controllers
	postController := controllers.NewPostController(repo, images, emailService, logger)
	commentController := controllers.NewCommentController(repo, logger)
	adminController := controllers.NewAdminController(repo, moderation, cfg.AdminPassword, cfg.JWTSecret, logger)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Local image uploads are served straight from disk; the minio
	// backend hands out absolute object URLs instead.
	if local, ok := images.(*storage.LocalImageStore); ok {
		r.Static("/uploads", local.UploadsDir())
	}

	// Public forum routes
	posts := r.Group("/posts")
	{
		posts.GET("", postController.GetPosts)
		posts.POST("",
			middleware.ActionRateLimit(limiter, "post", postLimit, postWindow,
				"Too many posts. Please wait a minute and try again."),
			postController.CreatePost)
		posts.GET("/:id", postController.GetPost)
		posts.GET("/:id/comments", commentController.GetComments)
		posts.POST("/:id/comments",
			middleware.ActionRateLimit(limiter, "comment", commentLimit, commentWindow,
				"Too many comments. Please wait a minute and try again."),
			commentController.CreateComment)
	}

	// Moderation routes
	r.POST("/admin/login", adminController.Login)
	r.POST("/admin/logout", adminController.Logout)

	protected := r.Group("/")
	protected.Use(middleware.AdminAuth(cfg.JWTSecret))
	{
		protected.DELETE("/posts/:id", adminController.DeletePost)
		protected.DELETE("/comments/:id", adminController.DeleteComment)
		protected.GET("/admin/stats", adminController.GetStats)
		protected.GET("/admin/posts", adminController.GetPosts)
	}
}
