// File: /main.go
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tabor-blooms-api/config"
	"tabor-blooms-api/middleware"
	"tabor-blooms-api/ratelimit"
	"tabor-blooms-api/routes"
	"tabor-blooms-api/services"
	"tabor-blooms-api/storage"

	forumrepo "tabor-blooms-api/repository"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	var logger *zap.Logger
	var err error
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
		logger, err = zap.NewDevelopment()
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize storage
	store, err := storage.NewDocumentStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize document store", zap.Error(err))
	}
	images, err := storage.NewImageStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize image store", zap.Error(err))
	}

	repo := forumrepo.NewForumRepository(store, logger)

	// Rate limiting: per-instance by default, shared via Redis when
	// an address is configured.
	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		limiter = ratelimit.NewRedisLimiter(client, logger)
		logger.Info("using shared redis rate limiter", zap.String("addr", cfg.RedisAddr))
	} else {
		limiter = ratelimit.NewMemoryLimiter()
	}

	emailService := services.NewEmailService(cfg, logger)

	// Create router
	router := gin.New()
	router.MaxMultipartMemory = 12 << 20

	router.Use(routes.SetupCORS())
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.GlobalRateLimit(300, 60))

	// Setup routes
	routes.SetupRoutes(router, cfg, repo, images, limiter, emailService, logger)

	// Start server
	logger.Info("starting Tabor Blooms API server",
		zap.String("port", cfg.Port),
		zap.String("storage_backend", cfg.StorageBackend),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
