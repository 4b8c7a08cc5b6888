package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/chatloop/chatloop-server/configs"
	"github.com/chatloop/chatloop-server/internal/application/services"
	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/chatloop/chatloop-server/internal/infrastructure/bot"
	"github.com/chatloop/chatloop-server/internal/infrastructure/db"
	"github.com/chatloop/chatloop-server/internal/infrastructure/email"
	"github.com/chatloop/chatloop-server/internal/infrastructure/health"
	"github.com/chatloop/chatloop-server/internal/infrastructure/httpserver"
	"github.com/chatloop/chatloop-server/internal/infrastructure/redis"
	"github.com/chatloop/chatloop-server/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting Chatloop server...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Redis-backed repositories
	tokenRepo := repositories.NewTokenRedisRepository(redisClient, logger)
	rateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)
	redisCache := redis.NewRedisCache(redisClient, "chatloop")

	// Database repositories
	userRepo := repositories.NewUserRepository(database, logger)
	verificationRepo := repositories.NewVerificationRepository(database, logger)
	baseChatRepo := repositories.NewChatRepository(database, logger)

	// Chat reads are the hot path (clients poll); decorate with caching
	chatRepo := repositories.NewCachingChatRepository(baseChatRepo, redisCache, 30*time.Second)

	// Email delivery
	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		AppName:        cfg.Email.AppName,
		BaseURL:        cfg.Email.BaseURL,
	}
	emailService, err := email.NewEmailService(emailConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	// Wire all services with their repository dependencies
	tokenIssuer := services.NewTokenIssuer()
	verificationService := services.NewVerificationService(verificationRepo, tokenIssuer, emailService, logger)
	userService := services.NewUserService(userRepo, verificationService, logger)
	authService := services.NewAuthService(userRepo, tokenRepo, &cfg.JWT, logger)
	chatService := services.NewChatService(chatRepo, bot.NewCannedResponder(logger), logger)

	rateLimiterConfig := &services.RateLimiterConfig{
		DefaultRequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
		BurstMultiplier:          cfg.RateLimit.BurstMultiplier,
		Window:                   cfg.RateLimit.Window,
		KeyPrefix:                cfg.RateLimit.KeyPrefix,
	}
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, rateLimiterConfig, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
	}

	deps := httpserver.ServerDeps{
		UserService:         userService,
		AuthService:         authService,
		VerificationService: verificationService,
		ChatService:         chatService,
		RateLimiterService:  rateLimiterService,
		HealthCheckers:      hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
