package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"io.winapps.therapyjournal/internal/bot"
	"io.winapps.therapyjournal/internal/config"
	"io.winapps.therapyjournal/internal/db"
	"io.winapps.therapyjournal/internal/handlers"
	"io.winapps.therapyjournal/internal/middleware"
	"io.winapps.therapyjournal/internal/store"
	"io.winapps.therapyjournal/internal/voice"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	startedAt := time.Now()

	// Create upload directories
	for _, dir := range []string{cfg.UploadsDir, filepath.Join(cfg.UploadsDir, "images")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatalw("failed to create uploads dir", "dir", dir, "error", err)
		}
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatalw("invalid JOURNAL_TIMEZONE", "timezone", cfg.Timezone, "error", err)
	}

	// Initialize PostgreSQL
	pool, err := db.InitPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("failed to initialize PostgreSQL", "error", err)
	}

	st, err := store.NewPostgres(context.Background(), pool)
	if err != nil {
		logger.Fatalw("failed to initialize store", "error", err)
	}
	defer st.Close()

	// Initialize Redis
	redisClient, err := db.InitRedis(cfg.RedisHost, cfg.RedisPort, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		logger.Fatalw("failed to initialize Redis", "error", err)
	}
	defer redisClient.Close()

	// Initialize Telegram bot and the voice pipeline
	botClient, err := bot.NewClient(cfg.TelegramToken)
	if err != nil {
		logger.Fatalw("failed to initialize Telegram bot", "error", err)
	}

	ai := voice.NewOpenAI(cfg.OpenAIKey)
	pipeline := voice.NewPipeline(
		botClient,
		bot.NewFileDownloader(nil),
		ai,
		ai,
		st,
		logger,
		cfg.UploadsDir,
		cfg.MiniAppURL,
		loc,
	)
	dispatcher := bot.NewDispatcher(botClient, pipeline, st, cfg.MiniAppURL, logger)

	// Initialize gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// CORS for the mini app
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	journalHandler := handlers.NewJournalHandler(st, redisClient, logger, cfg.UploadsDir)
	botHandler := handlers.NewBotHandler(st, logger)
	webhookHandler := handlers.NewWebhookHandler(dispatcher, logger)

	// Define routes
	api := router.Group("/api")
	{
		journal := api.Group("/journal")
		{
			journal.GET("/entries/:userId", journalHandler.ListEntries)
			journal.GET("/entry/:id", journalHandler.GetEntry)
			journal.POST("/entry", journalHandler.CreateEntry)
			journal.PUT("/entry/:id", journalHandler.UpdateEntry)
			journal.DELETE("/entry/:id", journalHandler.DeleteEntry)
			journal.POST("/entry/:id/images", journalHandler.UploadImages)
			journal.DELETE("/image/:imageId", journalHandler.RemoveImage)
			journal.GET("/tags/:userId", journalHandler.GetTags)
		}

		botAPI := api.Group("/bot")
		{
			botAPI.POST("/user", botHandler.UpsertUser)
			botAPI.GET("/user/:userId", botHandler.GetUser)
			botAPI.GET("/stats/:userId", botHandler.GetStats)
		}

		api.GET("/health", healthHandler(startedAt))
	}

	router.POST("/webhook", webhookHandler.HandleUpdate)
	router.GET("/", healthHandler(startedAt))

	// Serve uploaded images
	router.Static("/uploads", cfg.UploadsDir)

	// Telegram delivery: webhook in production, long polling otherwise
	if cfg.WebhookURL != "" {
		if err := botClient.SetWebhook(cfg.WebhookURL + "/webhook"); err != nil {
			logger.Fatalw("failed to set Telegram webhook", "error", err)
		}
		logger.Infow("Telegram webhook registered", "url", cfg.WebhookURL+"/webhook")
	} else {
		go func() {
			logger.Info("Telegram long polling started")
			for update := range botClient.Updates() {
				dispatcher.HandleUpdate(context.Background(), update)
			}
		}()
	}

	// Sweep stale temp audio files hourly
	cronManager := cron.New()
	cronManager.AddFunc("@hourly", func() {
		voice.SweepTempFiles(cfg.UploadsDir, 24*time.Hour, logger)
	})
	cronManager.Start()
	defer cronManager.Stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infow("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Give a 5 second timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// healthHandler reports liveness and uptime.
func healthHandler(startedAt time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(startedAt).Seconds(),
		})
	}
}
