package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/epokowo/epokowo-service/internal/cache"
	"github.com/epokowo/epokowo-service/internal/config"
	"github.com/epokowo/epokowo-service/internal/events"
	"github.com/epokowo/epokowo-service/internal/handlers"
	"github.com/epokowo/epokowo-service/internal/realtime"
	"github.com/epokowo/epokowo-service/internal/repositories/postgres"
	"github.com/epokowo/epokowo-service/internal/services"
	"github.com/epokowo/epokowo-service/internal/validator"
	"github.com/epokowo/epokowo-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	eventPublisher, err := config.LoadEventConfig().CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher, falling back to mock", "error", err)
		eventPublisher = events.NewMockEventPublisher(logger)
	}
	defer func() {
		if err := eventPublisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	repo := postgres.NewRepository(db)
	serviceManager := services.NewServiceManager(services.ManagerConfig{
		Repo:           repo,
		Cache:          cache.NewRedisCache(redisClient, logger),
		Hub:            realtime.NewHub(redisClient, logger),
		Publisher:      eventPublisher,
		Logger:         logger,
		Validator:      validator.New(),
		LessonCacheTTL: cfg.LessonCacheTTL,
		QuizSessionTTL: cfg.QuizSessionTTL,
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handlerManager := handlers.NewHandlerManager(serviceManager, handlers.NewAuthClient(cfg), logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
