package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"threadline/internal/cache"
	"threadline/internal/config"
	"threadline/internal/events"
	"threadline/internal/handler"
	"threadline/internal/middleware"
	"threadline/internal/repository"
	"threadline/internal/services"
	"threadline/internal/ws"
	"threadline/pkg/database"
	"threadline/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	mode := logger.DevelopmentMode
	if cfg.Server.Environment == "production" {
		mode = logger.ProductionMode
		gin.SetMode(gin.ReleaseMode)
	}
	l := logger.New(mode)
	defer func() { _ = l.Sync() }()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	threadRepo := repository.NewThreadRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	chatRepo := repository.NewChatRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	graph := repository.NewSocialGraphRepository(db)

	counts := cache.NewCountCache(redisClient)
	bus := events.NewRedisBus(redisClient, l)

	threadService := services.NewThreadService(threadRepo, replyRepo, graph, l)
	interactionService := services.NewInteractionService(interactionRepo, threadRepo, replyRepo, counts, l)
	chatService := services.NewChatService(chatRepo, participantRepo, messageRepo, bus, l)

	hub := ws.NewHub(participantRepo, l)
	go hub.Run(ctx)
	if err := bus.Subscribe(ctx, hub.HandleEvent); err != nil {
		l.Errorf("event subscription failed: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(l))
	r.Use(middleware.ErrorHandler(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

	handler.NewThreadHandler(threadService, graph, cfg.Pagination).RegisterRoutes(api)
	handler.NewInteractionHandler(interactionService, cfg.Pagination).RegisterRoutes(api)
	handler.NewChatHandler(chatService, cfg.Pagination).RegisterRoutes(api)
	api.GET("/ws", ws.NewHandler(hub, l).Serve)

	l.Infof("starting server on port %s", cfg.Server.Port)
	if err := r.Run(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
