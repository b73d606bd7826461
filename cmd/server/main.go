package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/api/routes"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/auth"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/config"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/database"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/events"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/relay"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/repositories/postgres"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/services"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/websocket"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting support chat server")

	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	var redisService *services.RedisService
	if cfg.Redis.Enabled {
		redisClient, err := database.NewRedisConnection(cfg.Redis.URI)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		redisService = services.NewRedisService(redisClient)
	}

	roomRepo := postgres.NewRoomRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	registry := relay.NewRegistry()
	router := relay.NewRouter(registry, roomRepo, messageRepo, publisher)
	resolver := relay.NewResolver(roomRepo)
	verifier := auth.NewVerifier(cfg.JWT.Secret)

	gateway := websocket.NewGateway(registry, router, resolver, verifier, redisService)
	chatService := services.NewChatService(roomRepo, messageRepo)

	apiRouter := routes.NewRouter(gateway, chatService, redisService, verifier, cfg.QR.BaseURL, cfg.Server.AllowedOrigins)
	apiRouter.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      apiRouter.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
