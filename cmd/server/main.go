package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/handlers"
	"github.com/pushp314/devconnect-chat/internal/middleware"
	"github.com/pushp314/devconnect-chat/internal/migrations"
	"github.com/pushp314/devconnect-chat/internal/routes"
	"github.com/pushp314/devconnect-chat/internal/storage"
	"github.com/pushp314/devconnect-chat/pkg/logger"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Environment)
	logger.Info().Str("environment", cfg.Environment).Msg("Starting chat backend...")

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Connect Database
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	database.InitRedis(cfg.RedisAddr, cfg.RedisPassword)

	logger.Info().Msg("Running database migrations")
	if err := database.Migrate(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate tables")
	}
	if err := migrations.Run(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply schema migrations")
	}

	// 2. Event bus, optionally fanned out across instances through Redis
	events.InitMetrics()
	middleware.InitMetrics()

	bus := events.NewBus(events.Options{BufferSize: cfg.EventBufferSize})
	handlers.Bus = bus

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.EventRelayEnabled && database.Redis != nil {
		relay := events.NewRelay(database.Redis, cfg.EventRelayChannel)
		bus.AttachRelay(relay)
		go relay.Run(ctx, bus)
		logger.Info().Str("channel", cfg.EventRelayChannel).Msg("Event relay enabled")
	}

	// 3. Upload storage
	store, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize upload storage")
	}
	handlers.Uploads = store

	// 4. Router
	socketServer := handlers.InitSocketServer(bus)
	defer socketServer.Close()

	opts := routes.Options{Bus: bus, SocketServer: socketServer}
	if cfg.UploadDriver == "local" {
		opts.UploadDir = cfg.UploadDir
		opts.UploadPath = cfg.UploadPublicPath
	}
	r := routes.NewRouter(opts)

	// 5. Start Server with graceful shutdown
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", cfg.Environment).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Close subscriptions after the listeners are gone so pumps exit cleanly.
	stop()
	bus.Close()

	logger.Info().Msg("Server exited gracefully")
}
