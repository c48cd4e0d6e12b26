package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SydAsim/Visaguardai-Upwork/internal/api"
	"github.com/SydAsim/Visaguardai-Upwork/internal/auth"
	"github.com/SydAsim/Visaguardai-Upwork/internal/config"
	"github.com/SydAsim/Visaguardai-Upwork/internal/logger"
	"github.com/SydAsim/Visaguardai-Upwork/internal/monitoring"
	"github.com/SydAsim/Visaguardai-Upwork/internal/services"
	"github.com/SydAsim/Visaguardai-Upwork/internal/storage"
	"github.com/SydAsim/Visaguardai-Upwork/internal/store"
	"github.com/SydAsim/Visaguardai-Upwork/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.AppEnv)

	// Ensure the snapshot directory exists
	if err := os.MkdirAll(cfg.SnapshotDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create snapshot directory")
	}

	// Set up persistence
	db, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	userStore := store.New(db)

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	accountService := services.NewAccountService(userStore)
	eventService := services.NewEventService(db)
	analysisService := services.NewAnalysisService(accountService, eventService, hub)

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	// Set up and run the background snapshotter
	snapshotter, err := monitoring.NewSnapshotter(userStore, cfg.SnapshotDir, cfg.SnapshotCron, cfg.SnapshotKeep)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshotter")
	}
	go snapshotter.Run()

	// Set up router
	router := api.NewRouter(cfg, hub, tokens, accountService, analysisService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	snapshotter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
