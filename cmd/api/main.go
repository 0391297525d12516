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
	"github.com/joho/godotenv"

	v1 "github.com/amuarte/NoteChat/cmd/api/router/v1"
	"github.com/amuarte/NoteChat/internal/config"
	"github.com/amuarte/NoteChat/internal/infrastructure/database"
	psadapter "github.com/amuarte/NoteChat/internal/infrastructure/pubsub/adapter"
	qadapter "github.com/amuarte/NoteChat/internal/infrastructure/queue/adapter"
	"github.com/amuarte/NoteChat/internal/infrastructure/realtime"
	"github.com/amuarte/NoteChat/internal/pkg/room/application/task"
)

func main() {
	// Load .env file before reading config
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found or could not be loaded", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database on startup
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connCtx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.InitSchema(connCtx, pool); err != nil {
		// Tables may already exist with restricted DDL rights; keep serving.
		logger.Warn("schema initialization skipped", "err", err)
	}
	cancel()

	registry := realtime.NewRegistry()
	defer registry.Close()

	var bridge *realtime.Bridge
	if cfg.RedisURL != "" {
		bus, err := psadapter.NewRedisBus(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "err", err)
			os.Exit(1)
		}
		defer bus.Close()

		bridge = realtime.NewBridge(registry, bus, logger)
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("pubsub bridge stopped", "err", err)
			}
		}()
		logger.Info("cross-node fan-out enabled")
	}

	if cfg.RetentionEnabled() {
		qclient, err := qadapter.NewAsynqClient(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to create queue client", "err", err)
			os.Exit(1)
		}
		defer qclient.Close()

		qserver, err := qadapter.NewAsynqServer(cfg.RedisURL, logger)
		if err != nil {
			logger.Error("failed to create queue server", "err", err)
			os.Exit(1)
		}
		task.RegisterPrunePostsTask(qserver, qclient, pool, logger)
		go func() {
			if err := qserver.Run(ctx); err != nil {
				logger.Error("queue server stopped", "err", err)
			}
		}()

		if _, err := task.SchedulePrunePosts(ctx, qclient, cfg.RetentionMaxAge, cfg.RetentionInterval); err != nil {
			logger.Warn("failed to schedule retention sweep", "err", err)
		}
		logger.Info("post retention enabled", "max_age", cfg.RetentionMaxAge, "interval", cfg.RetentionInterval)
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, pool, registry, bridge, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		logger.Info("http server listening", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "err", err)
	}
}
