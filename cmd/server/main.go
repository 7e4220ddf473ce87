package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emirozbir/alert-receiver/internal/api"
	"github.com/emirozbir/alert-receiver/internal/config"
	"github.com/emirozbir/alert-receiver/internal/database"
	"github.com/emirozbir/alert-receiver/internal/logging"
	"github.com/emirozbir/alert-receiver/internal/processor"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting alert receiver",
		zap.String("version", version),
		zap.String("address", cfg.Addr()),
		zap.Int("history_capacity", cfg.History.Capacity),
		zap.String("database", cfg.Database.Path),
	)

	playbooks, err := processor.LoadPlaybooks(cfg.Playbooks.Path)
	if err != nil {
		logger.Fatal("Failed to load playbooks", zap.Error(err))
	}
	logger.Info("Playbooks loaded", zap.Int("count", len(playbooks)))

	opts := processor.Options{
		Capacity:     cfg.History.Capacity,
		RecentCount:  cfg.History.RecentCount,
		DefaultLimit: cfg.History.DefaultLimit,
		Playbooks:    playbooks,
	}

	// Initialize database
	var db *database.DB
	if cfg.Database.Path != "" {
		db, err = database.New(cfg.Database.Path)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer db.Close()
		opts.Store = db
		logger.Info("Database initialized", zap.String("path", cfg.Database.Path))
	} else {
		logger.Warn("No database path configured, alert history is kept in memory only")
	}

	proc := processor.New(opts, logger)
	if db != nil {
		if _, err := proc.Restore(context.Background(), db); err != nil {
			logger.Error("Failed to restore alert history, starting empty", zap.Error(err))
		}
	}

	// Setup HTTP server
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	routerOpts := api.RouterOptions{}
	if cfg.Metrics.Enabled {
		routerOpts.MetricsPath = cfg.Metrics.Path
	}
	router := api.SetupRoutes(api.NewHandler(proc, logger), logger, routerOpts)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
