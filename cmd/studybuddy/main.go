package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AaravSuri1/StudyBuddy/internal/admin"
	"github.com/AaravSuri1/StudyBuddy/internal/bot"
	"github.com/AaravSuri1/StudyBuddy/internal/completion"
	"github.com/AaravSuri1/StudyBuddy/internal/config"
	"github.com/AaravSuri1/StudyBuddy/internal/db"
	"github.com/AaravSuri1/StudyBuddy/internal/logger"
	"github.com/AaravSuri1/StudyBuddy/internal/quota"
	"github.com/AaravSuri1/StudyBuddy/internal/scheduler"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, warning, err := config.LoadConfig("config.yaml")
	if err != nil {
		// Use a temporary logger for startup errors
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(cfg.Debug)
	log.Info("Logger initialized", "debug_mode", cfg.Debug)
	if warning != "" {
		log.Warn(warning)
	}

	// Initialize database
	store, err := db.NewService(cfg.Database)
	if err != nil {
		log.Error("Error initializing database", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("Database initialized", "type", cfg.Database.Type)

	// Start the daily report scheduler
	sched := scheduler.NewScheduler(store, log)
	if err := sched.Start(); err != nil {
		log.Error("Error starting scheduler", "error", err)
		os.Exit(1)
	}
	log.Info("Scheduler started")

	// Pick the completion backend
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var completer completion.Completer
	switch cfg.Completion.Provider {
	case "gemini":
		gemini, err := completion.NewGeminiClient(ctx, cfg.Completion.APIKey)
		if err != nil {
			log.Error("Error creating Gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		completer = gemini
	default:
		completer = completion.NewOpenAIClient(cfg.Completion.APIKey, cfg.Completion.BaseURL)
	}
	log.Info("Completion backend ready", "provider", cfg.Completion.Provider, "model", cfg.Completion.Model)

	// Create the Telegram transport and the request router
	telegram, err := bot.NewBot(cfg.Telegram.Token, cfg.Debug, log)
	if err != nil {
		log.Error("Error creating Telegram bot", "error", err)
		os.Exit(1)
	}
	policy := quota.NewPolicy(cfg.Quota.FreeDailyLimit)
	handler := bot.NewHandler(store, policy, completer, telegram, telegram, cfg, log)

	// Optionally start the admin HTTP server
	var adminServer *http.Server
	if cfg.Admin.ListenAddr != "" {
		if !cfg.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.New()
		router.Use(gin.Recovery())
		admin.SetupRoutes(router, store, cfg)

		adminServer = &http.Server{
			Addr:    cfg.Admin.ListenAddr,
			Handler: router,
		}
		go func() {
			log.Info("Starting admin server", "addr", cfg.Admin.ListenAddr)
			if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Admin server failed", "error", err)
				os.Exit(1)
			}
		}()
	}

	// Run the update loop until interrupted
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down...")
		cancel()
	}()

	log.Info("StudyBuddy is running", "bot", telegram.Username())
	telegram.Run(ctx, handler)

	// Stop background tasks once the update loop has drained
	sched.Stop()
	if adminServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Admin server forced to shutdown", "error", err)
		}
	}

	log.Info("StudyBuddy exiting")
}
