// @title Course Generator API
// @version 1.0
// @description Generates AI course layouts, chapter videos, notes, mock tests and slides
// @contact.name API Support
// @basePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "coursegen/docs"
	"coursegen/internal/api"
	"coursegen/internal/api/middleware"
	"coursegen/internal/cache"
	"coursegen/internal/client"
	"coursegen/internal/config"
	"coursegen/internal/service"
	"coursegen/internal/store"
	"coursegen/internal/telemetry"
	"coursegen/internal/util"
)

const (
	shutdownTimeout      = 15 * time.Second
	migrateRetryInterval = 30 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	syncLogs, err := util.InitLogging(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer syncLogs()
	logger := util.NewLogger("Main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Init(ctx, cfg)

	if env := cfg.CheckRequired(); !env.OK {
		logger.KeyValue("msg", "missing configuration, dependent endpoints will fail", "missing", env.Missing)
	}

	// Initialize storage
	db, err := store.Open(cfg)
	if err != nil {
		logger.Error("Failed to open database", err)
		os.Exit(1)
	}
	if cfg.DBAutoMigrate {
		// Routes answer 503 while the database is down, so keep serving and migrate once it is back.
		if err := store.AutoMigrate(db); err != nil {
			logger.Warn("Database migration failed, retrying in background", err)
			go func() {
				if err := store.MigrateUntilReady(ctx, db, migrateRetryInterval); err != nil {
					logger.Warn("Database migration abandoned", err)
				}
			}()
		}
	}
	ping := func(ctx context.Context) (time.Duration, error) { return store.Ping(ctx, db) }
	if latency, err := ping(ctx); err != nil {
		logger.Warn("Database health check failed", err)
	} else {
		logger.Info("Database is healthy (%dms)", latency.Milliseconds())
	}

	courses := store.NewCourseRepo(db)
	slides := store.NewSlideRepo(db)
	users := store.NewUserRepo(db)

	// Initialize clients
	youtubeClient, err := client.NewYouTubeClient(ctx, cfg)
	if err != nil {
		logger.Error("Failed to create YouTube client", err)
		os.Exit(1)
	}
	videoCache := cache.NewVideoCache(cfg.VideoCacheTTL, cfg.RedisURL)
	defer videoCache.Close()

	geminiService := service.NewGeminiService(cfg)
	openaiService := service.NewOpenAIService(cfg)

	auth, err := middleware.NewAuthenticator(cfg)
	if err != nil {
		logger.Error("Failed to configure authentication", err)
		os.Exit(1)
	}

	// Setup router
	router := api.Router(cfg, auth, api.Services{
		Course:    service.NewCourseService(geminiService, courses, slides, ping, cfg.LLMRetryDelay),
		Video:     service.NewVideoService(youtubeClient, videoCache),
		Notes:     service.NewNotesService(geminiService),
		MockTest:  service.NewMockTestService(openaiService, courses),
		Slide:     service.NewSlideService(geminiService, courses, slides),
		User:      service.NewUserService(users),
		Dashboard: service.NewDashboardService(courses, slides, users),
		Ping:      ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", err)
			stop()
		}
	}()
	logger.Info("Course generator running on %s", srv.Addr)

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Shutting down course generator...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Tracer shutdown failed", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
