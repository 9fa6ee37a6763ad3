package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brightpath/quizhall-backend/internal/cache"
	"github.com/brightpath/quizhall-backend/internal/config"
	"github.com/brightpath/quizhall-backend/internal/database"
	"github.com/brightpath/quizhall-backend/internal/engine"
	"github.com/brightpath/quizhall-backend/internal/handler"
	"github.com/brightpath/quizhall-backend/internal/logger"
	"github.com/brightpath/quizhall-backend/internal/repository"
	"github.com/brightpath/quizhall-backend/internal/router"
	"github.com/brightpath/quizhall-backend/internal/service"
	"github.com/brightpath/quizhall-backend/internal/validator"
	"github.com/brightpath/quizhall-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting QuizHall Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	notifRepo := repository.NewNotificationRepository(pool)
	subRepo := repository.NewSubscriptionRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	store := cache.New(rdb, log)
	registry := engine.NewRegistry()

	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo, authService)
	quizService := service.NewQuizService(quizRepo, store, cfg, log)
	subscriptionService := service.NewSubscriptionService(subRepo)
	sessionService := service.NewSessionService(registry, subscriptionService, quizService, store, rdb, log)
	resultService := service.NewResultService(resultRepo, store, cfg)
	leaderboardService := service.NewLeaderboardService(userRepo, rdb, log)
	notificationService := service.NewNotificationService(notifRepo, store, rdb, cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, userService),
		Quiz:          handler.NewQuizHandler(quizService, resultService),
		StudentPortal: handler.NewStudentPortalHandler(quizService, sessionService, resultService),
		Leaderboard:   handler.NewLeaderboardHandler(leaderboardService),
		Notification:  handler.NewNotificationHandler(notificationService),
		Subscription:  handler.NewSubscriptionHandler(subscriptionService),
		WS:            handler.NewWSHandler(sessionService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	resultWorker := worker.NewResultWorker(pool, rdb, log)
	violationWorker := worker.NewViolationWorker(pool, rdb, log)

	go resultWorker.Start(workerCtx)
	go violationWorker.Start(workerCtx)

	// ─── Rebuild Leaderboard ──────────────────────────────────────────
	// Redis is treated as a derived view; re-derive the XP ranking from
	// PostgreSQL before accepting traffic.
	if err := leaderboardService.Rebuild(ctx); err != nil {
		log.Warn().Err(err).Msg("Leaderboard rebuild failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
