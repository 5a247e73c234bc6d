package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openswad/swad-backend/internal/config"
	"github.com/openswad/swad-backend/internal/database"
	"github.com/openswad/swad-backend/internal/handler"
	"github.com/openswad/swad-backend/internal/logger"
	"github.com/openswad/swad-backend/internal/repository"
	"github.com/openswad/swad-backend/internal/router"
	"github.com/openswad/swad-backend/internal/scheduler"
	"github.com/openswad/swad-backend/internal/service"
	"github.com/openswad/swad-backend/internal/validator"
	"github.com/openswad/swad-backend/internal/worker"
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
		Msg("Starting SWAD Backend")

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
	institutionRepo := repository.NewInstitutionRepository(pool)
	centreRepo := repository.NewCentreRepository(pool)
	degreeRepo := repository.NewDegreeRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	groupTypeRepo := repository.NewGroupTypeRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)
	enrollRepo := repository.NewEnrollmentRepository(pool)
	notifRepo := repository.NewNotificationRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo, authService)
	institutionService := service.NewInstitutionService(institutionRepo)
	centreService := service.NewCentreService(centreRepo)
	degreeService := service.NewDegreeService(degreeRepo)
	notificationService := service.NewNotificationService(notifRepo, rdb, log)
	courseService := service.NewCourseService(courseRepo, notificationService)
	groupService := service.NewGroupService(groupTypeRepo, groupRepo, rdb, log)
	enrollmentService := service.NewEnrollmentService(enrollRepo, courseRepo, notificationService, log)
	exportService := service.NewExportService(groupTypeRepo, groupRepo, courseRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, userService),
		Institution:  handler.NewInstitutionHandler(institutionService),
		Centre:       handler.NewCentreHandler(centreService),
		Degree:       handler.NewDegreeHandler(degreeService),
		Course:       handler.NewCourseHandler(courseService),
		Group:        handler.NewGroupHandler(groupService, courseService, exportService),
		Enrollment:   handler.NewEnrollmentHandler(enrollmentService),
		Notification: handler.NewNotificationHandler(notificationService),
		User:         handler.NewUserHandler(userService),
		WS:           handler.NewWSHandler(rdb, notificationService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	notificationWorker := worker.NewNotificationWorker(notifRepo, rdb, log)
	go notificationWorker.Start(workerCtx)

	// ─── Start Scheduled-Group Opener ─────────────────────────────────
	groupOpener := scheduler.NewGroupOpener(groupTypeRepo, cfg.GroupOpenSpec, log)
	if err := groupOpener.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start group opener")
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

	// 2. Stop the scheduler, waiting for a running job to finish.
	groupOpener.Stop()

	// 3. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
