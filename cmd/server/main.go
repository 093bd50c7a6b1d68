package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/database"
	"github.com/hsh-clinic/clinic-backend/internal/handler"
	"github.com/hsh-clinic/clinic-backend/internal/logger"
	"github.com/hsh-clinic/clinic-backend/internal/middleware"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/repository"
	"github.com/hsh-clinic/clinic-backend/internal/router"
	"github.com/hsh-clinic/clinic-backend/internal/scheduler"
	"github.com/hsh-clinic/clinic-backend/internal/service"
	"github.com/hsh-clinic/clinic-backend/internal/validator"
	"github.com/hsh-clinic/clinic-backend/internal/worker"
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
		Str("timezone", cfg.Timezone).
		Msg("Starting clinic backend")

	validator.Setup()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("Unknown timezone")
	}
	domains, err := service.NewDomainMap(cfg.LoginDomains)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid LOGIN_DOMAINS")
	}

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
	txManager := repository.NewTxManager(pool)
	studentRepo := repository.NewStudentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	superAdminRepo := repository.NewSuperAdminRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	transferRepo := repository.NewTransferRepository(pool)
	emergencyRepo := repository.NewEmergencyRepository(pool)
	referenceRepo := repository.NewReferenceRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	statsRepo := repository.NewStatisticsRepository(pool)
	cacheRepo := repository.NewCacheRepository(rdb)
	mailQueue := worker.NewMailQueue(rdb)

	// ─── Session Windows ───────────────────────────────────────────────
	// Restore before serving so windows from the previous process keep
	// their deadlines and orphaned live flags are cleared.
	windows := scheduler.NewSessionWindows(cfg.SuperAdminWindow, cacheRepo, superAdminRepo, log)
	if restored, closed, err := windows.Restore(ctx); err != nil {
		log.Error().Err(err).Msg("Session window restore failed")
	} else {
		log.Info().Int("restored", restored).Int("closed", closed).Msg("Session windows restored")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	auditService := service.NewAuditService(auditRepo, cacheRepo, log)
	authService := service.NewAuthService(cfg, domains, studentRepo, adminRepo, superAdminRepo,
		referenceRepo, cacheRepo, mailQueue, windows, log)
	reservationService := service.NewReservationService(cfg, txManager, reservationRepo, studentRepo, auditService, log)
	transferService := service.NewTransferService(txManager, reservationRepo, transferRepo, studentRepo, referenceRepo, auditService, log)
	studentService := service.NewStudentService(studentRepo, referenceRepo, domains, authService, mailQueue, auditService)
	adminService := service.NewAdminService(adminRepo, superAdminRepo, domains, authService, auditService)
	emergencyService := service.NewEmergencyService(emergencyRepo, referenceRepo, auditService)
	referenceService := service.NewReferenceService(referenceRepo, auditService)
	statsService := service.NewStatisticsService(statsRepo)
	mediaService := service.NewMediaService(cfg)

	if _, err := transferService.Reconcile(ctx); err != nil {
		log.Error().Err(err).Msg("Transfer reconcile failed")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	references := make(map[string]*handler.ReferenceHandler, len(model.ReferenceKinds))
	for _, kind := range model.ReferenceKinds {
		references[kind.Slug] = handler.NewReferenceHandler(referenceService, kind)
	}

	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, mediaService),
		StudentPortal: handler.NewStudentPortalHandler(reservationService, studentService, mediaService),
		StudentMgmt:   handler.NewStudentManagementHandler(studentService),
		Admin:         handler.NewAdminHandler(adminService),
		Audit:         handler.NewAuditHandler(auditService),
		AuditStream:   handler.NewAuditStreamHandler(rdb, log, cfg.AllowedOrigins),
		Reservations:  handler.NewReservationAdminHandler(reservationService, loc),
		Transfers:     handler.NewTransferHandler(transferService),
		Emergency:     handler.NewEmergencyHandler(emergencyService),
		Statistics:    handler.NewStatisticsHandler(statsService, loc),
		References:    references,
		System:        handler.NewSystemHandler(pool, rdb, windows, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	renderer, err := worker.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse mail templates")
	}
	sender, err := worker.NewSMTPSender(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure SMTP")
	}
	mailWorker := worker.NewMailWorker(rdb, renderer, sender, log)
	go func() {
		defer close(workerDone)
		mailWorker.Start(workerCtx)
	}()

	verificationReset := scheduler.NewVerificationReset(studentRepo, loc, log)
	if err := verificationReset.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule verification reset")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	authLimiter := middleware.NewRateLimiter(rdb, "auth", cfg.RateLimitPerMinute, time.Minute, log)
	r := router.SetupRouter(authService, handlers, cfg, authLimiter.Middleware(), log)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

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

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the cron scheduler, then let the mail worker drain its queue.
	verificationReset.Stop(shutdownCtx)
	workerCancel()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Mail worker did not drain in time")
	}

	// 3. In-process window timers die with us; the Redis mirror lets the
	// next process re-arm them.
	windows.Stop()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
