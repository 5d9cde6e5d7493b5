package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/hibiken/asynq"
	_ "github.com/mlacademy/backend/docs"
	"github.com/mlacademy/backend/internal/auth"
	"github.com/mlacademy/backend/internal/config"
	"github.com/mlacademy/backend/internal/handlers"
	"github.com/mlacademy/backend/internal/logger"
	"github.com/mlacademy/backend/internal/middleware"
	"github.com/mlacademy/backend/internal/repositories"
	"github.com/mlacademy/backend/internal/services"
	"github.com/mlacademy/backend/internal/storage"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title ML Academy API
// @version 1.0
// @description API of the ML Academy e-learning platform: course access, lesson progress, admin console
// @termsOfService http://swagger.io/terms/

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin console token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting ML Academy API", zap.String("storage", cfg.Storage.Driver))

	// Open storage, running migrations for MySQL
	store, closeStore, err := storage.Open(context.Background(), cfg, migrationsPath())
	if err != nil {
		logger.Logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	// Reminder queue client, only when Redis is configured
	var tasks services.TaskEnqueuer
	if cfg.Reminder.Enabled {
		client := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		tasks = client
	} else {
		logger.Logger.Warn("REDIS_HOST is not set, reminders are disabled")
	}

	// Daily progress follows the calendar of the configured timezone
	now := func() time.Time { return time.Now().In(cfg.Reminder.Location) }

	// Initialize admin token generator
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AdminTokenExpiry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(store, logger.Logger)
	sessionRepo := repositories.NewSessionRepository(store, logger.Logger)
	activityRepo := repositories.NewActivityRepository(store, logger.Logger)
	settingsRepo := repositories.NewSettingsRepository(store, logger.Logger)
	progressRepo := repositories.NewProgressRepository(store, logger.Logger)
	positionRepo := repositories.NewPositionRepository(store, logger.Logger)
	leadRepo := repositories.NewLeadRepository(store, logger.Logger)

	// Initialize services
	accountService := services.NewAccountService(userRepo, sessionRepo, activityRepo, settingsRepo, tokenGenerator, logger.Logger)
	accessService := services.NewAccessService(progressRepo)
	progressService := services.NewProgressService(progressRepo, positionRepo, settingsRepo, accessService, logger.Logger, now)
	statsService := services.NewStatsService(userRepo, activityRepo, cfg.Stats.LastMonthActiveOffset, now)
	leadService := services.NewLeadService(leadRepo, logger.Logger)
	preferencesService := services.NewPreferencesService(settingsRepo)
	reminderService := services.NewReminderService(tasks, progressService, sessionRepo, logger.Logger, now)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountService, logger.Logger)
	courseHandler := handlers.NewCourseHandler(accessService, accountService, logger.Logger)
	lessonHandler := handlers.NewLessonHandler(progressService, accountService, logger.Logger)
	profileHandler := handlers.NewProfileHandler(progressService, reminderService, accountService, logger.Logger)
	preferencesHandler := handlers.NewPreferencesHandler(preferencesService, logger.Logger)
	publicHandler := handlers.NewPublicHandler(leadService, statsService, logger.Logger)
	adminHandler := handlers.NewAdminHandler(accountService, statsService, leadService, cfg.JWT.AdminTokenExpiry, logger.Logger)

	// Initialize admin middleware
	adminMiddleware := middleware.AdminMiddleware(tokenGenerator)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		// Admin console, authenticated by token rather than by client profile
		adminHandler.RegisterRoutes(r, adminMiddleware)
		publicHandler.RegisterRoutes(r)

		// Everything bound to a client profile
		r.Group(func(r chi.Router) {
			r.Use(middleware.ProfileMiddleware)
			authHandler.RegisterRoutes(r)
			courseHandler.RegisterRoutes(r)
			lessonHandler.RegisterRoutes(r)
			profileHandler.RegisterRoutes(r)
			preferencesHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// migrationsPath finds the migrations folder when running from the repository root or from cmd
func migrationsPath() string {
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		if _, err := os.Stat("../../migrations"); err == nil {
			return "../../migrations"
		}
	}
	return "migrations"
}
