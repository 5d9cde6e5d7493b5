package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/mlacademy/backend/internal/config"
	"github.com/mlacademy/backend/internal/logger"
	"github.com/mlacademy/backend/internal/repositories"
	"github.com/mlacademy/backend/internal/services"
	"github.com/mlacademy/backend/internal/storage"
	"github.com/mlacademy/backend/internal/worker"
	"go.uber.org/zap"
)

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

	if !cfg.Reminder.Enabled {
		logger.Logger.Fatal("REDIS_HOST is required to run the reminder worker")
	}

	logger.Logger.Info("Starting ML Academy Reminder Worker")

	// The sweep reads sessions and progress from the same storage as the API
	store, closeStore, err := storage.Open(context.Background(), cfg, migrationsPath())
	if err != nil {
		logger.Logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	client := asynq.NewClient(redisOpt)
	defer client.Close()

	now := func() time.Time { return time.Now().In(cfg.Reminder.Location) }

	// Initialize repositories
	sessionRepo := repositories.NewSessionRepository(store, logger.Logger)
	settingsRepo := repositories.NewSettingsRepository(store, logger.Logger)
	progressRepo := repositories.NewProgressRepository(store, logger.Logger)
	positionRepo := repositories.NewPositionRepository(store, logger.Logger)

	// Initialize services
	accessService := services.NewAccessService(progressRepo)
	progressService := services.NewProgressService(progressRepo, positionRepo, settingsRepo, accessService, logger.Logger, now)
	reminderService := services.NewReminderService(client, progressService, sessionRepo, logger.Logger, now)

	// Create Asynq server
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				services.ReminderQueue: 5,
				"default":              1,
			},
		},
	)

	// Register task handlers
	mailer := worker.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	mux := asynq.NewServeMux()
	worker.NewHandler(mailer, logger.Logger).Register(mux)

	// Schedule the missed lesson sweep
	scheduler, err := worker.NewScheduler(cfg.Reminder.Cron, cfg.Reminder.Location, reminderService, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to create scheduler", zap.Error(err))
	}

	// Start worker; signals are handled below so the scheduler stops first
	if err := srv.Start(mux); err != nil {
		logger.Logger.Fatal("Failed to start worker", zap.Error(err))
	}

	scheduler.Start()
	logger.Logger.Info("Worker started", zap.String("cron", cfg.Reminder.Cron), zap.Time("next_sweep", scheduler.Next()))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down worker...")
	scheduler.Stop()
	srv.Shutdown()
	logger.Logger.Info("Worker exited")
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
