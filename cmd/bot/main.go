package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/unischedule_bot/internal/apiclient"
	"github.com/Freeeeeet/unischedule_bot/internal/app"
	"github.com/Freeeeeet/unischedule_bot/internal/config"
	"github.com/Freeeeeet/unischedule_bot/internal/controller"
	"github.com/Freeeeeet/unischedule_bot/internal/controller/navigation"
	"github.com/Freeeeeet/unischedule_bot/internal/controller/state"
	"github.com/Freeeeeet/unischedule_bot/internal/repository"
	"github.com/Freeeeeet/unischedule_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogFile)
	defer logger.Sync()

	logger.Sugar().Infow("Starting schedule bot",
		"environment", cfg.Environment,
		"api", cfg.APIBaseURL,
		"token_length", len(cfg.TelegramToken))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	api, err := apiclient.New(apiclient.Config{
		BaseURL:    cfg.APIBaseURL,
		HMACSecret: cfg.APIHMACSecret,
		Platform:   cfg.APIPlatform,
		Timeout:    cfg.APITimeout,
	}, logger)
	if err != nil {
		return err
	}

	// Хранилище снимков справочников: PostgreSQL, файл или ничего
	var snapshots service.SnapshotStore
	switch {
	case cfg.DBDSN != "":
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return err
		}
		logger.Info("✅ Connected to database")

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		migrator.Close()
		if err != nil {
			return err
		}
		snapshots = repository.NewSnapshotRepository(pool)
	case cfg.SnapshotDir != "":
		snapshots = repository.NewFileSnapshotStore(cfg.SnapshotDir)
	}

	// Хранилище сессий: Redis или память процесса
	var sessions state.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		sessions = state.NewRedisStore(rdb, cfg.SessionTTL)
		logger.Info("✅ Sessions stored in Redis")
	} else {
		sessions = state.NewMemoryStore(cfg.SessionTTL, 10*time.Minute)
		logger.Info("Sessions stored in memory")
	}

	// Репозитории и сервисы
	groupRepo := repository.NewGroupRepository(api)
	teacherRepo := repository.NewTeacherRepository(api)

	reference := service.NewReferenceCache(groupRepo, teacherRepo, snapshots, logger)
	if err := reference.WarmStart(ctx); err != nil {
		logger.Warn("Failed to warm reference cache", zap.Error(err))
	}

	subscriptionService := service.NewSubscriptionService(repository.NewSubscriptionRepository(api), logger)
	lessonService := service.NewLessonService(repository.NewLessonRepository(api))
	userService := service.NewUserService(
		repository.NewUserRepository(api),
		repository.NewAccountRepository(api),
		cfg.APIPlatform,
		logger,
	)

	dispatcher := navigation.NewDispatcher(reference, subscriptionService, lessonService, userService, navigation.Options{
		SiteURL:  cfg.SiteURL,
		Location: loc,
	})
	engine := navigation.NewEngine(sessions, dispatcher, logger)

	scheduler := app.NewScheduler(reference, cfg.RefreshInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, engine, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands", zap.Error(err))
	}

	return botController.Start(ctx)
}
