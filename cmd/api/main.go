package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"

	"github.com/mohagy/roulette-sub003/api/routes"
	"github.com/mohagy/roulette-sub003/internal/cache"
	"github.com/mohagy/roulette-sub003/internal/config"
	"github.com/mohagy/roulette-sub003/internal/handlers"
	"github.com/mohagy/roulette-sub003/internal/repositories"
	mongorepo "github.com/mohagy/roulette-sub003/internal/repositories/mongodb"
	"github.com/mohagy/roulette-sub003/internal/scheduler"
	"github.com/mohagy/roulette-sub003/internal/services"
	"github.com/mohagy/roulette-sub003/pkg/mongodb"
)

func main() {
	// .env is optional, real deployments inject environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)
	if err := mongorepo.EnsureIndexes(context.Background(), db); err != nil {
		slog.Error("Failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	var cycleRepo repositories.DrawCycleRepository = mongorepo.NewDrawCycleRepository(db)
	var forcedRepo repositories.ForcedNumberRepository = mongorepo.NewForcedNumberRepository(db)
	var overrideRepo repositories.ManualOverrideRepository = mongorepo.NewManualOverrideRepository(db)
	var resultRepo repositories.DrawResultRepository = mongorepo.NewDrawResultRepository(db)
	var betRepo repositories.BetRepository = mongorepo.NewBetRepository(db)
	var settingsRepo repositories.SettingsRepository = mongorepo.NewSettingsRepository(db)
	var operatorRepo repositories.OperatorRepository = mongorepo.NewOperatorRepository(db)

	var exposureCache *cache.ExposureCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			slog.Warn("Redis unreachable, exposure caching disabled", "error", err)
		} else {
			exposureCache = cache.NewExposureCache(redisClient)
		}
	}

	timerService := services.NewTimerService(cycleRepo, settingsRepo)
	drawService := services.NewDrawService(cycleRepo, forcedRepo, overrideRepo, resultRepo, settingsRepo).
		WithStuckThreshold(time.Duration(cfg.Engine.StuckThresholdSeconds) * time.Second)
	forcedService := services.NewForcedNumberService(forcedRepo, cycleRepo)
	exposureService := services.NewExposureService(betRepo, exposureCache)
	recommendationService := services.NewRecommendationService(exposureService)
	authService := services.NewAuthService(operatorRepo, cfg)

	if _, err := drawService.EnsureCurrentCycle(context.Background()); err != nil {
		slog.Error("Failed to open initial draw cycle", "error", err)
		os.Exit(1)
	}

	handlerDeps := routes.HandlerDependencies{
		Auth:         handlers.NewAuthHandler(authService),
		Draw:         handlers.NewDrawHandler(drawService, timerService),
		ForcedNumber: handlers.NewForcedNumberHandler(forcedService),
		Exposure:     handlers.NewExposureHandler(exposureService, recommendationService),
	}
	router := routes.SetupRouter(cfg, handlerDeps)

	schedCtx, stopScheduler := context.WithCancel(context.Background())
	sched := scheduler.NewScheduler(drawService, timerService,
		time.Duration(cfg.Engine.TickSeconds)*time.Second,
		time.Duration(cfg.Engine.LockThresholdSeconds)*time.Second,
		time.Duration(cfg.Engine.StuckThresholdSeconds)*time.Second,
	)
	go sched.Run(schedCtx)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	slog.Info("Server starting", "port", cfg.Server.Port)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
